// Login command checks credentials against the users table.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	loginMobile string
	loginPIN    string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify a mobile number and PIN",
	Long: `Login checks the given mobile number and PIN against the stored
credentials and reports whether they match.

Example:
  gymkeeper login --mobile 9999999999 --pin 1234`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginMobile, "mobile", "", "mobile number (required)")
	loginCmd.Flags().StringVar(&loginPIN, "pin", "", "PIN (required)")
	_ = loginCmd.MarkFlagRequired("mobile")
	_ = loginCmd.MarkFlagRequired("pin")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ok, err := gymStore.AuthenticateUser(cmd.Context(), loginMobile, loginPIN)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("invalid mobile number or PIN")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Login successful.")
	return nil
}
