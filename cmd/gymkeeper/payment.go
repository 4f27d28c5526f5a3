// Payment commands record and list payment transactions.
package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

var paymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Record and list payments",
}

var (
	paymentAmount float64
	paymentDate   string
	paymentMode   string
	paymentDesc   string
	paymentMember string
)

var paymentRecordCmd = &cobra.Command{
	Use:   "record <member-id>",
	Short: "Record a payment for a member",
	Long: `Record inserts a payment transaction and extends the membership by the
plan tenor from the payment date. The member is reactivated if expired.

A zero amount takes the plan's default amount.

Example:
  gymkeeper payment record abc123 --mode cash
  gymkeeper payment record abc123 --amount 2700 --mode upi --date 2024-01-01`,
	Args: cobra.ExactArgs(1),
	RunE: runPaymentRecord,
}

var paymentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payment transactions, newest first",
	Long: `List displays payment transactions. Use --member to restrict the list
to one member's transactions.

Example:
  gymkeeper payment list
  gymkeeper payment list --member abc123 --json`,
	Args: cobra.NoArgs,
	RunE: runPaymentList,
}

func init() {
	paymentRecordCmd.Flags().Float64Var(&paymentAmount, "amount", 0, "amount paid (default: plan amount)")
	paymentRecordCmd.Flags().StringVar(&paymentDate, "date", "", "payment date YYYY-MM-DD (default: today)")
	paymentRecordCmd.Flags().StringVar(&paymentMode, "mode", types.PaymentCash, "payment mode: cash, card, online, upi")
	paymentRecordCmd.Flags().StringVar(&paymentDesc, "description", "", "transaction description")

	paymentListCmd.Flags().StringVar(&paymentMember, "member", "", "filter by member ID")

	paymentCmd.AddCommand(paymentRecordCmd)
	paymentCmd.AddCommand(paymentListCmd)
}

func runPaymentRecord(cmd *cobra.Command, args []string) error {
	var date time.Time
	if paymentDate != "" {
		var err error
		if date, err = parseDate(paymentDate); err != nil {
			return err
		}
	}

	id, err := engine.RecordPayment(cmd.Context(), args[0], paymentAmount, date, paymentMode, paymentDesc)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, map[string]string{"id": id, "memberId": args[0]})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded payment: %s\n", id)
	return nil
}

func runPaymentList(cmd *cobra.Command, args []string) error {
	payments, err := gymStore.GetPayments(cmd.Context(), paymentMember)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, payments)
	}

	out := cmd.OutOrStdout()
	if len(payments) == 0 {
		fmt.Fprintln(out, "No payments found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMEMBER\tAMOUNT\tMODE\tDATE")
	for _, p := range payments {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
			shortID(p.ID), shortID(p.MemberID), p.Amount, p.PaymentMode,
			formatDate(p.PaymentDate))
	}
	w.Flush()
	fmt.Fprintf(out, "Total: %d payment(s)\n", len(payments))
	return nil
}
