// Member commands manage gym members.
package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gymkeeper/internal/lifecycle"
	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage gym members",
}

var (
	memberName      string
	memberPhone     string
	memberEmail     string
	memberAddress   string
	memberAvatarURL string
	memberType      string
	memberStart     string
	memberEnd       string
	memberNotes     string
	memberActive    bool

	listSection string
)

var memberAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new member",
	Long: `Add registers a new member and schedules the automatic payment and
renewal reminders for the membership end date.

The start date defaults to today and the end date to the start date plus
the plan tenor (monthly 30d, quarterly 90d, yearly 365d).

Example:
  gymkeeper member add --name "Asha Rao" --phone 9876543210
  gymkeeper member add --name "Ravi Iyer" --phone 9123456780 --type yearly`,
	Args: cobra.NoArgs,
	RunE: runMemberAdd,
}

var memberListCmd = &cobra.Command{
	Use:   "list",
	Short: "List members",
	Long: `List displays members, newest first.

Use --section to filter by lifecycle status: all, active, expired, or
renewing (active members expiring within seven days).

Example:
  gymkeeper member list
  gymkeeper member list --section renewing
  gymkeeper member list --json`,
	Args: cobra.NoArgs,
	RunE: runMemberList,
}

var memberGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a member by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemberGet,
}

var memberUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update member fields",
	Long: `Update applies the supplied flags to an existing member. Only flags
that were explicitly set are applied; the member ID and creation
timestamp are never updatable.

Example:
  gymkeeper member update abc123 --phone 9000000001
  gymkeeper member update abc123 --type quarterly --active=false`,
	Args: cobra.ExactArgs(1),
	RunE: runMemberUpdate,
}

var memberDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a member by ID",
	Long: `Delete removes a member together with that member's reminders and
payment transactions.

Example:
  gymkeeper member delete abc123`,
	Args: cobra.ExactArgs(1),
	RunE: runMemberDelete,
}

func init() {
	memberAddCmd.Flags().StringVar(&memberName, "name", "", "member name (required)")
	memberAddCmd.Flags().StringVar(&memberPhone, "phone", "", "phone number (required)")
	memberAddCmd.Flags().StringVar(&memberEmail, "email", "", "email address")
	memberAddCmd.Flags().StringVar(&memberAddress, "address", "", "postal address")
	memberAddCmd.Flags().StringVar(&memberAvatarURL, "avatar-url", "", "avatar image URL")
	memberAddCmd.Flags().StringVar(&memberType, "type", types.MembershipMonthly, "membership type: monthly, quarterly, yearly")
	memberAddCmd.Flags().StringVar(&memberStart, "start", "", "start date YYYY-MM-DD (default: today)")
	memberAddCmd.Flags().StringVar(&memberEnd, "end", "", "end date YYYY-MM-DD (default: start plus plan tenor)")
	memberAddCmd.Flags().StringVar(&memberNotes, "notes", "", "free-form notes")
	_ = memberAddCmd.MarkFlagRequired("name")
	_ = memberAddCmd.MarkFlagRequired("phone")

	memberListCmd.Flags().StringVar(&listSection, "section", "all", "filter: all, active, expired, renewing")

	memberUpdateCmd.Flags().StringVar(&memberName, "name", "", "member name")
	memberUpdateCmd.Flags().StringVar(&memberPhone, "phone", "", "phone number")
	memberUpdateCmd.Flags().StringVar(&memberEmail, "email", "", "email address")
	memberUpdateCmd.Flags().StringVar(&memberAddress, "address", "", "postal address")
	memberUpdateCmd.Flags().StringVar(&memberAvatarURL, "avatar-url", "", "avatar image URL")
	memberUpdateCmd.Flags().StringVar(&memberType, "type", "", "membership type: monthly, quarterly, yearly")
	memberUpdateCmd.Flags().StringVar(&memberStart, "start", "", "start date YYYY-MM-DD")
	memberUpdateCmd.Flags().StringVar(&memberEnd, "end", "", "end date YYYY-MM-DD")
	memberUpdateCmd.Flags().StringVar(&memberNotes, "notes", "", "free-form notes")
	memberUpdateCmd.Flags().BoolVar(&memberActive, "active", true, "active flag")

	memberCmd.AddCommand(memberAddCmd)
	memberCmd.AddCommand(memberListCmd)
	memberCmd.AddCommand(memberGetCmd)
	memberCmd.AddCommand(memberUpdateCmd)
	memberCmd.AddCommand(memberDeleteCmd)
}

func runMemberAdd(cmd *cobra.Command, args []string) error {
	start := time.Now()
	if memberStart != "" {
		var err error
		if start, err = parseDate(memberStart); err != nil {
			return err
		}
	}

	tenor, ok := types.TenorDays[memberType]
	if !ok {
		return fmt.Errorf("invalid membership type %q: %w", memberType, types.ErrInvalidMembershipType)
	}
	end := start.AddDate(0, 0, tenor)
	if memberEnd != "" {
		var err error
		if end, err = parseDate(memberEnd); err != nil {
			return err
		}
	}

	m := &types.Member{
		Name:           memberName,
		Phone:          memberPhone,
		Email:          memberEmail,
		Address:        memberAddress,
		AvatarURL:      memberAvatarURL,
		MembershipType: memberType,
		StartDate:      start,
		EndDate:        end,
		IsActive:       true,
		Notes:          memberNotes,
	}

	id, err := engine.AddMember(cmd.Context(), m)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, m)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added member: %s\n", id)
	return nil
}

func runMemberList(cmd *cobra.Command, args []string) error {
	members, err := gymStore.GetAllMembers(cmd.Context())
	if err != nil {
		return err
	}

	partition := lifecycle.Classify(members, time.Now())
	var selected []types.Member
	switch listSection {
	case "all":
		selected = partition.All
	case "active":
		selected = partition.Active
	case "expired":
		selected = partition.Expired
	case "renewing":
		selected = partition.Renewing
	default:
		return fmt.Errorf("invalid section %q (want all, active, expired, or renewing)", listSection)
	}

	if jsonOutput {
		return printJSON(cmd, selected)
	}
	printMemberTable(cmd, selected)
	return nil
}

func runMemberGet(cmd *cobra.Command, args []string) error {
	m, err := gymStore.GetMember(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, m)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:         %s\n", m.ID)
	fmt.Fprintf(out, "Name:       %s\n", m.Name)
	fmt.Fprintf(out, "Phone:      %s\n", m.Phone)
	if m.Email != "" {
		fmt.Fprintf(out, "Email:      %s\n", m.Email)
	}
	fmt.Fprintf(out, "Plan:       %s\n", m.MembershipType)
	fmt.Fprintf(out, "Start:      %s\n", formatDate(m.StartDate))
	fmt.Fprintf(out, "End:        %s\n", formatDate(m.EndDate))
	fmt.Fprintf(out, "Active:     %t\n", m.IsActive)
	if m.LastPaymentDate != nil {
		fmt.Fprintf(out, "Last paid:  %s\n", formatDate(*m.LastPaymentDate))
	}
	if m.Notes != "" {
		fmt.Fprintf(out, "Notes:      %s\n", m.Notes)
	}
	return nil
}

func runMemberUpdate(cmd *cobra.Command, args []string) error {
	updates := make(map[string]any)
	stringFlags := map[string]*string{
		"name":       &memberName,
		"phone":      &memberPhone,
		"email":      &memberEmail,
		"address":    &memberAddress,
		"avatar-url": &memberAvatarURL,
		"type":       &memberType,
		"notes":      &memberNotes,
	}
	fieldNames := map[string]string{
		"name":       types.FieldName,
		"phone":      types.FieldPhone,
		"email":      types.FieldEmail,
		"address":    types.FieldAddress,
		"avatar-url": types.FieldAvatarURL,
		"type":       types.FieldMembershipType,
		"notes":      types.FieldNotes,
	}
	for flag, value := range stringFlags {
		if cmd.Flags().Changed(flag) {
			updates[fieldNames[flag]] = *value
		}
	}
	if cmd.Flags().Changed("start") {
		t, err := parseDate(memberStart)
		if err != nil {
			return err
		}
		updates[types.FieldStartDate] = t
	}
	if cmd.Flags().Changed("end") {
		t, err := parseDate(memberEnd)
		if err != nil {
			return err
		}
		updates[types.FieldEndDate] = t
	}
	if cmd.Flags().Changed("active") {
		updates[types.FieldIsActive] = memberActive
	}

	applied, err := gymStore.UpdateMember(cmd.Context(), args[0], updates)
	if err != nil {
		return err
	}
	if !applied {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing updated.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated member: %s\n", args[0])
	return nil
}

func runMemberDelete(cmd *cobra.Command, args []string) error {
	if err := gymStore.DeleteMember(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted member: %s\n", args[0])
	return nil
}

// printMemberTable prints members in a human-readable table format.
func printMemberTable(cmd *cobra.Command, members []types.Member) {
	out := cmd.OutOrStdout()
	if len(members) == 0 {
		fmt.Fprintln(out, "No members found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tPLAN\tEND\tACTIVE")
	for _, m := range members {
		name := m.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
			shortID(m.ID), name, m.Phone, m.MembershipType,
			formatDate(m.EndDate), m.IsActive)
	}
	w.Flush()
	fmt.Fprintf(out, "Total: %d member(s)\n", len(members))
}
