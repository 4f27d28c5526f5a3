// Reminder commands manage scheduled reminders.
package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gymkeeper/internal/lifecycle"
	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

var reminderCmd = &cobra.Command{
	Use:   "reminder",
	Short: "Manage reminders",
}

var (
	reminderMember  string
	reminderType    string
	reminderTitle   string
	reminderMessage string
	reminderDate    string

	reminderUpcoming int
)

var reminderAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a reminder",
	Long: `Add creates a custom reminder and schedules its notification. Use the
member sentinel "general" for reminders not tied to a member.

Example:
  gymkeeper reminder add --title "Service the treadmill" --date 2024-04-01
  gymkeeper reminder add --member abc123 --type payment --title "Follow up" --date 2024-03-28`,
	Args: cobra.NoArgs,
	RunE: runReminderAdd,
}

var reminderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders ordered by scheduled date",
	Long: `List displays reminders. Use --upcoming to show only unsent reminders
due within the next N days.

Example:
  gymkeeper reminder list
  gymkeeper reminder list --upcoming 7`,
	Args: cobra.NoArgs,
	RunE: runReminderList,
}

func init() {
	reminderAddCmd.Flags().StringVar(&reminderMember, "member", types.GeneralReminderMember, "member ID, or \"general\"")
	reminderAddCmd.Flags().StringVar(&reminderType, "type", types.ReminderCustom, "reminder type: payment, renewal, custom")
	reminderAddCmd.Flags().StringVar(&reminderTitle, "title", "", "reminder title (required)")
	reminderAddCmd.Flags().StringVar(&reminderMessage, "message", "", "reminder message")
	reminderAddCmd.Flags().StringVar(&reminderDate, "date", "", "scheduled date YYYY-MM-DD (required)")
	_ = reminderAddCmd.MarkFlagRequired("title")
	_ = reminderAddCmd.MarkFlagRequired("date")

	reminderListCmd.Flags().IntVar(&reminderUpcoming, "upcoming", 0, "only unsent reminders due within N days (0 = all)")

	reminderCmd.AddCommand(reminderAddCmd)
	reminderCmd.AddCommand(reminderListCmd)
}

func runReminderAdd(cmd *cobra.Command, args []string) error {
	scheduled, err := parseDate(reminderDate)
	if err != nil {
		return err
	}

	r := &types.Reminder{
		MemberID:      reminderMember,
		Type:          reminderType,
		Title:         reminderTitle,
		Message:       reminderMessage,
		ScheduledDate: scheduled,
	}

	id, err := engine.CreateReminder(cmd.Context(), r)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, r)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added reminder: %s\n", id)
	return nil
}

func runReminderList(cmd *cobra.Command, args []string) error {
	reminders, err := gymStore.GetAllReminders(cmd.Context())
	if err != nil {
		return err
	}

	if reminderUpcoming > 0 {
		reminders = lifecycle.UpcomingReminders(reminders, time.Now(), reminderUpcoming)
	}

	if jsonOutput {
		return printJSON(cmd, reminders)
	}

	out := cmd.OutOrStdout()
	if len(reminders) == 0 {
		fmt.Fprintln(out, "No reminders found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMEMBER\tTYPE\tTITLE\tDATE\tSENT")
	for _, r := range reminders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
			shortID(r.ID), shortID(r.MemberID), r.Type, r.Title,
			formatDate(r.ScheduledDate), r.IsSent)
	}
	w.Flush()
	fmt.Fprintf(out, "Total: %d reminder(s)\n", len(reminders))
	return nil
}
