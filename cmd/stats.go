package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <session-id>",
	Short: "Show the record for a past session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid session id %q", args[0])
		}

		client := buildClient(cmd)
		detail, err := client.GetSession(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Printf("Session #%d (%s)\n", detail.SessionID, detail.Status)
		fmt.Printf("  Mode      %s · %s\n", detail.Mode, detail.Level)
		fmt.Printf("  Score     %d/%d (%.0f%%)\n", detail.CorrectCount, detail.TotalQuestions, detail.Accuracy*100)
		fmt.Printf("  Streak    %d\n", detail.MaxStreak)
		fmt.Printf("  Duration  %ds\n", detail.DurationSecs)
		if detail.CompletedAt != "" {
			fmt.Printf("  Finished  %s\n", detail.CompletedAt)
		}
		return nil
	},
}
