package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sweepCmd)
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Charge penalties for overdue habits",
	Long: `Walk your active habits and charge the configured XP penalty for any
that slipped past their grace window. Each overdue period is charged once;
re-running the sweep does not double-charge.`,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	d, user, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	result, err := d.Habits.Sweep(cmd.Context(), user, time.Now())
	if err != nil {
		return err
	}

	if len(result.PenalizedIDs) == 0 {
		fmt.Println("Nothing overdue. Keep it up.")
		return nil
	}

	fmt.Printf("%d habit(s) overdue, -%d XP. You are level %d with %d XP.\n",
		len(result.PenalizedIDs), result.PenaltyXP, result.Account.Level, result.Account.XP)
	return nil
}
