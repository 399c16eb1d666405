package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	statsCmd.Flags().IntVar(&statsHistory, "history", 0, "Also show the last N ledger entries")
	rootCmd.AddCommand(statsCmd)
}

var statsHistory int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show level, XP, coins, and achievements",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, user, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	account, err := d.Progress.Account(cmd.Context(), user)
	if err != nil {
		return err
	}

	fmt.Printf("Level %d — %d / %d XP, %d coins\n",
		account.Level, account.XP, account.XPToNext, account.Coins)

	unlocked, err := d.Progress.Achievements(cmd.Context(), user)
	if err != nil {
		return err
	}
	if len(unlocked) > 0 {
		fmt.Printf("Achievements (%d):\n", len(unlocked))
		for _, a := range unlocked {
			fmt.Printf("  %s — %s\n", a.ID, a.UnlockedAt.Format("2006-01-02"))
		}
	}

	if statsHistory > 0 {
		entries, err := d.Progress.History(cmd.Context(), user, statsHistory)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tKIND\tAMOUNT\tSOURCE\tBALANCE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%+d\t%s\t%d\n",
				e.Timestamp.Format("2006-01-02 15:04"), e.Kind, e.Delta, e.Source, e.Balance)
		}
		return w.Flush()
	}
	return nil
}
