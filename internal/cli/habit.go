package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/habitquest/habitquest/internal/app/habit"
	"github.com/habitquest/habitquest/internal/domain"
	"github.com/spf13/cobra"
)

func init() {
	addCmd.Flags().StringVar(&addFrequency, "frequency", "daily", "Cadence: hourly, daily, weekly, monthly, or \"3 days\"")
	addCmd.Flags().StringVar(&addDescription, "description", "", "What this habit is about")
	addCmd.Flags().StringVar(&addCategory, "category", "", "Category label (health, learning, ...)")
	addCmd.Flags().IntVar(&addXP, "xp", 50, "XP credited per completion")
	addCmd.Flags().IntVar(&addCoins, "coins", 10, "Coins credited per completion")
	addCmd.Flags().IntVar(&addPenalty, "penalty", 0, "XP charged when the habit goes overdue (0 disables)")

	rmCmd.Flags().BoolVar(&rmPurge, "purge", false, "Remove the habit row instead of deactivating")

	habitCmd.AddCommand(addCmd, habitListCmd, completeCmd, rmCmd)
	rootCmd.AddCommand(habitCmd)
}

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage habits",
}

// ─── habit add ──────────────────────────────────────────────────────────────

var (
	addFrequency   string
	addDescription string
	addCategory    string
	addXP          int
	addCoins       int
	addPenalty     int
)

var addCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a new habit",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	d, user, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	freq, err := domain.ParseFrequency(addFrequency)
	if err != nil {
		return err
	}

	h, err := d.Habits.Create(cmd.Context(), domain.Habit{
		UserID:      user,
		Name:        args[0],
		Description: addDescription,
		Category:    addCategory,
		Frequency:   freq,
		XPReward:    addXP,
		CoinReward:  addCoins,
		PenaltyXP:   addPenalty,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created %q (%s, +%d XP, +%d coins) — id %s\n",
		h.Name, h.Frequency, h.XPReward, h.CoinReward, h.ID)
	return nil
}

// ─── habit list ─────────────────────────────────────────────────────────────

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with their cooldown status",
	RunE:    runHabitList,
}

func runHabitList(cmd *cobra.Command, args []string) error {
	d, user, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	now := time.Now()
	statuses, err := d.Habits.List(cmd.Context(), user, now)
	if err != nil {
		return err
	}

	if len(statuses) == 0 {
		fmt.Println("No habits yet. Run 'habitquest habit add <name>' to get started.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFREQUENCY\tSTREAK\tDONE\tSTATUS")
	for _, st := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			st.ID[:8],
			st.Name,
			st.Frequency,
			st.Streak,
			st.Completions,
			renderStatus(st, now),
		)
	}
	return w.Flush()
}

func renderStatus(st habit.Status, now time.Time) string {
	switch {
	case !st.IsActive:
		return "inactive"
	case st.Overdue:
		return "overdue"
	case st.CanComplete:
		return "due"
	default:
		return "next in " + humanDuration(st.NextDue.Sub(now))
	}
}

// ─── habit complete ─────────────────────────────────────────────────────────

var completeCmd = &cobra.Command{
	Use:     "complete HABIT",
	Aliases: []string{"done"},
	Short:   "Mark a habit as completed",
	Args:    cobra.ExactArgs(1),
	RunE:    runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	d, user, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	id, err := resolveHabitID(cmd, d, user, args[0])
	if err != nil {
		return err
	}

	result, err := d.Habits.Complete(cmd.Context(), user, id, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Completed %q — streak %d, +%d XP, +%d coins\n",
		result.Habit.Name, result.Habit.Streak, result.Habit.XPReward, result.Habit.CoinReward)
	if result.LevelsGained > 0 {
		fmt.Printf("Level up! You are now level %d.\n", result.Account.Level)
	}
	for _, id := range result.Unlocked {
		fmt.Printf("Achievement unlocked: %s\n", id)
	}
	return nil
}

// ─── habit rm ───────────────────────────────────────────────────────────────

var rmPurge bool

var rmCmd = &cobra.Command{
	Use:   "rm HABIT",
	Short: "Deactivate a habit (keeps history; --purge removes it)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	d, user, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	id, err := resolveHabitID(cmd, d, user, args[0])
	if err != nil {
		return err
	}

	if rmPurge {
		if err := d.Habits.Delete(cmd.Context(), user, id); err != nil {
			return err
		}
		fmt.Println("Removed habit and its record.")
		return nil
	}

	if err := d.Habits.Deactivate(cmd.Context(), user, id); err != nil {
		return err
	}
	fmt.Println("Deactivated habit. History is kept; use --purge to remove it.")
	return nil
}
