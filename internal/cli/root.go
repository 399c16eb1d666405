// Package cli implements the HabitQuest command-line interface using Cobra.
// Each subcommand maps to an engine capability (habit, sweep, stats, serve).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "habitquest",
	Short: "HabitQuest — Gamified habit tracking",
	Long: `HabitQuest is a local-first habit tracker with XP, coins, streaks,
and a penalty sweep for the habits you let slip.

Data lives in ~/.habitquest; point HABITQUEST_HOME elsewhere to move it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// userID is the acting user for habit commands. Defaults to the configured
// local user.
var userID string

func init() {
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "Act as this user ID (defaults to config)")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
