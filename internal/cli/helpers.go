package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/habitquest/habitquest/internal/daemon"
	"github.com/habitquest/habitquest/internal/domain"
	"github.com/spf13/cobra"
)

// openDaemon initializes the runtime and resolves the acting user.
func openDaemon() (*daemon.Daemon, string, error) {
	d, err := daemon.New()
	if err != nil {
		return nil, "", err
	}

	user := userID
	if user == "" {
		user = d.Config.User.ID
	}
	if user == "" {
		user = "local"
	}
	return d, user, nil
}

// resolveHabitID accepts a habit name, full ID, or ID prefix and resolves
// it against the user's habits.
func resolveHabitID(cmd *cobra.Command, d *daemon.Daemon, user, ref string) (string, error) {
	habits, err := d.Habits.List(cmd.Context(), user, time.Now())
	if err != nil {
		return "", err
	}

	var matches []string
	for _, h := range habits {
		if h.ID == ref {
			return h.ID, nil
		}
		if strings.EqualFold(h.Name, ref) || strings.HasPrefix(h.ID, ref) {
			matches = append(matches, h.ID)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("%w: %q", domain.ErrHabitNotFound, ref)
	default:
		return "", fmt.Errorf("habit %q is ambiguous (%d matches), use the full ID", ref, len(matches))
	}
}

// humanDuration renders a duration for table output: "3h", "2d4h".
func humanDuration(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	d = d.Round(time.Minute)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}
