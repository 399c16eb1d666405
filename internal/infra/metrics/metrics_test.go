package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetrics_Registered(t *testing.T) {
	// promauto registers with the default registry automatically.
	// Exercise each metric once, then verify the families gather.
	Completions.Inc()
	CompletionsRejected.Inc()
	PenaltiesApplied.Inc()
	PenaltyXP.Add(20)
	SweepDuration.Observe(0.002)
	XPGranted.WithLabelValues("habit_complete").Add(50)
	LevelUps.Inc()
	CoinsSpent.Add(200)
	AchievementsUnlocked.Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	expected := []string{
		"habitquest_completions_total",
		"habitquest_completions_rejected_total",
		"habitquest_penalties_total",
		"habitquest_penalty_xp_total",
		"habitquest_sweep_duration_seconds",
		"habitquest_xp_granted_total",
		"habitquest_level_ups_total",
		"habitquest_coins_spent_total",
		"habitquest_achievements_unlocked_total",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("%s not found in gathered metrics", name)
		}
	}
}
