// Package metrics provides Prometheus metrics for HabitQuest: counters and
// histograms for completions, penalties, progression, and sweeps.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Completions ────────────────────────────────────────────────────────────

// Completions tracks successful habit completions.
var Completions = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "habitquest",
	Name:      "completions_total",
	Help:      "Total successful habit completions.",
})

// CompletionsRejected tracks completion attempts rejected by the guard.
var CompletionsRejected = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "habitquest",
	Name:      "completions_rejected_total",
	Help:      "Total completion attempts rejected while on cooldown.",
})

// ─── Penalties ──────────────────────────────────────────────────────────────

// PenaltiesApplied tracks habits charged a penalty by sweeps.
var PenaltiesApplied = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "habitquest",
	Name:      "penalties_total",
	Help:      "Total habits penalized for missed periods.",
})

// PenaltyXP tracks XP deducted by penalty sweeps.
var PenaltyXP = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "habitquest",
	Name:      "penalty_xp_total",
	Help:      "Total XP deducted by penalty sweeps.",
})

// SweepDuration tracks penalty sweep duration in seconds.
var SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "habitquest",
	Name:      "sweep_duration_seconds",
	Help:      "Penalty sweep duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
})

// ─── Progression ────────────────────────────────────────────────────────────

// XPGranted tracks XP credited by source.
var XPGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "habitquest",
	Name:      "xp_granted_total",
	Help:      "Total XP credited.",
}, []string{"source"})

// LevelUps tracks level-up events.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "habitquest",
	Name:      "level_ups_total",
	Help:      "Total level-ups.",
})

// CoinsSpent tracks coins spent in the reward shop and elsewhere.
var CoinsSpent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "habitquest",
	Name:      "coins_spent_total",
	Help:      "Total coins spent.",
})

// AchievementsUnlocked tracks newly unlocked achievements.
var AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "habitquest",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
})
