package domain

import "time"

// ─── Audit / History Types ──────────────────────────────────────────────────

// LedgerKind distinguishes which balance a ledger entry touched.
type LedgerKind string

const (
	LedgerXP    LedgerKind = "xp"
	LedgerCoins LedgerKind = "coins"
)

// Ledger entry sources.
const (
	SourceCompletion  = "habit_complete"
	SourcePenalty     = "penalty_sweep"
	SourcePurchase    = "reward_purchase"
	SourceAchievement = "achievement"
	SourceSpend       = "coin_spend"
)

// LedgerEntry is one audited XP or coin mutation. Balance is the value of
// the touched counter after the mutation (for XP this is the raw in-level
// XP, post level-up normalization).
type LedgerEntry struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	Timestamp time.Time  `json:"timestamp"`
	Kind      LedgerKind `json:"kind"`
	Source    string     `json:"source"`
	Delta     int        `json:"delta"`
	Balance   int        `json:"balance"`
}

// ─── Achievement Types ──────────────────────────────────────────────────────

// ProgressStats is the snapshot fed to achievement predicates after each
// successful completion.
type ProgressStats struct {
	TotalCompletions int `json:"total_completions"`
	BestStreak       int `json:"best_streak"`
	ActiveHabits     int `json:"active_habits"`
	Level            int `json:"level"`
	Coins            int `json:"coins"`
}

// AchievementDef defines a single achievement's requirements.
type AchievementDef struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	RewardXP    int                      `json:"reward_xp"`
	Predicate   func(ProgressStats) bool `json:"-"`
}

// UnlockedAchievement records when an achievement was earned.
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// ─── Reward Shop Types ──────────────────────────────────────────────────────

// Purchase records a reward bought with coins.
type Purchase struct {
	RewardID    string    `json:"reward_id"`
	Cost        int       `json:"cost"`
	PurchasedAt time.Time `json:"purchased_at"`
}
