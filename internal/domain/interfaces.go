package domain

import (
	"context"
	"time"
)

// ─── Store Interfaces ───────────────────────────────────────────────────────
// The engine is storage-agnostic: services receive these as explicit
// dependencies, infrastructure implements them. Store failures always
// propagate to the caller; the engine never swallows them.

// HabitStore abstracts persistent habit storage.
type HabitStore interface {
	// ListHabits returns all of a user's habits, active and inactive.
	ListHabits(ctx context.Context, userID string) ([]Habit, error)

	// GetHabit returns a single habit, or ErrHabitNotFound.
	GetHabit(ctx context.Context, userID, habitID string) (Habit, error)

	// CreateHabit persists a validated habit, assigning its ID and
	// creation timestamp. Returns the stored habit.
	CreateHabit(ctx context.Context, h Habit) (Habit, error)

	// MarkCompleted applies the completion mutation atomically:
	// completions+1, streak+1, last_completed_at=at, penalty cleared.
	MarkCompleted(ctx context.Context, userID, habitID string, at time.Time) error

	// MarkPenalized flips the penalty flag with compare-and-set
	// semantics: it succeeds only if the flag was previously clear.
	// Returns whether this call flipped it.
	MarkPenalized(ctx context.Context, userID, habitID string, at time.Time) (bool, error)

	// DeactivateHabit soft-deletes: the habit is excluded from
	// scheduling and sweeps but its history is retained.
	DeactivateHabit(ctx context.Context, userID, habitID string) error

	// DeleteHabit removes the habit record permanently.
	DeleteHabit(ctx context.Context, userID, habitID string) error
}

// ProgressionStore abstracts the per-user XP/level/coins ledger. Delta
// application is a serialized read-modify-write: the level-up loop in
// Account.AddXP is not additive, so implementations must not interleave
// concurrent deltas for the same account.
type ProgressionStore interface {
	// Account returns the user's account, provisioning a fresh level-1
	// account with the starting coin grant on first access.
	Account(ctx context.Context, userID string) (Account, error)

	// ApplyXPDelta adds XP (negative for penalties), normalizes
	// level-ups, appends a ledger entry, and returns the new account.
	ApplyXPDelta(ctx context.Context, userID string, delta int, source string) (Account, error)

	// ApplyCoinDelta adds coins, appends a ledger entry, and returns
	// the new account. Balance checks are the caller's job.
	ApplyCoinDelta(ctx context.Context, userID string, delta int, source string) (Account, error)

	// History returns the most recent ledger entries, newest first.
	History(ctx context.Context, userID string, limit int) ([]LedgerEntry, error)

	// UnlockAchievement records an achievement as earned. Idempotent:
	// returns whether this call newly unlocked it.
	UnlockAchievement(ctx context.Context, userID, achievementID string, at time.Time) (bool, error)

	// Achievements returns all unlocked achievements, newest first.
	Achievements(ctx context.Context, userID string) ([]UnlockedAchievement, error)

	// AddPurchase records a reward purchase. Returns false if the
	// reward was already purchased.
	AddPurchase(ctx context.Context, userID, rewardID string, cost int, at time.Time) (bool, error)

	// Purchases returns all purchased rewards, newest first.
	Purchases(ctx context.Context, userID string) ([]Purchase, error)
}
