package domain

import "time"

// XPPerLevel is the slope of the leveling curve: reaching the next level
// from level N costs N*500 XP.
const XPPerLevel = 500

// XPToNextFor returns the XP threshold for leveling up from the given level.
func XPToNextFor(level int) int {
	return level * XPPerLevel
}

// Account is the per-user XP/level/coins ledger.
// Invariant after AddXP normalization: 0 <= XP < XPToNext for non-negative
// deltas. A negative delta (penalty) can drive XP below zero; there is no
// de-level loop, so the account then sits at negative XP until future
// completions climb it back out. That behavior is deliberate: the overflow
// direction is the only one the leveling algorithm defines.
type Account struct {
	UserID      string `json:"user_id"`
	Level       int    `json:"level"`
	XP          int    `json:"xp"`
	XPToNext    int    `json:"xp_to_next"`
	Coins       int    `json:"coins"`
	StreakCount int    `json:"streak_count"`

	CreatedAt time.Time `json:"created_at,omitzero"`
}

// NewAccount creates a fresh level-1 account with a starting coin grant.
func NewAccount(userID string, startingCoins int) Account {
	return Account{
		UserID:   userID,
		Level:    1,
		XP:       0,
		XPToNext: XPToNextFor(1),
		Coins:    startingCoins,
	}
}

// AddXP credits (or, for penalties, debits) experience and normalizes
// level-ups. Returns the number of levels gained. Associative: applying
// x then y lands on the same state as applying x+y.
func (a *Account) AddXP(amount int) int {
	a.XP += amount

	levelsGained := 0
	for a.XP >= a.XPToNext {
		a.XP -= a.XPToNext
		a.Level++
		a.XPToNext = XPToNextFor(a.Level)
		levelsGained++
	}
	return levelsGained
}

// AddCoins credits coins unconditionally.
func (a *Account) AddCoins(amount int) {
	a.Coins += amount
}

// SpendCoins debits coins, rejecting the spend when the balance is short.
// Returns false with the account unchanged on rejection; never an error.
func (a *Account) SpendCoins(amount int) bool {
	if amount > a.Coins {
		return false
	}
	a.Coins -= amount
	return true
}
