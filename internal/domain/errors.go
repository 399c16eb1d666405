package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. NotEligible and
// InsufficientFunds are expected, frequent outcomes: callers treat them as
// rejected commands, not as faults.

var (
	// Habit errors
	ErrHabitNotFound    = errors.New("habit not found")
	ErrInvalidHabit     = errors.New("invalid habit definition")
	ErrInvalidFrequency = errors.New("unrecognized frequency specification")

	// Completion errors
	ErrNotEligible = errors.New("habit is still on cooldown")

	// Progression errors
	ErrAccountNotFound   = errors.New("progression account not found")
	ErrInsufficientFunds = errors.New("insufficient coins for purchase")
	ErrAlreadyPurchased  = errors.New("reward already purchased")
)
