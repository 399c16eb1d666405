package domain

import (
	"fmt"
	"strings"
	"time"
)

// Habit is a user-owned recurring task. Mutations to the completion and
// penalty fields go through the habit service; everything else is set at
// creation. A zero LastCompletedAt means never completed.
type Habit struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`

	Frequency          Frequency `json:"frequency"`
	TimesPerCompletion int       `json:"times_per_completion"`
	XPReward           int       `json:"xp_reward"`
	CoinReward         int       `json:"coin_reward"`
	PenaltyXP          int       `json:"penalty_xp"` // 0 disables penalty tracking

	Completions      int       `json:"completions"`
	Streak           int       `json:"streak"`
	LastCompletedAt  time.Time `json:"last_completed_at,omitzero"`
	PenaltyApplied   bool      `json:"penalty_applied"`
	LastPenaltyCheck time.Time `json:"last_penalty_check,omitzero"`

	IsActive     bool      `json:"is_active"`
	ScheduleDays []int     `json:"schedule_days,omitempty"` // weekday indices, 0=Sunday
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks a habit definition at the creation boundary.
// Malformed input is rejected synchronously, never silently coerced.
func (h Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidHabit)
	}
	if !h.Frequency.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, h.Frequency)
	}
	if h.TimesPerCompletion < 1 {
		return fmt.Errorf("%w: times per completion must be >= 1", ErrInvalidHabit)
	}
	if h.XPReward < 0 || h.CoinReward < 0 || h.PenaltyXP < 0 {
		return fmt.Errorf("%w: reward and penalty values must be non-negative", ErrInvalidHabit)
	}
	for _, d := range h.ScheduleDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: schedule day %d out of range 0..6", ErrInvalidHabit, d)
		}
	}
	return nil
}

// ─── Scheduling Clock ───────────────────────────────────────────────────────
// Eligibility uses rolling elapsed-hours, never calendar-date comparison.
// The two disagree near midnight; rolling time is the canonical semantic.

// Eligible reports whether the habit's cooldown has elapsed.
// A never-completed habit is always eligible.
func (h Habit) Eligible(now time.Time) bool {
	if h.LastCompletedAt.IsZero() {
		return true
	}
	return now.Sub(h.LastCompletedAt) >= h.Frequency.Cooldown()
}

// Overdue reports whether the habit has been missed long enough to be
// penalized: past cooldown plus grace. Habits with no penalty configured
// and habits never completed are never overdue.
func (h Habit) Overdue(now time.Time) bool {
	if h.LastCompletedAt.IsZero() || h.PenaltyXP == 0 {
		return false
	}
	return now.Sub(h.LastCompletedAt) >= h.Frequency.Grace()
}

// NextDue returns when the habit comes off cooldown. Informational, for
// display; zero if the habit has never been completed (due immediately).
func (h Habit) NextDue() time.Time {
	if h.LastCompletedAt.IsZero() {
		return time.Time{}
	}
	return h.LastCompletedAt.Add(h.Frequency.Cooldown())
}

// CanComplete is the sole authority gating a completion attempt.
// Penalty state is deliberately not consulted: a penalized habit is
// completed the same way as any other.
func (h Habit) CanComplete(now time.Time) bool {
	return h.IsActive && h.Eligible(now)
}

// ScheduledOn reports whether the habit is scheduled at all on now's
// weekday. An empty ScheduleDays set means every day. This restricts what
// counts as "due" for display; it is independent of the cooldown math.
func (h Habit) ScheduledOn(now time.Time) bool {
	if len(h.ScheduleDays) == 0 {
		return true
	}
	wd := int(now.Weekday())
	for _, d := range h.ScheduleDays {
		if d == wd {
			return true
		}
	}
	return false
}
