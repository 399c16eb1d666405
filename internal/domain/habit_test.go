package domain

import (
	"errors"
	"testing"
	"time"
)

func testHabit() Habit {
	return Habit{
		ID:                 "h1",
		UserID:             "u1",
		Name:               "Morning run",
		Frequency:          Daily,
		TimesPerCompletion: 1,
		XPReward:           50,
		CoinReward:         10,
		IsActive:           true,
	}
}

func TestHabit_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Habit)
		ok     bool
	}{
		{"valid", func(h *Habit) {}, true},
		{"empty name", func(h *Habit) { h.Name = "  " }, false},
		{"bad frequency", func(h *Habit) { h.Frequency = Frequency{} }, false},
		{"zero times", func(h *Habit) { h.TimesPerCompletion = 0 }, false},
		{"negative xp", func(h *Habit) { h.XPReward = -5 }, false},
		{"negative penalty", func(h *Habit) { h.PenaltyXP = -1 }, false},
		{"schedule day out of range", func(h *Habit) { h.ScheduleDays = []int{7} }, false},
		{"schedule days valid", func(h *Habit) { h.ScheduleDays = []int{0, 3, 6} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testHabit()
			tt.mutate(&h)
			err := h.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidHabit) && !errors.Is(err, ErrInvalidFrequency) {
				t.Errorf("Validate() = %v, want validation error", err)
			}
		})
	}
}

// Scenario: daily habit completed 20 hours ago is still on cooldown; at
// exactly 24 hours it becomes completable.
func TestHabit_EligibleDailyCooldown(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	h := testHabit()

	h.LastCompletedAt = now.Add(-20 * time.Hour)
	if h.Eligible(now) {
		t.Error("eligible at 20h, want cooldown to hold until 24h")
	}
	if h.CanComplete(now) {
		t.Error("CanComplete at 20h, want false")
	}

	h.LastCompletedAt = now.Add(-24 * time.Hour)
	if !h.Eligible(now) {
		t.Error("not eligible at exactly 24h, want eligible")
	}
}

func TestHabit_EligibleNeverCompleted(t *testing.T) {
	h := testHabit()
	now := time.Now()

	if !h.Eligible(now) {
		t.Error("never-completed habit must be eligible")
	}
	if h.Overdue(now) {
		t.Error("never-completed habit must not be overdue")
	}
	if !h.NextDue().IsZero() {
		t.Error("never-completed habit has no next-due time")
	}
}

func TestHabit_CanCompleteInactive(t *testing.T) {
	h := testHabit()
	h.IsActive = false

	if h.CanComplete(time.Now()) {
		t.Error("inactive habit must not be completable")
	}
}

// Scenario: Custom(3, Day) → cooldown 72h, grace 84h. Not overdue at 80h,
// overdue at 84h.
func TestHabit_OverdueCustomGrace(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	h := testHabit()
	h.Frequency = Frequency{Value: 3, Unit: UnitDay}
	h.PenaltyXP = 20

	h.LastCompletedAt = now.Add(-80 * time.Hour)
	if h.Overdue(now) {
		t.Error("overdue at 80h, want grace to hold until 84h")
	}
	if !h.Eligible(now) {
		t.Error("not eligible at 80h, want eligible past the 72h cooldown")
	}

	h.LastCompletedAt = now.Add(-84 * time.Hour)
	if !h.Overdue(now) {
		t.Error("not overdue at 84h, want overdue")
	}
}

func TestHabit_OverdueRequiresPenalty(t *testing.T) {
	now := time.Now()
	h := testHabit()
	h.PenaltyXP = 0
	h.LastCompletedAt = now.Add(-100 * time.Hour)

	if h.Overdue(now) {
		t.Error("habit with penalty_xp=0 must never be overdue")
	}
}

func TestHabit_NextDue(t *testing.T) {
	h := testHabit()
	last := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	h.LastCompletedAt = last

	want := last.Add(24 * time.Hour)
	if got := h.NextDue(); !got.Equal(want) {
		t.Errorf("NextDue() = %v, want %v", got, want)
	}
}

func TestHabit_ScheduledOn(t *testing.T) {
	h := testHabit()
	monday := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) // Weekday() == 1
	sunday := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)

	if !h.ScheduledOn(monday) {
		t.Error("empty schedule means every day")
	}

	h.ScheduleDays = []int{1, 3, 5}
	if !h.ScheduledOn(monday) {
		t.Error("Monday is in the schedule")
	}
	if h.ScheduledOn(sunday) {
		t.Error("Sunday is not in the schedule")
	}
}
