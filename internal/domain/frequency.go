// Package domain holds the habit progression engine: frequency resolution,
// scheduling, completion eligibility, streak and reward accounting, and the
// user leveling curve. Everything here is a pure computation over explicit
// inputs — no storage, no clocks of its own, no infrastructure imports.
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FreqUnit is the time unit of a habit frequency.
type FreqUnit string

const (
	UnitHour  FreqUnit = "hour"
	UnitDay   FreqUnit = "day"
	UnitWeek  FreqUnit = "week"
	UnitMonth FreqUnit = "month"
)

// unitHours maps a frequency unit to its length in hours.
// Months use the 30-day approximation.
var unitHours = map[FreqUnit]int{
	UnitHour:  1,
	UnitDay:   24,
	UnitWeek:  168,
	UnitMonth: 720,
}

// graceBuffer returns the extra time beyond the cooldown before a missed
// habit counts as overdue. The buffers are deliberately asymmetric per unit
// (hourly doubles, the rest add a fixed slice of the next unit); they are
// kept as literal constants rather than one formula.
func graceBuffer(unit FreqUnit, cooldown time.Duration) time.Duration {
	switch unit {
	case UnitHour:
		return cooldown
	case UnitDay:
		return 12 * time.Hour
	case UnitWeek:
		return 24 * time.Hour
	case UnitMonth:
		return 168 * time.Hour
	default:
		return 12 * time.Hour // Daily fallback shape
	}
}

// Frequency is a habit's cadence, normalized at the creation boundary.
// Presets are the value-1 cases: Daily == Frequency{1, UnitDay}.
type Frequency struct {
	Value int      `json:"value"`
	Unit  FreqUnit `json:"unit"`
}

// Preset frequencies.
var (
	Hourly  = Frequency{Value: 1, Unit: UnitHour}
	Daily   = Frequency{Value: 1, Unit: UnitDay}
	Weekly  = Frequency{Value: 1, Unit: UnitWeek}
	Monthly = Frequency{Value: 1, Unit: UnitMonth}
)

// ParseFrequency turns a user-supplied spec string into a Frequency.
// Accepted forms: a preset tag ("hourly", "daily", "weekly", "monthly")
// or "<value> <unit>" with a positive integer value ("3 days", "2 week").
// Malformed input is rejected here, once, instead of silently defaulting
// on every scheduling check.
func ParseFrequency(spec string) (Frequency, error) {
	s := strings.ToLower(strings.TrimSpace(spec))

	switch s {
	case "hourly":
		return Hourly, nil
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	}

	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Frequency{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, spec)
	}

	value, err := strconv.Atoi(fields[0])
	if err != nil || value <= 0 {
		return Frequency{}, fmt.Errorf("%w: value %q must be a positive integer", ErrInvalidFrequency, fields[0])
	}

	unit, err := parseUnit(fields[1])
	if err != nil {
		return Frequency{}, fmt.Errorf("%w: unit %q", ErrInvalidFrequency, fields[1])
	}

	return Frequency{Value: value, Unit: unit}, nil
}

// parseUnit accepts singular and plural unit names plus short forms.
func parseUnit(s string) (FreqUnit, error) {
	switch strings.TrimSuffix(s, "s") {
	case "hour", "hr", "h":
		return UnitHour, nil
	case "day", "d":
		return UnitDay, nil
	case "week", "wk", "w":
		return UnitWeek, nil
	case "month", "mo":
		return UnitMonth, nil
	}
	return "", ErrInvalidFrequency
}

// Valid reports whether the frequency is a well-formed, normalized spec.
func (f Frequency) Valid() bool {
	_, ok := unitHours[f.Unit]
	return ok && f.Value > 0
}

// Cooldown returns the minimum elapsed time after a completion before the
// habit becomes completable again. A zero-value or corrupted frequency
// resolves to the Daily cooldown: scheduling never blocks on bad data that
// slipped past the creation boundary.
func (f Frequency) Cooldown() time.Duration {
	hours, ok := unitHours[f.Unit]
	if !ok || f.Value <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(f.Value*hours) * time.Hour
}

// Grace returns the elapsed time after a completion at which the habit
// counts as overdue for penalty purposes: cooldown plus the per-unit buffer.
func (f Frequency) Grace() time.Duration {
	return f.Cooldown() + graceBuffer(f.Unit, f.Cooldown())
}

// String renders the frequency for display: "daily", "every 3 days".
func (f Frequency) String() string {
	if !f.Valid() {
		return "daily"
	}
	if f.Value == 1 {
		switch f.Unit {
		case UnitHour:
			return "hourly"
		case UnitDay:
			return "daily"
		case UnitWeek:
			return "weekly"
		case UnitMonth:
			return "monthly"
		}
	}
	return fmt.Sprintf("every %d %ss", f.Value, f.Unit)
}
