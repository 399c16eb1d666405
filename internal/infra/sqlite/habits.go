package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/habitquest/habitquest/internal/domain"
)

// ─── Habit Repository ───────────────────────────────────────────────────────

const habitColumns = `id, user_id, name, description, category,
	freq_value, freq_unit, times_per_completion,
	xp_reward, coin_reward, penalty_xp,
	completions, streak, last_completed_at,
	penalty_applied, last_penalty_check,
	is_active, schedule_days, created_at`

// CreateHabit persists a validated habit, assigning its ID and creation time.
func (d *DB) CreateHabit(ctx context.Context, h domain.Habit) (domain.Habit, error) {
	h.ID = uuid.NewString()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}

	_, err := d.db.ExecContext(ctx,
		`INSERT INTO habits (`+habitColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.UserID, h.Name, h.Description, h.Category,
		h.Frequency.Value, string(h.Frequency.Unit), h.TimesPerCompletion,
		h.XPReward, h.CoinReward, h.PenaltyXP,
		h.Completions, h.Streak, nullableUnix(h.LastCompletedAt),
		h.PenaltyApplied, nullableUnix(h.LastPenaltyCheck),
		h.IsActive, encodeDays(h.ScheduleDays), h.CreatedAt.Unix(),
	)
	if err != nil {
		return domain.Habit{}, err
	}
	return h, nil
}

// GetHabit retrieves a single habit for a user.
func (d *DB) GetHabit(ctx context.Context, userID, habitID string) (domain.Habit, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = ? AND user_id = ?`,
		habitID, userID,
	)
	return scanHabit(row)
}

// ListHabits returns all of a user's habits, newest first.
func (d *DB) ListHabits(ctx context.Context, userID string) ([]domain.Habit, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE user_id = ? ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []domain.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// MarkCompleted applies the completion mutation as a single atomic update:
// the counters increment at the storage layer, the penalty flag clears.
func (d *DB) MarkCompleted(ctx context.Context, userID, habitID string, at time.Time) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE habits
		 SET completions = completions + 1,
		     streak = streak + 1,
		     last_completed_at = ?,
		     penalty_applied = 0
		 WHERE id = ? AND user_id = ?`,
		at.Unix(), habitID, userID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

// MarkPenalized flips the penalty flag with compare-and-set semantics:
// the update is conditioned on the flag being clear, so concurrent sweeps
// cannot double-charge the same overdue period.
func (d *DB) MarkPenalized(ctx context.Context, userID, habitID string, at time.Time) (bool, error) {
	result, err := d.db.ExecContext(ctx,
		`UPDATE habits
		 SET penalty_applied = 1, last_penalty_check = ?
		 WHERE id = ? AND user_id = ? AND penalty_applied = 0`,
		at.Unix(), habitID, userID,
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// DeactivateHabit soft-deletes a habit, keeping its history for audit.
func (d *DB) DeactivateHabit(ctx context.Context, userID, habitID string) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE habits SET is_active = 0 WHERE id = ? AND user_id = ?`,
		habitID, userID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

// DeleteHabit removes a habit record permanently.
func (d *DB) DeleteHabit(ctx context.Context, userID, habitID string) error {
	result, err := d.db.ExecContext(ctx,
		`DELETE FROM habits WHERE id = ? AND user_id = ?`,
		habitID, userID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

// ─── Scan Helpers ───────────────────────────────────────────────────────────

func scanHabit(s scanner) (domain.Habit, error) {
	var (
		h                          domain.Habit
		unit, days                 string
		createdAt                  int64
		lastCompleted, lastPenalty sql.NullInt64
	)

	err := s.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.Category,
		&h.Frequency.Value, &unit, &h.TimesPerCompletion,
		&h.XPReward, &h.CoinReward, &h.PenaltyXP,
		&h.Completions, &h.Streak, &lastCompleted,
		&h.PenaltyApplied, &lastPenalty,
		&h.IsActive, &days, &createdAt)
	if err == sql.ErrNoRows {
		return domain.Habit{}, domain.ErrHabitNotFound
	}
	if err != nil {
		return domain.Habit{}, err
	}

	h.Frequency.Unit = domain.FreqUnit(unit)
	h.ScheduleDays = decodeDays(days)
	h.CreatedAt = time.Unix(createdAt, 0)
	if lastCompleted.Valid {
		h.LastCompletedAt = time.Unix(lastCompleted.Int64, 0)
	}
	if lastPenalty.Valid {
		h.LastPenaltyCheck = time.Unix(lastPenalty.Int64, 0)
	}
	return h, nil
}

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
