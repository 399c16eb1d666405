package habit

import (
	"context"
	"fmt"
	"time"

	"github.com/habitquest/habitquest/internal/domain"
	"github.com/habitquest/habitquest/internal/infra/metrics"
)

// SweepResult reports a penalty sweep: which habits were newly penalized,
// the aggregate XP charged, and the account after the charge.
type SweepResult struct {
	CheckedAt    time.Time      `json:"checked_at"`
	PenalizedIDs []string       `json:"penalized_ids,omitempty"`
	PenaltyXP    int            `json:"penalty_xp"`
	Account      domain.Account `json:"account"`
}

// Sweep walks the user's active habits and charges newly-overdue ones.
// The aggregate penalty is applied as a single XP debit for the whole
// sweep. Safe to re-run: the penalty flag flips with compare-and-set
// semantics, so a habit is charged at most once per overdue period, and a
// repeat sweep with no intervening completion is a no-op.
func (s *Service) Sweep(ctx context.Context, userID string, now time.Time) (*SweepResult, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	habits, err := s.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	result := &SweepResult{CheckedAt: now}
	for _, h := range habits {
		if !h.IsActive || h.PenaltyXP == 0 || h.LastCompletedAt.IsZero() || h.PenaltyApplied {
			continue
		}
		if !h.Overdue(now) {
			continue
		}

		flipped, err := s.habits.MarkPenalized(ctx, userID, h.ID, now)
		if err != nil {
			return nil, fmt.Errorf("mark penalized: %w", err)
		}
		if !flipped {
			continue // Another sweep got there first
		}

		result.PenalizedIDs = append(result.PenalizedIDs, h.ID)
		result.PenaltyXP += h.PenaltyXP
		metrics.PenaltiesApplied.Inc()
	}

	if result.PenaltyXP > 0 {
		account, _, err := s.progress.AddXP(ctx, userID, -result.PenaltyXP, domain.SourcePenalty)
		if err != nil {
			return nil, err
		}
		result.Account = account
		metrics.PenaltyXP.Add(float64(result.PenaltyXP))
		return result, nil
	}

	account, err := s.progress.Account(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	result.Account = account
	return result, nil
}
