// Package habit implements the habit progression engine services: the
// reward ledger that executes completions and the penalty evaluator that
// sweeps for missed habits. Scheduling decisions themselves are pure
// domain functions; this package adds store access, serialization, and
// reward hand-off to the progression account.
package habit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/habitquest/habitquest/internal/app/progression"
	"github.com/habitquest/habitquest/internal/domain"
	"github.com/habitquest/habitquest/internal/infra/metrics"
)

// Service executes completions and penalty sweeps over a user's habits.
type Service struct {
	habits   domain.HabitStore
	progress *progression.Service

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a habit service.
func NewService(habits domain.HabitStore, progress *progression.Service) *Service {
	return &Service{habits: habits, progress: progress, locks: make(map[string]*sync.Mutex)}
}

// userLock returns the per-user mutex, creating it on first use. A user's
// completions and sweeps are serialized against each other so a double-tap
// cannot double-credit and a sweep cannot race a completion.
func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// Create validates and persists a new habit. Validation failures are
// rejected synchronously, before any state mutation.
func (s *Service) Create(ctx context.Context, h domain.Habit) (domain.Habit, error) {
	if h.TimesPerCompletion == 0 {
		h.TimesPerCompletion = 1
	}
	h.IsActive = true
	h.Completions = 0
	h.Streak = 0
	h.PenaltyApplied = false

	if err := h.Validate(); err != nil {
		return domain.Habit{}, err
	}

	stored, err := s.habits.CreateHabit(ctx, h)
	if err != nil {
		return domain.Habit{}, fmt.Errorf("create habit: %w", err)
	}
	return stored, nil
}

// Get returns a single habit.
func (s *Service) Get(ctx context.Context, userID, habitID string) (domain.Habit, error) {
	return s.habits.GetHabit(ctx, userID, habitID)
}

// Status is a habit plus its computed scheduling state, for display.
type Status struct {
	domain.Habit
	CanComplete  bool      `json:"can_complete"`
	Overdue      bool      `json:"overdue"`
	ScheduledNow bool      `json:"scheduled_now"`
	NextDue      time.Time `json:"next_due,omitzero"`
}

// List returns all of a user's habits with scheduling state computed
// against now.
func (s *Service) List(ctx context.Context, userID string, now time.Time) ([]Status, error) {
	habits, err := s.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	statuses := make([]Status, 0, len(habits))
	for _, h := range habits {
		statuses = append(statuses, Status{
			Habit:        h,
			CanComplete:  h.CanComplete(now),
			Overdue:      h.Overdue(now),
			ScheduledNow: h.ScheduledOn(now),
			NextDue:      h.NextDue(),
		})
	}
	return statuses, nil
}

// Deactivate soft-deletes a habit, retaining its history.
func (s *Service) Deactivate(ctx context.Context, userID, habitID string) error {
	return s.habits.DeactivateHabit(ctx, userID, habitID)
}

// Delete removes a habit permanently.
func (s *Service) Delete(ctx context.Context, userID, habitID string) error {
	return s.habits.DeleteHabit(ctx, userID, habitID)
}

// CompleteResult is the outcome of a successful completion: the updated
// habit, the credited account, and anything that unlocked along the way.
type CompleteResult struct {
	Habit        domain.Habit   `json:"habit"`
	Account      domain.Account `json:"account"`
	LevelsGained int            `json:"levels_gained"`
	Unlocked     []string       `json:"unlocked,omitempty"`
}

// Complete executes a completion attempt against the guard. An attempt
// outside the cooldown window (or on an inactive habit) returns
// ErrNotEligible with no state mutated — a rejected command, not a fault.
func (s *Service) Complete(ctx context.Context, userID, habitID string, now time.Time) (*CompleteResult, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	h, err := s.habits.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if !h.CanComplete(now) {
		metrics.CompletionsRejected.Inc()
		return nil, domain.ErrNotEligible
	}

	before, err := s.progress.Account(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	if err := s.habits.MarkCompleted(ctx, userID, habitID, now); err != nil {
		return nil, fmt.Errorf("mark completed: %w", err)
	}
	h, err = s.habits.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, fmt.Errorf("reload habit: %w", err)
	}
	metrics.Completions.Inc()

	if h.XPReward > 0 {
		if _, _, err := s.progress.AddXP(ctx, userID, h.XPReward, domain.SourceCompletion); err != nil {
			return nil, err
		}
	}
	if h.CoinReward > 0 {
		if _, err := s.progress.AddCoins(ctx, userID, h.CoinReward, domain.SourceCompletion); err != nil {
			return nil, err
		}
	}

	unlocked, err := s.evaluateAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	account, err := s.progress.Account(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	return &CompleteResult{
		Habit:        h,
		Account:      account,
		LevelsGained: account.Level - before.Level,
		Unlocked:     unlocked,
	}, nil
}
