// Package progression implements the per-user XP/level/coins account
// service: reward crediting, penalty debiting, coin spending, and the
// reward shop. The level-up math lives in domain.Account; this service adds
// per-user serialization and the audit trail around it.
package progression

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/habitquest/habitquest/internal/domain"
	"github.com/habitquest/habitquest/internal/infra/metrics"
)

// Service manages progression accounts through a ProgressionStore.
type Service struct {
	store domain.ProgressionStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a progression service.
func NewService(store domain.ProgressionStore) *Service {
	return &Service{store: store, locks: make(map[string]*sync.Mutex)}
}

// userLock returns the per-user mutex, creating it on first use.
// Account mutation is read-then-branch-then-write in places (the spend
// balance check, the level comparison), so concurrent calls for the same
// user must be serialized.
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

// Account returns the user's account, provisioning it on first access.
func (s *Service) Account(ctx context.Context, userID string) (domain.Account, error) {
	return s.store.Account(ctx, userID)
}

// AddXP credits (or debits, for negative amounts) experience and returns
// the new account plus the number of levels gained.
func (s *Service) AddXP(ctx context.Context, userID string, amount int, source string) (domain.Account, int, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	before, err := s.store.Account(ctx, userID)
	if err != nil {
		return domain.Account{}, 0, fmt.Errorf("load account: %w", err)
	}

	after, err := s.store.ApplyXPDelta(ctx, userID, amount, source)
	if err != nil {
		return domain.Account{}, 0, fmt.Errorf("apply xp delta: %w", err)
	}

	if amount > 0 {
		metrics.XPGranted.WithLabelValues(source).Add(float64(amount))
	}
	gained := after.Level - before.Level
	if gained > 0 {
		metrics.LevelUps.Add(float64(gained))
	}
	return after, gained, nil
}

// AddCoins credits coins unconditionally.
func (s *Service) AddCoins(ctx context.Context, userID string, amount int, source string) (domain.Account, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	a, err := s.store.ApplyCoinDelta(ctx, userID, amount, source)
	if err != nil {
		return domain.Account{}, fmt.Errorf("apply coin delta: %w", err)
	}
	return a, nil
}

// SpendCoins debits coins if the balance covers the amount. A short
// balance is an expected outcome, reported as ok=false with the account
// unchanged — never an error.
func (s *Service) SpendCoins(ctx context.Context, userID string, amount int, source string) (domain.Account, bool, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	a, err := s.store.Account(ctx, userID)
	if err != nil {
		return domain.Account{}, false, fmt.Errorf("load account: %w", err)
	}
	if amount > a.Coins {
		return a, false, nil
	}

	a, err = s.store.ApplyCoinDelta(ctx, userID, -amount, source)
	if err != nil {
		return domain.Account{}, false, fmt.Errorf("apply coin delta: %w", err)
	}
	metrics.CoinsSpent.Add(float64(amount))
	return a, true, nil
}

// PurchaseReward buys a shop reward with coins. Each reward can be owned
// once; duplicates are rejected with ErrAlreadyPurchased and an uncovered
// cost with ErrInsufficientFunds, both before any mutation.
func (s *Service) PurchaseReward(ctx context.Context, userID, rewardID string, cost int) (domain.Account, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	a, err := s.store.Account(ctx, userID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("load account: %w", err)
	}
	if cost > a.Coins {
		return a, domain.ErrInsufficientFunds
	}

	added, err := s.store.AddPurchase(ctx, userID, rewardID, cost, time.Now())
	if err != nil {
		return domain.Account{}, fmt.Errorf("record purchase: %w", err)
	}
	if !added {
		return a, domain.ErrAlreadyPurchased
	}

	a, err = s.store.ApplyCoinDelta(ctx, userID, -cost, domain.SourcePurchase)
	if err != nil {
		return domain.Account{}, fmt.Errorf("apply coin delta: %w", err)
	}
	metrics.CoinsSpent.Add(float64(cost))
	return a, nil
}

// Unlock records an achievement as earned. Idempotent; reports whether
// this call newly unlocked it.
func (s *Service) Unlock(ctx context.Context, userID, achievementID string, at time.Time) (bool, error) {
	return s.store.UnlockAchievement(ctx, userID, achievementID, at)
}

// Achievements returns the user's unlocked achievements, newest first.
func (s *Service) Achievements(ctx context.Context, userID string) ([]domain.UnlockedAchievement, error) {
	return s.store.Achievements(ctx, userID)
}

// History returns the most recent ledger entries, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	return s.store.History(ctx, userID, limit)
}

// Purchases returns the user's owned rewards.
func (s *Service) Purchases(ctx context.Context, userID string) ([]domain.Purchase, error) {
	return s.store.Purchases(ctx, userID)
}
