package habit

import (
	"context"
	"fmt"
	"time"

	"github.com/habitquest/habitquest/internal/domain"
	"github.com/habitquest/habitquest/internal/infra/metrics"
)

// Definitions is the achievement catalog. Predicates run against a
// progress snapshot after every successful completion; unlocks are
// recorded idempotently, so re-evaluation is cheap and safe.
func Definitions() []domain.AchievementDef {
	return []domain.AchievementDef{
		{
			ID: "first_step", Name: "First Step",
			Description: "Complete a habit for the first time.",
			RewardXP:    25,
			Predicate:   func(s domain.ProgressStats) bool { return s.TotalCompletions >= 1 },
		},
		{
			ID: "ten_strong", Name: "Ten Strong",
			Description: "Complete habits 10 times.",
			RewardXP:    50,
			Predicate:   func(s domain.ProgressStats) bool { return s.TotalCompletions >= 10 },
		},
		{
			ID: "centurion", Name: "Centurion",
			Description: "Complete habits 100 times.",
			RewardXP:    250,
			Predicate:   func(s domain.ProgressStats) bool { return s.TotalCompletions >= 100 },
		},
		{
			ID: "week_streak", Name: "Kept the Flame",
			Description: "Reach a 7-completion streak on one habit.",
			RewardXP:    100,
			Predicate:   func(s domain.ProgressStats) bool { return s.BestStreak >= 7 },
		},
		{
			ID: "month_streak", Name: "Unbroken",
			Description: "Reach a 30-completion streak on one habit.",
			RewardXP:    300,
			Predicate:   func(s domain.ProgressStats) bool { return s.BestStreak >= 30 },
		},
		{
			ID: "level_5", Name: "Adventurer",
			Description: "Reach level 5.",
			Predicate:   func(s domain.ProgressStats) bool { return s.Level >= 5 },
		},
		{
			ID: "level_10", Name: "Veteran",
			Description: "Reach level 10.",
			Predicate:   func(s domain.ProgressStats) bool { return s.Level >= 10 },
		},
		{
			ID: "full_roster", Name: "Full Roster",
			Description: "Keep 5 habits active at once.",
			RewardXP:    50,
			Predicate:   func(s domain.ProgressStats) bool { return s.ActiveHabits >= 5 },
		},
	}
}

// buildStats assembles the snapshot fed to achievement predicates.
func buildStats(habits []domain.Habit, account domain.Account) domain.ProgressStats {
	stats := domain.ProgressStats{
		Level: account.Level,
		Coins: account.Coins,
	}
	for _, h := range habits {
		stats.TotalCompletions += h.Completions
		if h.Streak > stats.BestStreak {
			stats.BestStreak = h.Streak
		}
		if h.IsActive {
			stats.ActiveHabits++
		}
	}
	return stats
}

// evaluateAchievements checks the catalog against the user's current
// progress and unlocks anything newly earned, crediting unlock XP.
// Returns the IDs unlocked by this pass.
func (s *Service) evaluateAchievements(ctx context.Context, userID string) ([]string, error) {
	habits, err := s.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	account, err := s.progress.Account(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	stats := buildStats(habits, account)
	now := time.Now()

	var unlocked []string
	for _, def := range Definitions() {
		if !def.Predicate(stats) {
			continue
		}
		newly, err := s.unlock(ctx, userID, def.ID, now)
		if err != nil {
			return nil, err
		}
		if !newly {
			continue
		}
		unlocked = append(unlocked, def.ID)
		metrics.AchievementsUnlocked.Inc()

		if def.RewardXP > 0 {
			if _, _, err := s.progress.AddXP(ctx, userID, def.RewardXP, domain.SourceAchievement); err != nil {
				return nil, err
			}
		}
	}
	return unlocked, nil
}

// unlock records one achievement through the progression store.
func (s *Service) unlock(ctx context.Context, userID, achievementID string, at time.Time) (bool, error) {
	newly, err := s.progress.Unlock(ctx, userID, achievementID, at)
	if err != nil {
		return false, fmt.Errorf("unlock achievement: %w", err)
	}
	return newly, nil
}
