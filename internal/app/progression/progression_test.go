package progression_test

import (
	"context"
	"errors"
	"testing"

	"github.com/habitquest/habitquest/internal/app/progression"
	"github.com/habitquest/habitquest/internal/domain"
	"github.com/habitquest/habitquest/internal/infra/sqlite"
)

func testService(t *testing.T) *progression.Service {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return progression.NewService(db)
}

func TestAddXP_LevelsGained(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	account, gained, err := svc.AddXP(ctx, "u1", 1200, domain.SourceCompletion)
	if err != nil {
		t.Fatalf("add xp: %v", err)
	}
	// 1200: level 1->2 costs 500, level 2->3 costs 1000 (200 short)
	if account.Level != 2 || account.XP != 700 || gained != 1 {
		t.Errorf("account = %+v gained = %d, want level=2 xp=700 gained=1", account, gained)
	}
}

func TestAddXP_NegativeNeverDelevels(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if _, _, err := svc.AddXP(ctx, "u1", 100, domain.SourceCompletion); err != nil {
		t.Fatalf("add xp: %v", err)
	}
	account, gained, err := svc.AddXP(ctx, "u1", -250, domain.SourcePenalty)
	if err != nil {
		t.Fatalf("debit xp: %v", err)
	}
	if account.Level != 1 || account.XP != -150 || gained != 0 {
		t.Errorf("account = %+v, want level=1 xp=-150", account)
	}
}

func TestSpendCoins(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	account, ok, err := svc.SpendCoins(ctx, "u1", sqlite.DefaultStartingCoins, "coin_spend")
	if err != nil {
		t.Fatalf("spend: %v", err)
	}
	if !ok || account.Coins != 0 {
		t.Errorf("exact-balance spend: ok=%v coins=%d, want ok=true coins=0", ok, account.Coins)
	}

	account, ok, err = svc.SpendCoins(ctx, "u1", 1, "coin_spend")
	if err != nil {
		t.Fatalf("spend: %v", err)
	}
	if ok || account.Coins != 0 {
		t.Errorf("overdraft spend: ok=%v coins=%d, want rejected with coins=0", ok, account.Coins)
	}
}

func TestPurchaseReward(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	account, err := svc.PurchaseReward(ctx, "u1", "movie_night", 200)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if account.Coins != sqlite.DefaultStartingCoins-200 {
		t.Errorf("coins = %d, want %d", account.Coins, sqlite.DefaultStartingCoins-200)
	}

	// Same reward twice is rejected before any coins move
	if _, err := svc.PurchaseReward(ctx, "u1", "movie_night", 200); !errors.Is(err, domain.ErrAlreadyPurchased) {
		t.Errorf("err = %v, want ErrAlreadyPurchased", err)
	}
	account, err = svc.Account(ctx, "u1")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if account.Coins != sqlite.DefaultStartingCoins-200 {
		t.Errorf("coins after rejected purchase = %d, want unchanged", account.Coins)
	}

	if _, err := svc.PurchaseReward(ctx, "u1", "yacht", 10_000); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Errorf("err = %v, want ErrInsufficientFunds", err)
	}

	purchases, err := svc.Purchases(ctx, "u1")
	if err != nil {
		t.Fatalf("purchases: %v", err)
	}
	if len(purchases) != 1 || purchases[0].RewardID != "movie_night" {
		t.Errorf("purchases = %+v, want one movie_night entry", purchases)
	}
}

func TestHistory_RecordsSources(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	svc.AddXP(ctx, "u1", 50, domain.SourceCompletion)
	svc.AddCoins(ctx, "u1", 10, domain.SourceCompletion)
	svc.AddXP(ctx, "u1", -20, domain.SourcePenalty)

	entries, err := svc.History(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	// Newest first
	if entries[0].Source != domain.SourcePenalty || entries[0].Delta != -20 {
		t.Errorf("latest entry = %+v, want penalty -20", entries[0])
	}
}
