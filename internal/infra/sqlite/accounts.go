package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/habitquest/habitquest/internal/domain"
)

// ─── Progression Accounts ───────────────────────────────────────────────────
// Delta application is a read-modify-write inside one transaction: the
// level-up loop is not additive, so the account row is never updated from
// stale state. The single-connection pool serializes writers.

// Account returns the user's account, provisioning a fresh level-1 account
// with the starting coin grant on first access.
func (d *DB) Account(ctx context.Context, userID string) (domain.Account, error) {
	a, err := d.getAccount(ctx, d.db, userID)
	if err == nil || err != domain.ErrAccountNotFound {
		return a, err
	}
	return d.provisionAccount(ctx, userID)
}

// ApplyXPDelta adds XP (negative for penalties), normalizes level-ups, and
// appends a ledger entry, all in one transaction.
func (d *DB) ApplyXPDelta(ctx context.Context, userID string, delta int, source string) (domain.Account, error) {
	return d.applyDelta(ctx, userID, delta, source, domain.LedgerXP)
}

// ApplyCoinDelta adds coins and appends a ledger entry. Balance checks are
// the caller's job; the store applies the delta blindly.
func (d *DB) ApplyCoinDelta(ctx context.Context, userID string, delta int, source string) (domain.Account, error) {
	return d.applyDelta(ctx, userID, delta, source, domain.LedgerCoins)
}

func (d *DB) applyDelta(ctx context.Context, userID string, delta int, source string, kind domain.LedgerKind) (domain.Account, error) {
	if _, err := d.Account(ctx, userID); err != nil {
		return domain.Account{}, err
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, err
	}
	defer tx.Rollback()

	a, err := d.getAccount(ctx, tx, userID)
	if err != nil {
		return domain.Account{}, err
	}

	var balance int
	switch kind {
	case domain.LedgerCoins:
		a.AddCoins(delta)
		balance = a.Coins
	default:
		a.AddXP(delta)
		balance = a.XP
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE accounts SET level = ?, xp = ?, xp_to_next = ?, coins = ? WHERE user_id = ?`,
		a.Level, a.XP, a.XPToNext, a.Coins, userID,
	)
	if err != nil {
		return domain.Account{}, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger (user_id, timestamp, kind, source, delta, balance)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, time.Now().Unix(), string(kind), source, delta, balance,
	)
	if err != nil {
		return domain.Account{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Account{}, err
	}
	return a, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (d *DB) getAccount(ctx context.Context, q querier, userID string) (domain.Account, error) {
	var (
		a         domain.Account
		createdAt int64
	)
	err := q.QueryRowContext(ctx,
		`SELECT user_id, level, xp, xp_to_next, coins, streak_count, created_at
		 FROM accounts WHERE user_id = ?`, userID,
	).Scan(&a.UserID, &a.Level, &a.XP, &a.XPToNext, &a.Coins, &a.StreakCount, &createdAt)
	if err == sql.ErrNoRows {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	a.CreatedAt = time.Unix(createdAt, 0)
	return a, nil
}

func (d *DB) provisionAccount(ctx context.Context, userID string) (domain.Account, error) {
	a := domain.NewAccount(userID, d.startingCoins)
	a.CreatedAt = time.Now()

	// INSERT OR IGNORE keeps concurrent first accesses idempotent.
	_, err := d.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO accounts (user_id, level, xp, xp_to_next, coins, streak_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Level, a.XP, a.XPToNext, a.Coins, a.StreakCount, a.CreatedAt.Unix(),
	)
	if err != nil {
		return domain.Account{}, err
	}
	return d.getAccount(ctx, d.db, userID)
}

// ─── Ledger ─────────────────────────────────────────────────────────────────

// History returns the most recent ledger entries, newest first.
func (d *DB) History(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, user_id, timestamp, kind, source, delta, balance
		 FROM ledger WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var (
			e    domain.LedgerEntry
			ts   int64
			kind string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &ts, &kind, &e.Source, &e.Delta, &e.Balance); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(ts, 0)
		e.Kind = domain.LedgerKind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ─── Achievements ───────────────────────────────────────────────────────────

// UnlockAchievement records an achievement as unlocked.
// Returns false if already unlocked (idempotent).
func (d *DB) UnlockAchievement(ctx context.Context, userID, achievementID string, at time.Time) (bool, error) {
	result, err := d.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO achievements (user_id, id, unlocked_at) VALUES (?, ?, ?)`,
		userID, achievementID, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly unlocked
}

// Achievements returns all unlocked achievements, newest first.
func (d *DB) Achievements(ctx context.Context, userID string) ([]domain.UnlockedAchievement, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, unlocked_at FROM achievements WHERE user_id = ? ORDER BY unlocked_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocked []domain.UnlockedAchievement
	for rows.Next() {
		var (
			u  domain.UnlockedAchievement
			ts int64
		)
		if err := rows.Scan(&u.ID, &ts); err != nil {
			return nil, err
		}
		u.UnlockedAt = time.Unix(ts, 0)
		unlocked = append(unlocked, u)
	}
	return unlocked, rows.Err()
}

// ─── Reward Shop ────────────────────────────────────────────────────────────

// AddPurchase records a reward purchase. Returns false if the reward was
// already purchased.
func (d *DB) AddPurchase(ctx context.Context, userID, rewardID string, cost int, at time.Time) (bool, error) {
	result, err := d.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO purchases (user_id, reward_id, cost, purchased_at) VALUES (?, ?, ?, ?)`,
		userID, rewardID, cost, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// Purchases returns all purchased rewards, newest first.
func (d *DB) Purchases(ctx context.Context, userID string) ([]domain.Purchase, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT reward_id, cost, purchased_at FROM purchases WHERE user_id = ? ORDER BY purchased_at DESC, reward_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		var (
			p  domain.Purchase
			ts int64
		)
		if err := rows.Scan(&p.RewardID, &p.Cost, &ts); err != nil {
			return nil, err
		}
		p.PurchasedAt = time.Unix(ts, 0)
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// LedgerBalanceConsistent verifies that the last ledger entry for each
// kind matches the account's stored balance. Used by the health checker.
func (d *DB) LedgerBalanceConsistent(ctx context.Context, userID string) (bool, error) {
	a, err := d.getAccount(ctx, d.db, userID)
	if err == domain.ErrAccountNotFound {
		return true, nil // Nothing to be inconsistent with
	}
	if err != nil {
		return false, err
	}

	for kind, want := range map[string]int{"xp": a.XP, "coins": a.Coins} {
		var balance int
		err := d.db.QueryRowContext(ctx,
			`SELECT balance FROM ledger WHERE user_id = ? AND kind = ? ORDER BY id DESC LIMIT 1`,
			userID, kind,
		).Scan(&balance)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return false, err
		}
		if balance != want {
			return false, nil
		}
	}
	return true, nil
}

// AccountUserIDs returns every user with a provisioned account.
func (d *DB) AccountUserIDs(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT user_id FROM accounts ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
