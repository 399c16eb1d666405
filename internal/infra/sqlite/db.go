// Package sqlite provides SQLite-based persistent storage for HabitQuest.
// Uses WAL mode for concurrent reads and crash-safe writes. The single
// connection doubles as the account write serializer: delta application is
// a read-modify-write inside one transaction.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DefaultStartingCoins is the welcome balance granted to new accounts.
const DefaultStartingCoins = 500

// DB wraps a SQLite connection with WAL mode and migrations.
// It implements domain.HabitStore and domain.ProgressionStore.
type DB struct {
	db            *sql.DB
	startingCoins int
}

// Open creates or opens the SQLite database at dir/habitquest.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "habitquest.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db, startingCoins: DefaultStartingCoins}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// SetStartingCoins overrides the welcome balance for newly provisioned
// accounts. Must be called before the first Account access.
func (d *DB) SetStartingCoins(coins int) { d.startingCoins = coins }

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Habit records. Frequency is stored normalized (value + unit),
		// never as the free-form string the user typed.
		`CREATE TABLE IF NOT EXISTS habits (
			id                   TEXT PRIMARY KEY,
			user_id              TEXT NOT NULL,
			name                 TEXT NOT NULL,
			description          TEXT NOT NULL DEFAULT '',
			category             TEXT NOT NULL DEFAULT '',
			freq_value           INTEGER NOT NULL,
			freq_unit            TEXT NOT NULL,
			times_per_completion INTEGER NOT NULL DEFAULT 1,
			xp_reward            INTEGER NOT NULL DEFAULT 0,
			coin_reward          INTEGER NOT NULL DEFAULT 0,
			penalty_xp           INTEGER NOT NULL DEFAULT 0,
			completions          INTEGER NOT NULL DEFAULT 0,
			streak               INTEGER NOT NULL DEFAULT 0,
			last_completed_at    INTEGER,
			penalty_applied      BOOLEAN NOT NULL DEFAULT 0,
			last_penalty_check   INTEGER,
			is_active            BOOLEAN NOT NULL DEFAULT 1,
			schedule_days        TEXT NOT NULL DEFAULT '',
			created_at           INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_habits_user_active ON habits(user_id, is_active)`,

		// Progression accounts (one per user)
		`CREATE TABLE IF NOT EXISTS accounts (
			user_id      TEXT PRIMARY KEY,
			level        INTEGER NOT NULL,
			xp           INTEGER NOT NULL,
			xp_to_next   INTEGER NOT NULL,
			coins        INTEGER NOT NULL,
			streak_count INTEGER NOT NULL DEFAULT 0,
			created_at   INTEGER NOT NULL
		)`,

		// XP/coin audit trail
		`CREATE TABLE IF NOT EXISTS ledger (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id   TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			kind      TEXT NOT NULL,
			source    TEXT NOT NULL,
			delta     INTEGER NOT NULL,
			balance   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_user_ts ON ledger(user_id, timestamp)`,

		// Unlocked achievements
		`CREATE TABLE IF NOT EXISTS achievements (
			user_id     TEXT NOT NULL,
			id          TEXT NOT NULL,
			unlocked_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, id)
		)`,

		// Reward shop purchases
		`CREATE TABLE IF NOT EXISTS purchases (
			user_id      TEXT NOT NULL,
			reward_id    TEXT NOT NULL,
			cost         INTEGER NOT NULL,
			purchased_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, reward_id)
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// encodeDays renders a weekday set as a CSV string for storage.
func encodeDays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, day := range days {
		parts[i] = strconv.Itoa(day)
	}
	return strings.Join(parts, ",")
}

// decodeDays parses the CSV weekday set. Unparsable fragments are skipped;
// the column is only ever written by encodeDays.
func decodeDays(s string) []int {
	if s == "" {
		return nil
	}
	var days []int
	for _, part := range strings.Split(s, ",") {
		if day, err := strconv.Atoi(part); err == nil {
			days = append(days, day)
		}
	}
	return days
}
