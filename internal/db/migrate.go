package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate creates the log table and upgrades tables created by older
// releases, which lacked the id, work_date and audit columns. Every
// statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := backfillLog(db); err != nil {
		return fmt.Errorf("backfilling log rows: %w", err)
	}
	for i, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	return nil
}

// backfillLog gives legacy rows an id and a work_date. Legacy start values
// begin with a YYYY-MM-DD date, so the first ten characters are the key.
func backfillLog(db *sql.DB) error {
	stmts := []string{
		`UPDATE log SET id = lower(hex(randomblob(16))) WHERE id IS NULL OR id = ''`,
		`UPDATE log SET work_date = substr(start, 1, 10) WHERE work_date = ''`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS log (
		id         TEXT,
		year       INTEGER NOT NULL,
		month      TEXT NOT NULL,
		day        TEXT NOT NULL,
		weekday    INTEGER NOT NULL CHECK(weekday BETWEEN 1 AND 7),
		work_date  TEXT NOT NULL DEFAULT '',
		start      TEXT NOT NULL,
		finish     TEXT,
		hours      REAL,
		created_at TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT ''
	)`,

	`ALTER TABLE log ADD COLUMN id TEXT`,
	`ALTER TABLE log ADD COLUMN work_date TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE log ADD COLUMN created_at TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE log ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''`,
}

var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_log_id ON log(id)`,
	`CREATE INDEX IF NOT EXISTS idx_log_slot ON log(year, month, weekday)`,
	`CREATE INDEX IF NOT EXISTS idx_log_open ON log(work_date) WHERE finish IS NULL`,
}
