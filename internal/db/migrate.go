package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS goals (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		target_date TEXT,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','completed','abandoned')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_goals_status ON goals(status)`,

	`CREATE TABLE IF NOT EXISTS roadmaps (
		id          TEXT PRIMARY KEY,
		goal_id     TEXT NOT NULL UNIQUE REFERENCES goals(id) ON DELETE CASCADE,
		text        TEXT NOT NULL DEFAULT '',
		phases_json TEXT NOT NULL DEFAULT '[]',
		approved    INTEGER NOT NULL DEFAULT 0,
		approved_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id             TEXT PRIMARY KEY,
		goal_id        TEXT REFERENCES goals(id) ON DELETE CASCADE,
		roadmap_id     TEXT REFERENCES roadmaps(id) ON DELETE SET NULL,
		phase_index    INTEGER,
		title          TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		category       TEXT NOT NULL DEFAULT 'daily'
		               CHECK(category IN ('daily','weekly','milestone')),
		status         INTEGER NOT NULL DEFAULT 0 CHECK(status IN (-1, 0, 1)),
		priority       INTEGER NOT NULL DEFAULT 0 CHECK(priority BETWEEN 0 AND 5),
		source         TEXT NOT NULL DEFAULT 'manual' CHECK(source IN ('manual','schedule')),
		scheduled_date TEXT,
		completed_at   TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_goal ON tasks(goal_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_scheduled ON tasks(scheduled_date)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,

	`CREATE TABLE IF NOT EXISTS audit_logs (
		id         TEXT PRIMARY KEY,
		task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		action     TEXT NOT NULL,
		field_name TEXT NOT NULL DEFAULT '',
		old_value  TEXT NOT NULL DEFAULT '',
		new_value  TEXT NOT NULL DEFAULT '',
		reason     TEXT NOT NULL DEFAULT '',
		timestamp  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_task ON audit_logs(task_id)`,

	`CREATE TABLE IF NOT EXISTS recalibration_logs (
		id                   TEXT PRIMARY KEY,
		goal_id              TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
		reason               TEXT NOT NULL DEFAULT '',
		severity             TEXT NOT NULL DEFAULT 'medium'
		                     CHECK(severity IN ('low','medium','high')),
		recommendations_json TEXT NOT NULL DEFAULT '[]',
		tasks_affected_json  TEXT NOT NULL DEFAULT '[]',
		adjustment_days      INTEGER NOT NULL DEFAULT 0,
		used_fallback        INTEGER NOT NULL DEFAULT 0,
		created_at           TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_recalibration_goal ON recalibration_logs(goal_id)`,

	// Motivation message from the missed-task analysis.
	`ALTER TABLE recalibration_logs ADD COLUMN motivation TEXT NOT NULL DEFAULT ''`,
}
