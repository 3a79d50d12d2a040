package sqlite

import "fmt"

type migration struct {
	version int
	sql     string
}

// migrations mirror internal/migrations in SQLite dialect. Dates are stored
// as YYYY-MM-DD text so comparisons stay lexical.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	user_id       INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	total_exp     INTEGER NOT NULL DEFAULT 0 CHECK (total_exp >= 0),
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS predefined_tasks (
	predefined_task_id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_name          TEXT NOT NULL UNIQUE,
	default_exp_value  INTEGER NOT NULL DEFAULT 0 CHECK (default_exp_value >= 0),
	category           TEXT NOT NULL,
	is_default         INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS tasks (
	task_id            INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id            INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	task_name          TEXT NOT NULL,
	task_description   TEXT NOT NULL DEFAULT '',
	exp_value          INTEGER NOT NULL DEFAULT 0 CHECK (exp_value >= 0),
	due_date           TEXT NOT NULL,
	is_completed       INTEGER NOT NULL DEFAULT 0,
	predefined_task_id INTEGER REFERENCES predefined_tasks(predefined_task_id),
	created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_user_due ON tasks(user_id, due_date);

CREATE TABLE IF NOT EXISTS user_default_tasks (
	user_id  INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	task_id  INTEGER NOT NULL REFERENCES tasks(task_id),
	is_daily INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (user_id, task_id)
);

CREATE TABLE IF NOT EXISTS daily_records (
	user_id    INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	date       TEXT NOT NULL,
	exp_gained INTEGER NOT NULL DEFAULT 0,
	exp_lost   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, date)
);

CREATE TABLE IF NOT EXISTS user_settings (
	user_id              INTEGER PRIMARY KEY REFERENCES users(user_id) ON DELETE CASCADE,
	theme                TEXT NOT NULL DEFAULT 'light',
	notification_enabled INTEGER NOT NULL DEFAULT 1,
	updated_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS task_requests (
	request_id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id             INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	task_name           TEXT NOT NULL,
	suggested_exp_value INTEGER NOT NULL DEFAULT 0,
	status              TEXT NOT NULL DEFAULT 'pending',
	created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS job_runs (
	job        TEXT NOT NULL,
	user_id    INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	run_date   TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (job, user_id, run_date)
);
`,
	},
}

// runMigrations applies every migration newer than the recorded version.
func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'")
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount > 0 {
		if err := s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		tx, err := s.db.Beginx()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", m.version, err)
		}
	}
	return nil
}
