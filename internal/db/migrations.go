package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS plans (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL DEFAULT '',
			title            TEXT NOT NULL,
			description      TEXT NOT NULL DEFAULT '',
			category         TEXT NOT NULL CHECK(category IN ('study', 'work', 'personal', 'other')),
			duration_minutes INTEGER NOT NULL CHECK(duration_minutes BETWEEN 5 AND 180),
			status           TEXT NOT NULL DEFAULT 'pending'
			                 CHECK(status IN ('pending', 'in_progress', 'completed', 'cancelled')),
			scheduled_date   TEXT NOT NULL,
			scheduled_time   TEXT,
			related_mood_id  TEXT,
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_plans_scheduled ON plans(scheduled_date);
		CREATE INDEX IF NOT EXISTS idx_plans_status ON plans(status);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating plans table: %w", err)
	}

	return nil
}
