package storage

import "fmt"

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS aircraft (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			registration TEXT NOT NULL,
			base_hours   TEXT NOT NULL,
			updated_at   TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS flights (
			seq               INTEGER PRIMARY KEY AUTOINCREMENT,
			id                TEXT NOT NULL UNIQUE,
			date              TEXT NOT NULL,
			pilot_name        TEXT NOT NULL,
			start_time        TEXT NOT NULL,
			end_time          TEXT NOT NULL,
			comments          TEXT NOT NULL DEFAULT '',
			calendar_event_id TEXT NOT NULL DEFAULT '',
			created_at        TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_flights_date ON flights(date);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating logbook tables: %w", err)
	}

	return nil
}
