package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS staff (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE COLLATE NOCASE,
			role        TEXT NOT NULL DEFAULT '',
			avatar_url  TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'inactive')),
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS appointments (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			staff_id         TEXT NOT NULL DEFAULT '',
			staff_name       TEXT NOT NULL,
			appt_date        DATE NOT NULL,
			start_time       TEXT NOT NULL,
			duration         TEXT NOT NULL,
			start_minutes    INTEGER NOT NULL,
			duration_minutes INTEGER NOT NULL,
			status           TEXT NOT NULL DEFAULT 'scheduled',
			customer_name    TEXT NOT NULL DEFAULT '',
			service_name     TEXT NOT NULL DEFAULT '',
			phone            TEXT NOT NULL DEFAULT '',
			notes            TEXT NOT NULL DEFAULT '',
			branch           TEXT NOT NULL DEFAULT '',
			created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(appt_date);
		CREATE INDEX IF NOT EXISTS idx_appointments_staff ON appointments(appt_date, staff_name);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
