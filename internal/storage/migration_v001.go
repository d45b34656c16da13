package storage

import "database/sql"

// migrateV001 creates the initial devicepulse schema. Every statement uses
// IF NOT EXISTS for idempotency. summary_rows mirrors the summary table's
// headline columns; every metric column is nullable, and SQL NULL is the
// absence marker. A missing source category must never persist as zero.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session      TEXT PRIMARY KEY,
			captured_at  DATETIME,
			files_parsed INTEGER NOT NULL DEFAULT 0,
			categories   TEXT NOT NULL DEFAULT '',
			detail       TEXT NOT NULL DEFAULT '{}',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS summary_rows (
			session              TEXT PRIMARY KEY REFERENCES sessions(session) ON DELETE CASCADE,
			battery_level        REAL,
			battery_voltage      REAL,
			battery_temp         REAL,
			charging_status      INTEGER,
			ac_powered           BOOLEAN,
			usb_powered          BOOLEAN,
			phone_temp           REAL,
			model                TEXT,
			brand                TEXT,
			android_version      TEXT,
			cpu_temp             REAL,
			gpu_temp             REAL,
			battery_temp_thermal REAL,
			skin_temp            REAL,
			total_processes      INTEGER,
			total_ram_gb         REAL,
			used_ram_mb          REAL,
			ram_usage_percent    REAL,
			total_screen_ms      INTEGER,
			total_cpu_ms         INTEGER,
			total_wake_lock_ms   INTEGER
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_captured_at ON sessions(captured_at)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
