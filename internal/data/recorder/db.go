package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Register driver
)

// openDB opens the database at path and runs migrations.
func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// A single connection serialises writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=30000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS flights (
			id TEXT PRIMARY KEY,
			source TEXT,
			started_at INTEGER NOT NULL,
			ended_at INTEGER,
			reference_pressure REAL
		);`,
		`CREATE TABLE IF NOT EXISTS samples (
			flight_id TEXT NOT NULL REFERENCES flights(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			time REAL,
			pressure REAL,
			temperature REAL,
			altitude REAL,
			accel_x REAL,
			accel_y REAL,
			accel_z REAL,
			gyro_x REAL,
			gyro_y REAL,
			gyro_z REAL,
			vertical_speed REAL,
			PRIMARY KEY (flight_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_flights_started ON flights(started_at);`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("failed query %q: %w", q, err)
		}
	}
	return nil
}
