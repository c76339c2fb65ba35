package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
)

// Store gives read access to a flight database without recording.
type Store struct {
	db *sql.DB
}

// OpenStore opens the database at path, creating it if needed.
func OpenStore(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Flights lists recorded flights, newest first.
func (s *Store) Flights(ctx context.Context) ([]Flight, error) {
	return listFlights(ctx, s.db)
}

// Samples returns the samples of a flight in arrival order.
func (s *Store) Samples(ctx context.Context, flightID string) ([]model.DerivedSample, error) {
	return listSamples(ctx, s.db, flightID)
}

// DeleteFlight removes a flight and its samples.
func (s *Store) DeleteFlight(ctx context.Context, flightID string) error {
	return deleteFlight(ctx, s.db, flightID)
}

func listFlights(ctx context.Context, db *sql.DB) ([]Flight, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT f.id, COALESCE(f.source, ''), f.started_at, f.ended_at,
		       COALESCE(f.reference_pressure, 0), COUNT(s.seq), COALESCE(MAX(s.altitude), 0)
		FROM flights f
		LEFT JOIN samples s ON s.flight_id = f.id
		GROUP BY f.id
		ORDER BY f.started_at DESC, f.id`)
	if err != nil {
		return nil, fmt.Errorf("query flights: %w", err)
	}
	defer rows.Close()

	var flights []Flight
	for rows.Next() {
		var f Flight
		var started int64
		var ended sql.NullInt64
		if err := rows.Scan(&f.ID, &f.Source, &started, &ended, &f.ReferencePressure, &f.Samples, &f.Apogee); err != nil {
			return nil, err
		}
		f.StartedAt = time.UnixMilli(started)
		if ended.Valid {
			f.EndedAt = time.UnixMilli(ended.Int64)
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func flightExists(ctx context.Context, db *sql.DB, flightID string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flights WHERE id = ?`, flightID).Scan(&n)
	return n > 0, err
}

func listSamples(ctx context.Context, db *sql.DB, flightID string) ([]model.DerivedSample, error) {
	ok, err := flightExists(ctx, db, flightID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFlightNotFound, flightID)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT time, pressure, temperature, altitude, accel_x, accel_y, accel_z,
		       gyro_x, gyro_y, gyro_z, vertical_speed
		FROM samples WHERE flight_id = ? ORDER BY seq`, flightID)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var samples []model.DerivedSample
	for rows.Next() {
		var s model.DerivedSample
		if err := rows.Scan(&s.Time, &s.Pressure, &s.Temperature, &s.Altitude,
			&s.Accel.X, &s.Accel.Y, &s.Accel.Z, &s.Gyro.X, &s.Gyro.Y, &s.Gyro.Z, &s.VerticalSpeed); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

func deleteFlight(ctx context.Context, db *sql.DB, flightID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM samples WHERE flight_id = ?`, flightID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, flightID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrFlightNotFound, flightID)
	}
	return tx.Commit()
}
