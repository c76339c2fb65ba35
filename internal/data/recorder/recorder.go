// Package recorder persists tracked telemetry sessions to SQLite.
package recorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-flight-monitor/internal/core/constants"
	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/core/session"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// ErrFlightNotFound is returned for unknown flight ids.
var ErrFlightNotFound = errors.New("recorder: flight not found")

// Config configures a Recorder.
type Config struct {
	Path          string
	Source        string // stored with every flight, e.g. the port name
	BatchSize     int
	FlushInterval time.Duration
}

// Validate fills defaults.
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.BatchSize <= 0 {
		c.BatchSize = constants.RecorderBatchSize
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = constants.RecorderFlushInterval
	}
	return nil
}

// Flight is one tracked interval, from Start to Stop or Clear.
type Flight struct {
	ID                string
	Source            string
	StartedAt         time.Time
	EndedAt           time.Time // zero while the flight is open
	ReferencePressure float64
	Samples           int
	Apogee            float64
}

// Open reports whether the flight has not been ended.
func (f Flight) Open() bool { return f.EndedAt.IsZero() }

type eventKind int

const (
	eventStart eventKind = iota
	eventSample
	eventStop
	eventSync
)

type event struct {
	kind      eventKind
	at        time.Time
	sample    model.DerivedSample
	reference float64
	done      chan error
}

// Recorder writes every accepted sample of a tracked session to the
// database. It implements session.Observer; notifications are queued and
// written by a background goroutine in batched transactions.
type Recorder struct {
	cfg    Config
	db     *sql.DB
	events chan event
	wg     sync.WaitGroup

	closeOnce sync.Once
	closed    chan struct{}

	// owned by the writer goroutine
	flightID  string
	seq       int64
	reference float64
	pending   []model.DerivedSample
}

var _ session.Observer = (*Recorder)(nil)

// New opens the database and starts the writer.
func New(cfg Config) (*Recorder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := openDB(cfg.Path)
	if err != nil {
		return nil, err
	}

	r := &Recorder{
		cfg:     cfg,
		db:      db,
		events:  make(chan event, cfg.BatchSize*4),
		closed:  make(chan struct{}),
		pending: make([]model.DerivedSample, 0, cfg.BatchSize),
	}
	r.wg.Add(1)
	go r.run()
	return r, nil
}

func (r *Recorder) send(e event) bool {
	select {
	case <-r.closed:
		return false
	default:
	}
	select {
	case r.events <- e:
		return true
	case <-r.closed:
		return false
	}
}

// SampleAvailable queues the latest sample.
func (r *Recorder) SampleAvailable(update session.Update) {
	r.send(event{kind: eventSample, sample: update.Latest, reference: update.ReferencePressure})
}

// StateChanged opens a flight on Tracking and ends it on Idle.
func (r *Recorder) StateChanged(state model.TrackingState) {
	kind := eventStop
	if state == model.StateTracking {
		kind = eventStart
	}
	r.send(event{kind: kind, at: time.Now()})
}

// Cleared flushes what was recorded so far. The flight itself is ended by
// the Idle transition that follows a clear.
func (r *Recorder) Cleared() {
	r.send(event{kind: eventSync})
}

// Sync waits until every queued sample is written.
func (r *Recorder) Sync(ctx context.Context) error {
	done := make(chan error, 1)
	if !r.send(event{kind: eventSync, done: done}) {
		return errors.New("recorder: closed")
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends any open flight, flushes and closes the database.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		close(r.closed)
	})
	r.wg.Wait()
	return r.db.Close()
}

func (r *Recorder) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case e := <-r.events:
			r.handle(e)
		case <-ticker.C:
			r.flushLogged()
		case <-r.closed:
			// Drain what was queued before Close.
			for {
				select {
				case e := <-r.events:
					r.handle(e)
				default:
					if r.flightID != "" {
						r.endFlight(time.Now())
					}
					return
				}
			}
		}
	}
}

func (r *Recorder) handle(e event) {
	switch e.kind {
	case eventStart:
		if r.flightID != "" {
			r.endFlight(e.at)
		}
		r.startFlight(e.at)
	case eventSample:
		if r.flightID == "" {
			return
		}
		r.reference = e.reference
		r.pending = append(r.pending, e.sample)
		if len(r.pending) >= r.cfg.BatchSize {
			r.flushLogged()
		}
	case eventStop:
		if r.flightID != "" {
			r.endFlight(e.at)
		}
	case eventSync:
		err := r.flush()
		if e.done != nil {
			e.done <- err
		} else if err != nil {
			util.LogErrorf("Recorder flush failed: %v", err)
		}
	}
}

func (r *Recorder) startFlight(at time.Time) {
	r.pending = r.pending[:0]
	id := uuid.NewString()
	_, err := r.db.Exec(`INSERT INTO flights (id, source, started_at) VALUES (?, ?, ?)`,
		id, r.cfg.Source, at.UnixMilli())
	if err != nil {
		util.LogErrorf("Failed to open flight record: %v", err)
		return
	}
	r.flightID = id
	r.seq = 0
	r.reference = 0
	util.LogInfof("Recording flight %s", id)
}

func (r *Recorder) endFlight(at time.Time) {
	r.flushLogged()
	if len(r.pending) > 0 {
		util.LogWarnf("Discarding %d unwritten samples of flight %s", len(r.pending), r.flightID)
		r.pending = r.pending[:0]
	}
	_, err := r.db.Exec(`UPDATE flights SET ended_at = ?, reference_pressure = ? WHERE id = ?`,
		at.UnixMilli(), r.reference, r.flightID)
	if err != nil {
		util.LogErrorf("Failed to close flight record %s: %v", r.flightID, err)
	}
	util.LogInfof("Flight %s recorded with %d samples", r.flightID, r.seq)
	r.flightID = ""
}

func (r *Recorder) flushLogged() {
	if err := r.flush(); err != nil {
		util.LogErrorf("Recorder flush failed: %v", err)
	}
}

// flush writes pending samples in one transaction.
func (r *Recorder) flush() error {
	if len(r.pending) == 0 || r.flightID == "" {
		r.pending = r.pending[:0]
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO samples (flight_id, seq, time, pressure, temperature, altitude,
		accel_x, accel_y, accel_z, gyro_x, gyro_y, gyro_z, vertical_speed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	seq := r.seq
	for _, s := range r.pending {
		if _, err := stmt.Exec(r.flightID, seq, s.Time, s.Pressure, s.Temperature, s.Altitude,
			s.Accel.X, s.Accel.Y, s.Accel.Z, s.Gyro.X, s.Gyro.Y, s.Gyro.Z, s.VerticalSpeed); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert sample %d: %w", seq, err)
		}
		seq++
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	util.LogDebugf("Flushed %d samples for flight %s", len(r.pending), r.flightID)
	r.seq = seq
	r.pending = r.pending[:0]
	return nil
}

// Flights lists recorded flights, newest first.
func (r *Recorder) Flights(ctx context.Context) ([]Flight, error) {
	return listFlights(ctx, r.db)
}

// Samples returns the samples of a flight in arrival order.
func (r *Recorder) Samples(ctx context.Context, flightID string) ([]model.DerivedSample, error) {
	return listSamples(ctx, r.db, flightID)
}

// DeleteFlight removes a flight and its samples.
func (r *Recorder) DeleteFlight(ctx context.Context, flightID string) error {
	return deleteFlight(ctx, r.db, flightID)
}
