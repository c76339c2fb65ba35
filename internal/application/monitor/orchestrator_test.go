package monitor

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/data/recorder"
	"github.com/penwyp/go-flight-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-flight-monitor/internal/presentation/layout"
	"github.com/penwyp/go-flight-monitor/internal/testing/fixtures"
)

type fakeDisplay struct {
	mu      sync.Mutex
	entered int
	exited  int
	frames  []*model.DashboardMetrics
	states  []model.InteractionState
}

func (d *fakeDisplay) EnterAlternateScreen() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entered++
}

func (d *fakeDisplay) ExitAlternateScreen() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.exited++
}

func (d *fakeDisplay) RenderWithState(metrics *model.DashboardMetrics, state model.InteractionState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, metrics)
	d.states = append(d.states, state)
}

type fakeInput struct {
	events chan interaction.KeyEvent
	closed bool
}

func newFakeInput() *fakeInput {
	return &fakeInput{events: make(chan interaction.KeyEvent, 16)}
}

func (f *fakeInput) Events() <-chan interaction.KeyEvent { return f.events }

func (f *fakeInput) Close() error {
	f.closed = true
	return nil
}

func key(r rune) interaction.KeyEvent { return interaction.KeyEvent{Key: r, Type: interaction.KeyChar} }

var escape = interaction.KeyEvent{Key: 27, Type: interaction.KeyEscape}

func newTestOrchestrator(t *testing.T, cfg *Config) (*Orchestrator, *fakeDisplay) {
	t.Helper()
	o, err := NewOrchestrator(cfg)
	require.NoError(t, err)
	d := &fakeDisplay{}
	o.display = d
	return o, d
}

func writeFlight(t *testing.T) string {
	t.Helper()
	path, err := fixtures.NewTelemetryGenerator(t.TempDir()).
		GenerateNoisyFlight("alpha.tlm", fixtures.DefaultProfile(), 10)
	require.NoError(t, err)
	return path
}

func TestNewOrchestratorRejectsInvalidConfig(t *testing.T) {
	_, err := NewOrchestrator(&Config{Layout: "wide"})
	assert.Error(t, err)
}

func TestRunHeadlessRecordsFlight(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "flights.db")
	o, _ := newTestOrchestrator(t, &Config{
		File:       writeFlight(t),
		Headless:   true,
		RecordPath: dbPath,
		Capacity:   1000,
	})

	require.NoError(t, o.Run(context.Background()))

	stats := o.Session().Stats()
	assert.Equal(t, int64(101), stats.Accepted)
	assert.Equal(t, int64(10), stats.Dropped)
	assert.Equal(t, int64(0), stats.Ignored)
	assert.True(t, o.Session().Tracking())

	store, err := recorder.OpenStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	flights, err := store.Flights(context.Background())
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, 101, flights[0].Samples)
	assert.InDelta(t, 100, flights[0].Apogee, 0.5)
	assert.False(t, flights[0].Open(), "closing the monitor ends the flight")
}

func TestRunHeadlessMissingFile(t *testing.T) {
	o, _ := newTestOrchestrator(t, &Config{File: filepath.Join(t.TempDir(), "none.tlm"), Headless: true})
	assert.Error(t, o.Run(context.Background()))
}

func TestRunInteractiveQuits(t *testing.T) {
	o, d := newTestOrchestrator(t, &Config{File: writeFlight(t), AutoStart: true})
	input := newFakeInput()
	o.openInput = func() (InputHandler, error) { return input, nil }
	input.events <- key('q')

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, o.Run(ctx))

	assert.Equal(t, 1, d.entered)
	assert.Equal(t, 1, d.exited)
	assert.NotEmpty(t, d.frames)
	assert.True(t, input.closed)
	assert.NoError(t, ctx.Err(), "quit before the timeout")
}

func TestRunInteractiveStopsOnCancel(t *testing.T) {
	o, d := newTestOrchestrator(t, &Config{File: writeFlight(t)})
	o.openInput = func() (InputHandler, error) { return newFakeInput(), nil }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, o.Run(ctx))
	assert.Equal(t, 1, d.exited)
}

func TestHandleKeyboardTracking(t *testing.T) {
	o, _ := newTestOrchestrator(t, &Config{})

	assert.False(t, o.handleKeyboard(key('s')))
	assert.True(t, o.session.Tracking())
	assert.Contains(t, o.stateManager.GetInteractionState().StatusMessage, "Tracking from 101325.00 Pa")

	// the reference is frozen while tracking
	assert.False(t, o.handleKeyboard(key('+')))
	assert.Equal(t, 101325.0, o.stateManager.ReferencePressure())

	assert.False(t, o.handleKeyboard(key(' ')))
	assert.False(t, o.session.Tracking())

	o.handleKeyboard(key('+'))
	o.handleKeyboard(key('+'))
	o.handleKeyboard(key('-'))
	assert.Equal(t, 101335.0, o.stateManager.ReferencePressure())

	o.handleKeyboard(key('s'))
	assert.Equal(t, 101335.0, o.session.ReferencePressure(), "start captures the adjusted reference")
}

func TestHandleKeyboardClearNeedsConfirmation(t *testing.T) {
	o, _ := newTestOrchestrator(t, &Config{})
	o.session.Start()
	for _, line := range fixtures.DefaultProfile().Lines() {
		o.session.Ingest(line)
	}

	o.handleKeyboard(key('c'))
	require.NotNil(t, o.stateManager.GetInteractionState().ConfirmDialog)

	// keys other than the answers are swallowed by the dialog
	assert.False(t, o.handleKeyboard(key('q')))
	o.handleKeyboard(key('n'))
	assert.Nil(t, o.stateManager.GetInteractionState().ConfirmDialog)
	assert.Equal(t, 101, o.session.Store().Len())
	assert.True(t, o.session.Tracking())

	o.handleKeyboard(key('c'))
	o.handleKeyboard(key('y'))
	assert.Nil(t, o.stateManager.GetInteractionState().ConfirmDialog)
	assert.Equal(t, 0, o.session.Store().Len())
	assert.Equal(t, model.StateIdle, o.session.State())
	assert.Equal(t, "Session cleared", o.stateManager.GetInteractionState().StatusMessage)
}

func TestHandleKeyboardLockReference(t *testing.T) {
	o, _ := newTestOrchestrator(t, &Config{ReferencePressure: 100000})

	o.handleKeyboard(key('g'))
	assert.Equal(t, "No samples yet, reference unchanged", o.stateManager.GetInteractionState().StatusMessage)
	assert.Equal(t, 100000.0, o.stateManager.ReferencePressure())

	o.session.Start()
	for _, line := range fixtures.DefaultProfile().Lines() {
		o.session.Ingest(line)
	}
	o.handleKeyboard(key('g'))
	assert.Equal(t, 101325.0, o.session.ReferencePressure())
	assert.Equal(t, 101325.0, o.stateManager.ReferencePressure(), "kept for the next start")
}

func TestHandleKeyboardViewToggles(t *testing.T) {
	o, _ := newTestOrchestrator(t, &Config{})

	o.handleKeyboard(key('p'))
	assert.True(t, o.stateManager.GetInteractionState().IsPaused)

	o.handleKeyboard(key('t'))
	assert.Equal(t, layout.StyleMinimal, o.stateManager.GetInteractionState().LayoutStyle)
	o.handleKeyboard(key('t'))
	assert.Equal(t, layout.StyleFull, o.stateManager.GetInteractionState().LayoutStyle)

	o.handleKeyboard(key('a'))
	assert.True(t, o.stateManager.AutoLockReference())

	o.handleKeyboard(key('h'))
	assert.True(t, o.stateManager.GetInteractionState().ShowHelp)

	// Esc leaves help first, then quits
	assert.False(t, o.handleKeyboard(escape))
	assert.False(t, o.stateManager.GetInteractionState().ShowHelp)
	assert.True(t, o.handleKeyboard(escape))
	assert.True(t, o.handleKeyboard(key('q')))
}

func TestUpdateDisplayMarksRendered(t *testing.T) {
	o, d := newTestOrchestrator(t, &Config{})
	o.updateDisplay()

	require.Len(t, d.frames, 1)
	assert.Equal(t, model.StateIdle, d.frames[0].State)
	assert.Equal(t, 1, o.refreshCtrl.Renders())
	assert.False(t, o.refreshCtrl.ShouldRender(time.Now()))
}
