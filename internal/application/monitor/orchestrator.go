package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/core/series"
	"github.com/penwyp/go-flight-monitor/internal/core/session"
	"github.com/penwyp/go-flight-monitor/internal/data/recorder"
	"github.com/penwyp/go-flight-monitor/internal/data/source"
	"github.com/penwyp/go-flight-monitor/internal/presentation/display"
	"github.com/penwyp/go-flight-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-flight-monitor/internal/presentation/layout"
	"github.com/penwyp/go-flight-monitor/internal/presentation/stream"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// Orchestrator coordinates all components for the monitor command. The
// session is owned by the goroutine running Run; every other component
// talks to it through the event loop.
type Orchestrator struct {
	config *Config

	// Core components
	session      *session.Session
	stateManager *StateManager
	refreshCtrl  *RefreshController

	// I/O components
	source   source.LineSource
	streamer Streamer
	recorder FlightRecorder

	// UI components
	display  DisplayController
	keyboard InputHandler

	// Factories, replaced in tests
	openInput    func() (InputHandler, error)
	openStreamer func() Streamer
	openRecorder func(cfg recorder.Config) (FlightRecorder, error)
	now          func() time.Time
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(config *Config) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	stateManager := NewStateManager(config.ReferencePressure, config.AutoLock, config.LayoutStyle())
	sess, err := session.New(config.SessionConfig(), stateManager)
	if err != nil {
		return nil, err
	}
	refreshCtrl := NewRefreshController()
	sess.Subscribe(stateManager)
	sess.Subscribe(refreshCtrl)

	return &Orchestrator{
		config:       config,
		session:      sess,
		stateManager: stateManager,
		refreshCtrl:  refreshCtrl,
		display: display.NewTerminalDisplay(&display.DisplayConfig{
			TimeFormat: config.TimeFormat,
			Width:      config.Width,
		}),
		openInput: func() (InputHandler, error) {
			return interaction.NewKeyboardReader()
		},
		openStreamer: func() Streamer { return stream.NewHub() },
		openRecorder: func(cfg recorder.Config) (FlightRecorder, error) {
			return recorder.New(cfg)
		},
		now: time.Now,
	}, nil
}

// Session exposes the telemetry session, for inspection after Run.
func (o *Orchestrator) Session() *session.Session { return o.session }

// Run opens the configured source and outputs, then processes lines until
// the source ends, the user quits or ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting flight monitor...")
	defer o.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	src, err := openSource(o.config)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	o.source = src

	if err := o.startOutputs(ctx); err != nil {
		return err
	}

	if o.config.AutoStart || o.config.Headless {
		o.session.Start()
	}

	if o.config.Headless {
		return o.runHeadless(ctx)
	}
	return o.runInteractive(ctx)
}

// startOutputs attaches the optional stream hub and flight recorder.
func (o *Orchestrator) startOutputs(ctx context.Context) error {
	if o.config.RecordPath != "" {
		rec, err := o.openRecorder(recorder.Config{Path: o.config.RecordPath, Source: o.source.Name()})
		if err != nil {
			return fmt.Errorf("failed to open flight recorder: %w", err)
		}
		o.recorder = rec
		o.session.Subscribe(rec)
	}

	if o.config.ListenAddr != "" {
		hub := o.openStreamer()
		o.streamer = hub
		o.session.Subscribe(hub)
		go hub.Run(ctx)
		go func() {
			if err := hub.Serve(ctx, o.config.ListenAddr); err != nil {
				util.LogErrorf("Stream server stopped: %v", err)
			}
		}()
	}
	return nil
}

// runHeadless ingests lines without a terminal UI and logs progress.
func (o *Orchestrator) runHeadless(ctx context.Context) error {
	statsTicker := time.NewTicker(time.Duration(o.config.StatsInterval))
	defer statsTicker.Stop()

	lines := o.source.Lines()
	for {
		select {
		case <-ctx.Done():
			o.logProgress()
			return nil
		case line, ok := <-lines:
			if !ok {
				o.logProgress()
				return o.source.Err()
			}
			o.session.Ingest(line)
		case <-statsTicker.C:
			o.logProgress()
		}
	}
}

func (o *Orchestrator) logProgress() {
	stats := o.session.Stats()
	apogee, _ := o.session.Store().Max(model.ChannelAltitude)
	util.LogInfof("Telemetry: %d accepted, %d dropped, %d ignored, apogee %s",
		stats.Accepted, stats.Dropped, stats.Ignored, util.FormatAltitude(apogee))
}

// runInteractive drives the dashboard: lines, keys and frames are handled
// on this goroutine only.
func (o *Orchestrator) runInteractive(ctx context.Context) error {
	keyboard, err := o.openInput()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	o.keyboard = keyboard

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	uiTicker := time.NewTicker(o.config.RefreshInterval())
	defer uiTicker.Stop()

	o.updateDisplay()

	lines := o.source.Lines()
	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down flight monitor...")
			return nil

		case line, ok := <-lines:
			if !ok {
				lines = nil
				o.sourceEnded()
				continue
			}
			o.session.Ingest(line)

		case <-uiTicker.C:
			if !o.stateManager.GetInteractionState().IsPaused && o.refreshCtrl.ShouldRender(o.now()) {
				o.updateDisplay()
			}

		case event := <-o.keyboard.Events():
			if o.handleKeyboard(event) {
				return nil
			}
			o.updateDisplay()
		}
	}
}

func (o *Orchestrator) sourceEnded() {
	if err := o.source.Err(); err != nil {
		util.LogErrorf("Source %s failed: %v", o.source.Name(), err)
		o.stateManager.SetStatus("Source failed: %v", err)
	} else {
		util.LogInfof("Source %s ended", o.source.Name())
		o.stateManager.SetStatus("Source ended")
	}
	o.refreshCtrl.MarkDirty()
}

// updateDisplay draws one frame from the current session state.
func (o *Orchestrator) updateDisplay() {
	clients := 0
	if o.streamer != nil {
		clients = o.streamer.Clients()
	}
	label := ""
	if o.source != nil {
		label = sourceLabel(o.config, o.source)
	}
	metrics := buildMetrics(o.session, o.stateManager, label, clients)
	o.display.RenderWithState(metrics, o.stateManager.GetInteractionState())
	o.refreshCtrl.Rendered(o.now())
}

// handleKeyboard handles keyboard events and reports whether to quit.
func (o *Orchestrator) handleKeyboard(event interaction.KeyEvent) bool {
	state := o.stateManager.GetInteractionState()
	action := interaction.MapKey(event, state.ConfirmDialog != nil)
	util.LogDebugf("Key %q -> %s", event.Key, action)

	switch action {
	case interaction.ActionQuit:
		// Esc closes help before it quits.
		if event.Type == interaction.KeyEscape && state.ShowHelp {
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) { s.ShowHelp = false })
			return false
		}
		return true

	case interaction.ActionConfirm:
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) { s.ConfirmDialog = nil })
		if state.ConfirmDialog.OnConfirm != nil {
			state.ConfirmDialog.OnConfirm()
		}

	case interaction.ActionCancel:
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) { s.ConfirmDialog = nil })
		if state.ConfirmDialog.OnCancel != nil {
			state.ConfirmDialog.OnCancel()
		}

	case interaction.ActionToggleTracking:
		o.toggleTracking()

	case interaction.ActionClear:
		o.confirmClear()

	case interaction.ActionLockReference:
		o.lockReference()

	case interaction.ActionToggleAutoLock:
		if o.stateManager.ToggleAutoLock() {
			o.stateManager.SetStatus("Auto-lock on: reference follows the highest pressure")
		} else {
			o.stateManager.SetStatus("Auto-lock off")
		}

	case interaction.ActionIncreaseReference, interaction.ActionDecreaseReference:
		steps := 1
		if action == interaction.ActionDecreaseReference {
			steps = -1
		}
		if ref, err := o.stateManager.AdjustReference(steps); err != nil {
			o.stateManager.SetStatus("%v", err)
		} else {
			o.stateManager.SetStatus("Reference %s", util.FormatPressure(ref))
		}

	case interaction.ActionTogglePause:
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) { s.IsPaused = !s.IsPaused })

	case interaction.ActionToggleLayout:
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.LayoutStyle = layout.NextStyle(s.LayoutStyle)
		})

	case interaction.ActionToggleHelp:
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) { s.ShowHelp = !s.ShowHelp })
	}

	o.refreshCtrl.MarkDirty()
	return false
}

func (o *Orchestrator) toggleTracking() {
	if o.session.Tracking() {
		o.session.Stop()
		o.stateManager.SetStatus("Tracking stopped")
		return
	}
	o.session.Start()
	o.stateManager.SetStatus("Tracking from %s", util.FormatPressure(o.session.ReferencePressure()))
}

// confirmClear asks before discarding the buffered history.
func (o *Orchestrator) confirmClear() {
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		s.ConfirmDialog = &model.ConfirmDialog{
			Title:   "Clear Session",
			Message: "This will discard every buffered sample and return to idle. Recorded flights are kept. Continue?",
			OnConfirm: func() {
				o.session.Clear()
				o.stateManager.SetStatus("Session cleared")
			},
		}
	})
}

func (o *Orchestrator) lockReference() {
	ground, err := o.session.LockReference()
	if errors.Is(err, series.ErrEmptyChannel) {
		o.stateManager.SetStatus("No samples yet, reference unchanged")
		return
	}
	if err != nil {
		o.stateManager.SetStatus("Lock failed: %v", err)
		return
	}
	o.stateManager.SetReference(ground)
	o.stateManager.SetStatus("Reference locked to %s", util.FormatPressure(ground))
}

// Close cleans up all resources
func (o *Orchestrator) Close() error {
	var errs []error
	if o.keyboard != nil {
		if err := o.keyboard.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore keyboard: %w", err))
		}
		o.keyboard = nil
	}
	if o.source != nil {
		if err := o.source.Close(); err != nil && !errors.Is(err, source.ErrClosed) {
			errs = append(errs, fmt.Errorf("failed to close source: %w", err))
		}
	}
	if o.recorder != nil {
		if err := o.recorder.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close recorder: %w", err))
		}
		o.recorder = nil
	}
	if err := errors.Join(errs...); err != nil {
		util.LogError(err.Error())
		return err
	}
	return nil
}
