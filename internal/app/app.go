// Package app wires the camera, hand detector, gesture engine and plugins
// into the running aero daemon.
package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/aero/internal/capture"
	"github.com/ayusman/aero/internal/config"
	"github.com/ayusman/aero/internal/detector"
	"github.com/ayusman/aero/internal/gesture"
	"github.com/ayusman/aero/internal/plugin"
	"github.com/ayusman/aero/internal/store"
)

// Pipeline defaults, used when the matching Config field is zero.
const (
	// IdleFPS is the frame rate while no motion is seen.
	IdleFPS = 5
	// ActiveFPS is the frame rate while a hand may be moving.
	ActiveFPS = 15
	// IdleTimeoutMs is how long without motion before dropping back to idle.
	IdleTimeoutMs = 2000
	// PluginTimeoutMs bounds a single plugin run.
	PluginTimeoutMs = 5000
)

// Config holds the collaborators and tuning for an App.
type Config struct {
	Store  *store.Store
	Camera capture.Camera
	// Detector finds hands in frames. Nil tries MediaPipe and falls back to
	// a mock that never sees a hand.
	Detector       detector.Detector
	DetectorConfig detector.Config

	PluginDir       string
	PluginTimeoutMs int

	MotionThreshold float64
	IdleFPS         int
	ActiveFPS       int
	IdleTimeoutMs   int
	EventRetention  int
}

// FromConfig maps the file configuration onto an App Config.
func FromConfig(c *config.Config, st *store.Store) Config {
	dc := detector.DefaultConfig()
	dc.MinConfidence = c.Detector.MinConfidence
	dc.MinTrackingConf = c.Detector.MinTrackingConfidence

	return Config{
		Store: st,
		Camera: capture.NewCamera(capture.Options{
			DeviceID: c.Camera.DeviceID,
			Width:    c.Camera.Width,
			Height:   c.Camera.Height,
			FPS:      c.Camera.IdleFPS,
		}),
		DetectorConfig:  dc,
		PluginDir:       config.ExpandHome(c.Plugins.Dir),
		PluginTimeoutMs: c.Plugins.TimeoutMs,
		MotionThreshold: c.Motion.Threshold,
		IdleFPS:         c.Camera.IdleFPS,
		ActiveFPS:       c.Camera.ActiveFPS,
		IdleTimeoutMs:   c.Camera.IdleTimeoutMs,
		EventRetention:  c.Store.EventRetention,
	}
}

func (c Config) withDefaults() Config {
	if c.IdleFPS <= 0 {
		c.IdleFPS = IdleFPS
	}
	if c.ActiveFPS <= 0 {
		c.ActiveFPS = ActiveFPS
	}
	if c.IdleTimeoutMs <= 0 {
		c.IdleTimeoutMs = IdleTimeoutMs
	}
	if c.PluginTimeoutMs <= 0 {
		c.PluginTimeoutMs = PluginTimeoutMs
	}
	if c.MotionThreshold <= 0 {
		c.MotionThreshold = capture.DefaultMotionThreshold
	}
	if c.Camera == nil {
		c.Camera = capture.NewCamera(capture.Options{FPS: c.IdleFPS})
	}
	return c
}

// App runs the recognition pipeline: a capture goroutine posts the newest
// detector result to a mailbox and a classify goroutine feeds it to the
// gesture engine, dispatching the resulting events.
type App struct {
	config    Config
	sessionID string
	start     time.Time

	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	pluginMgr  *plugin.Manager
	actions    *ActionRunner
	mailbox    *Mailbox
	dispatcher *Dispatcher

	// engineMu serializes the classify goroutine with resets from outside it.
	engineMu sync.Mutex
	engine   *gesture.Engine

	mu        sync.RWMutex
	enabled   bool
	onEnabled func(bool)
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	previewMu sync.RWMutex
	preview   []byte
}

// New creates an App. Detection starts enabled unless the store says
// otherwise.
func New(config Config) (*App, error) {
	config = config.withDefaults()

	a := &App{
		config:     config,
		sessionID:  uuid.NewString(),
		start:      time.Now(),
		camera:     config.Camera,
		motion:     capture.NewMotionDetector(config.MotionThreshold),
		detector:   config.Detector,
		pluginMgr:  plugin.NewManager(config.PluginDir),
		mailbox:    NewMailbox(),
		dispatcher: NewDispatcher(),
		engine:     gesture.NewEngine(),
		enabled:    true,
	}

	if a.detector == nil {
		if mp, err := detector.NewMediaPipeDetector(config.DetectorConfig); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	if st := config.Store; st != nil {
		enabled, err := st.Settings().GetBool(store.SettingDetectionEnabled, true)
		if err != nil {
			return nil, fmt.Errorf("failed to load detection setting: %w", err)
		}
		a.enabled = enabled

		a.dispatcher.Register(NewEventRecorder(st.Events(), a.sessionID, config.EventRetention))
		a.actions = NewActionRunner(st.Bindings(), a.pluginMgr, plugin.NewExecutor(config.PluginTimeoutMs))
		a.dispatcher.Register(a.actions)
	}

	return a, nil
}

// SessionID identifies this run in the event log.
func (a *App) SessionID() string {
	return a.sessionID
}

// NowMs returns milliseconds since the App was created on a monotonic clock.
func (a *App) NowMs() int64 {
	return time.Since(a.start).Milliseconds()
}

// Register adds an event handler.
func (a *App) Register(h Handler) {
	a.dispatcher.Register(h)
}

// Actions returns the binding runner, nil when the App has no store.
func (a *App) Actions() *ActionRunner {
	return a.actions
}

// Process classifies the detector output for one frame at nowMs and
// dispatches the events. Only the first hand is tracked; no hands is an
// empty frame.
func (a *App) Process(hands []detector.HandLandmarks, nowMs int64) ([]gesture.Event, error) {
	return a.classify(observe(hands, nowMs))
}

func observe(hands []detector.HandLandmarks, nowMs int64) Observation {
	obs := Observation{TimestampMs: nowMs}
	if len(hands) > 0 {
		obs.Frame = hands[0].Frame()
	}
	return obs
}

func (a *App) classify(obs Observation) ([]gesture.Event, error) {
	a.engineMu.Lock()
	events, err := a.engine.Classify(obs.Frame, obs.TimestampMs)
	a.engineMu.Unlock()
	if err != nil {
		return nil, err
	}

	a.dispatcher.Dispatch(events, obs.TimestampMs)
	return events, nil
}

// ResetEngine clears the trajectory and gesture history.
func (a *App) ResetEngine() {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	a.engine.Reset()
}

// CurrentGesture returns the last swipe, rotation or pose name.
func (a *App) CurrentGesture() string {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	return a.engine.CurrentGesture()
}

// SetEnabled turns detection on or off and persists the choice. Disabling
// forgets any gesture in progress.
func (a *App) SetEnabled(enabled bool) error {
	if st := a.config.Store; st != nil {
		if err := st.Settings().SetBool(store.SettingDetectionEnabled, enabled); err != nil {
			return fmt.Errorf("failed to save detection setting: %w", err)
		}
	}

	a.mu.Lock()
	a.enabled = enabled
	notify := a.onEnabled
	a.mu.Unlock()

	if !enabled {
		a.ResetEngine()
	}
	if notify != nil {
		notify(enabled)
	}
	log.Printf("Detection enabled: %t", enabled)
	return nil
}

// OnEnabledChange sets a callback run after every SetEnabled.
func (a *App) OnEnabledChange(fn func(enabled bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEnabled = fn
}

// IsEnabled returns whether gesture detection is on.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// DiscoverPlugins rescans the plugin directory.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}

// LatestFrame returns the most recent camera frame as JPEG.
func (a *App) LatestFrame() ([]byte, bool) {
	a.previewMu.RLock()
	defer a.previewMu.RUnlock()
	return a.preview, a.preview != nil
}

func (a *App) setPreview(jpeg []byte) {
	a.previewMu.Lock()
	a.preview = jpeg
	a.previewMu.Unlock()
}

// Start opens the camera and launches the capture and classify goroutines.
// Starting a running App is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}
	a.camera.SetFPS(a.config.IdleFPS)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.actions != nil {
		a.actions.Start(ctx)
	}

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.runCapture(ctx)
	}()
	go func() {
		defer a.wg.Done()
		a.runClassify(ctx)
	}()

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the pipeline and releases the camera, motion buffers and
// detector.
func (a *App) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		a.wg.Wait()
	}
	if a.actions != nil {
		a.actions.Close()
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()
	if err := a.detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}

	log.Println("Detection pipeline stopped")
}
