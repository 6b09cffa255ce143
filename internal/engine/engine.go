// Package engine drives the continuous transmission loop: it stages the
// interface, builds the frame skeleton once, then injects frames at a fixed
// cadence until cancelled or until the adapter fails for good.
package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rftools/ctx/internal/adapters/frame"
	"github.com/rftools/ctx/internal/adapters/injection"
	"github.com/rftools/ctx/internal/core/domain"
	"github.com/rftools/ctx/internal/telemetry"
)

// DefaultFailureThreshold is the contiguous injection failure count that
// escalates to a fatal stop. A single dropped frame is not fatal; a run this
// long signals sustained adapter or driver failure.
const DefaultFailureThreshold = 200

// ErrNotIdle is returned when Run is called on an engine that already ran.
// Engines are single use.
var ErrNotIdle = errors.New("engine already started")

// InterfaceManager is the subset of interface control the engine drives.
type InterfaceManager interface {
	CapabilityCheck(name string) (domain.CapabilityReport, error)
	Prepare(ctx context.Context, name string, freqMHz int) error
	Restore(name string)
	Info(name string) (domain.InterfaceState, error)
}

// InjectorFactory opens the injection mechanism once the interface is
// staged. Injectable for tests.
type InjectorFactory func(iface string) (injection.PacketInjector, error)

// Option tweaks engine construction.
type Option func(*Engine)

// WithClock replaces the scheduler clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithFailureThreshold overrides the contiguous failure threshold.
func WithFailureThreshold(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.threshold = n
		}
	}
}

// WithInjectorFactory overrides how the injection mechanism is opened.
func WithInjectorFactory(f InjectorFactory) Option {
	return func(e *Engine) { e.openInjector = f }
}

// Engine owns the send loop. Single goroutine of control: the interface
// handle is exclusively the engine's between Prepare and Restore.
type Engine struct {
	cfg          domain.RunConfig
	ifmgr        InterfaceManager
	payload      *frame.PayloadGenerator
	clock        Clock
	threshold    int
	openInjector InjectorFactory

	state       atomicState
	stats       TxStats
	restoreOnce sync.Once
	log         *logrus.Entry
}

// New validates the payload range and builds an engine in Idle state.
func New(cfg domain.RunConfig, ifmgr InterfaceManager, opts ...Option) (*Engine, error) {
	gen, err := frame.NewPayloadGenerator(cfg.PayloadMin, cfg.PayloadMax)
	if err != nil {
		return nil, err
	}
	if cfg.TxInterval <= 0 {
		return nil, fmt.Errorf("tx interval must be positive, got %v", cfg.TxInterval)
	}

	e := &Engine{
		cfg:          cfg,
		ifmgr:        ifmgr,
		payload:      gen,
		clock:        systemClock{},
		threshold:    DefaultFailureThreshold,
		openInjector: injection.Open,
		log: logrus.WithFields(logrus.Fields{
			"component": "engine",
			"run_id":    uuid.New().String(),
			"interface": cfg.Interface,
		}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state.Get() }

// Stats returns the engine's transmission counters.
func (e *Engine) Stats() *TxStats { return &e.stats }

// Run executes the engine to completion: staging, the send loop, and
// teardown. It returns nil after a cancellation-driven stop and an error for
// fatal preparation or sustained injection failure. Zero frames are sent
// when preparation fails.
func (e *Engine) Run(ctx context.Context) error {
	if !e.state.CompareAndSwap(StateIdle, StatePreparing) {
		return ErrNotIdle
	}
	defer e.state.Set(StateStopped)

	report, err := e.ifmgr.CapabilityCheck(e.cfg.Interface)
	if err != nil {
		return fmt.Errorf("capability check: %w", err)
	}
	if !report.SupportsMonitor {
		return &domain.UnsupportedAdapterError{Interface: e.cfg.Interface, Missing: "monitor mode"}
	}
	if !report.SupportsInjection {
		return &domain.UnsupportedAdapterError{Interface: e.cfg.Interface, Missing: "injection"}
	}

	if e.cfg.SkipPrepare {
		e.log.Warn("interface preparation skipped, assuming a staged interface")
	} else {
		// The engine stages the interface, so the engine puts it back; the
		// deferral covers a half-completed staging sequence too.
		defer e.restoreOnce.Do(func() { e.ifmgr.Restore(e.cfg.Interface) })
		if err := e.ifmgr.Prepare(ctx, e.cfg.Interface, e.cfg.FrequencyMHz); err != nil {
			return fmt.Errorf("interface preparation: %w", err)
		}
	}

	state, err := e.ifmgr.Info(e.cfg.Interface)
	if err != nil {
		return fmt.Errorf("interface validation: %w", err)
	}
	if len(state.HardwareAddr) == 0 {
		return fmt.Errorf("interface %s has no hardware address", e.cfg.Interface)
	}

	skeleton, err := e.buildSkeleton(state.HardwareAddr)
	if err != nil {
		return err
	}

	injector, err := e.openInjector(e.cfg.Interface)
	if err != nil {
		return fmt.Errorf("open injector on %s: %w", e.cfg.Interface, err)
	}
	defer injector.Close()

	e.state.Set(StateRunning)
	e.log.WithFields(logrus.Fields{
		"frequency_mhz": e.cfg.FrequencyMHz,
		"interval":      e.cfg.TxInterval,
	}).Info("starting QoS data frame transmissions")

	err = e.loop(ctx, skeleton, injector)

	e.state.Set(StateStopping)
	e.log.WithFields(logrus.Fields{
		"frames_sent":   e.stats.FramesSent(),
		"frames_failed": e.stats.FramesFailed(),
		"bytes_sent":    e.stats.BytesSent(),
	}).Info("transmission stopped")
	return err
}

// buildSkeleton constructs the reusable frame template exactly once per run.
func (e *Engine) buildSkeleton(src net.HardwareAddr) (*frame.Skeleton, error) {
	dst, err := net.ParseMAC(frame.PeerAddress)
	if err != nil {
		return nil, fmt.Errorf("parse peer address: %w", err)
	}
	// BSSID and source both derive from the adapter's real MAC.
	skeleton, err := frame.BuildSkeleton(src, dst, src)
	if err != nil {
		return nil, fmt.Errorf("build frame skeleton: %w", err)
	}
	return skeleton, nil
}

// loop is the steady-state send loop. Each iteration schedules the next tick
// off the previous one, not off "now", so injection latency does not
// accumulate into drift.
func (e *Engine) loop(ctx context.Context, skeleton *frame.Skeleton, injector injection.PacketInjector) error {
	assembly := make([]byte, 0, skeleton.Len()+e.cfg.PayloadMax)
	consecutive := 0
	var seq uint16

	next := e.clock.Now()
	for {
		next = next.Add(e.cfg.TxInterval)

		assembly = assembly[:0]
		assembly = append(assembly, skeleton.Bytes()...)
		if e.cfg.SeqIncrement {
			frame.StampSequence(assembly, skeleton.SeqOffset(), seq)
			seq = (seq + 1) & 0x0fff
		}
		assembly = append(assembly, e.payload.Next()...)

		if err := injector.Inject(assembly); err != nil {
			consecutive++
			e.stats.recordFailed()
			telemetry.FramesFailed.WithLabelValues(e.cfg.Interface).Inc()
			e.log.WithError(err).Debug("frame injection failed")
			if consecutive >= e.threshold {
				return &domain.SustainedFailureError{Consecutive: consecutive, Err: err}
			}
		} else {
			consecutive = 0
			e.stats.recordSent(len(assembly))
			telemetry.FramesSent.WithLabelValues(e.cfg.Interface).Inc()
			telemetry.BytesSent.WithLabelValues(e.cfg.Interface).Add(float64(len(assembly)))
		}

		// Cooperative cancellation check after the send, then suspend only
		// at the scheduled sleep point.
		if ctx.Err() != nil {
			return nil
		}
		delay := next.Sub(e.clock.Now())
		if delay < 0 {
			delay = 0
		}
		select {
		case <-ctx.Done():
			return nil
		case <-e.clock.After(delay):
		}
	}
}
