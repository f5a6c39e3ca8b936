// Package engine assembles the motion runtime: configuration, preset
// registry, motion gate, performance sampler and event loop, plus factories
// for primitives, trackers, sequencers and gesture recognizers bound to the
// host's capabilities.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/comalice/motionx/config"
	"github.com/comalice/motionx/gate"
	"github.com/comalice/motionx/gesture"
	"github.com/comalice/motionx/internal/telemetry"
	"github.com/comalice/motionx/loop"
	"github.com/comalice/motionx/preset"
	"github.com/comalice/motionx/primitive"
	"github.com/comalice/motionx/sequence"
	"github.com/comalice/motionx/tracker"
	"github.com/comalice/motionx/viewport"
)

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("engine: closed")

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger *zap.Logger
	meter  metric.Meter
}

// WithLogger sets the root logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMeter registers instruments on m instead of the global provider.
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}

// Engine owns the loop goroutine and everything driven by it.
type Engine struct {
	cfg    config.Config
	host   Host
	logger *zap.Logger

	loop     *loop.Loop
	registry *preset.Registry
	gate     *gate.Gate
	sampler  *gate.Sampler
	resolver *gate.Resolver
	metrics  *telemetry.Instruments

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New builds an engine. Configuration errors, including an unreadable or
// invalid preset file, are returned here. Start runs it.
func New(cfg config.Config, host Host, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	registry := preset.Default()
	if cfg.PresetFile != "" {
		descs, err := preset.LoadFile(cfg.PresetFile)
		if err != nil {
			return nil, fmt.Errorf("load presets: %w", err)
		}
		if err := registry.Merge(descs...); err != nil {
			return nil, fmt.Errorf("load presets: %w", err)
		}
	}

	e := &Engine{
		cfg:      cfg,
		host:     host,
		logger:   o.logger,
		registry: registry,
		gate:     gate.NewGate(true),
		metrics:  telemetry.New(o.meter, o.logger),
	}
	e.loop = loop.New(loop.Config{
		TickRate:        cfg.TickRate,
		MaxPostsPerTick: cfg.MaxPostsPerTick,
		Logger:          o.logger.Named("loop"),
	})

	e.sampler = gate.NewSampler(gate.SamplerConfig{Window: cfg.SampleWindow, Budget: cfg.FrameBudget})
	if err := e.sampler.Start(e.loop); err != nil {
		return nil, err
	}

	var a11y gate.AccessibilitySource
	if host.Accessibility != nil {
		a11y = postedAccessibility{src: host.Accessibility, post: e.post}
	}
	e.resolver = gate.NewResolver(e.gate, a11y, e.sampler,
		gate.WithLogger(o.logger.Named("gate")),
		gate.WithForceReducedMotion(cfg.ForceReducedMotion),
		gate.WithChangeHook(func(v bool) { e.metrics.GateChange(context.Background(), v) }),
	)
	return e, nil
}

// Start launches the loop and, when configured, the preset file watcher.
func (e *Engine) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	if err := e.loop.Start(ctx); err != nil {
		cancel()
		return err
	}
	e.cancel = cancel
	if e.cfg.WatchPresets {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			if err := preset.Watch(ctx, e.cfg.PresetFile, e.registry, e.logger.Named("presets")); err != nil {
				e.logger.Warn("preset watcher stopped", zap.Error(err))
			}
		}()
	}
	e.logger.Debug("engine started",
		zap.Duration("tick_rate", e.cfg.TickRate),
		zap.Bool("watch_presets", e.cfg.WatchPresets),
	)
	return nil
}

// Close stops the loop and watcher and releases the gate inputs. Safe to
// call more than once.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		if e.cancel != nil {
			e.cancel()
		}
		_ = e.loop.Stop()
		e.wg.Wait()
		e.resolver.Close()
		e.sampler.Stop()
	})
	return nil
}

// Do runs fn on the loop goroutine and waits for it to finish. Components
// built by the engine must only be touched from inside Do or from their
// own callbacks.
func (e *Engine) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := e.loop.Post(func() {
		defer close(done)
		fn()
	}); err != nil {
		if errors.Is(err, loop.ErrStopped) {
			return ErrClosed
		}
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) post(fn func()) {
	if err := e.loop.Post(fn); err != nil && !errors.Is(err, loop.ErrStopped) {
		e.logger.Warn("dropped host event", zap.Error(err))
	}
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() config.Config { return e.cfg }

// Registry returns the preset registry.
func (e *Engine) Registry() *preset.Registry { return e.registry }

// Gate returns the motion gate.
func (e *Engine) Gate() *gate.Gate { return e.gate }

// Loop returns the event loop, which is also the engine's clock.
func (e *Engine) Loop() *loop.Loop { return e.loop }

// Env returns the environment primitives are built with.
func (e *Engine) Env() primitive.Env {
	env := primitive.Env{
		Registry: e.registry,
		Gate:     e.gate,
		Clock:    e.loop,
		Sink:     e.host.Sink,
		Logger:   e.logger.Named("primitive"),
		Metrics:  e.metrics,
	}
	if e.host.Observer != nil {
		env.Observer = postedObserver{src: e.host.Observer, post: e.post}
	}
	return env
}

// ScrollProgress tracks page scroll progress.
func (e *Engine) ScrollProgress() (*tracker.ScrollProgress, error) {
	if e.host.Scroll == nil {
		return nil, tracker.ErrUnsupported
	}
	return tracker.NewScrollProgress(postedScroll{src: e.host.Scroll, post: e.post})
}

// ElementProgress tracks the visible fraction of one element.
func (e *Engine) ElementProgress(bounds func() viewport.Rect) (*tracker.ElementProgress, error) {
	if e.host.Scroll == nil {
		return nil, tracker.ErrUnsupported
	}
	return tracker.NewElementProgress(postedScroll{src: e.host.Scroll, post: e.post}, bounds)
}

// Resize tracks the window size with the configured quiet period.
func (e *Engine) Resize() (*tracker.Resize, error) {
	if e.host.Resize == nil {
		return nil, tracker.ErrUnsupported
	}
	return tracker.NewResize(postedResize{src: e.host.Resize, post: e.post}, e.loop, e.cfg.ResizeQuiet)
}

// Pointer tracks the pointer with the configured quiet period.
func (e *Engine) Pointer() (*tracker.Pointer, error) {
	if e.host.Pointer == nil {
		return nil, tracker.ErrUnsupported
	}
	return tracker.NewPointer(postedPointer{src: e.host.Pointer, post: e.post}, e.loop, e.cfg.PointerQuiet)
}

// Swipe returns a recognizer bound to the host's touch stream.
func (e *Engine) Swipe() (*gesture.Swipe, error) {
	if e.host.Touch == nil {
		return nil, gesture.ErrUnsupported
	}
	s := gesture.NewSwipe(e.loop, e.cfg.SwipeClearDelay)
	if err := s.Bind(postedTouch{src: e.host.Touch, post: e.post}); err != nil {
		return nil, err
	}
	return s, nil
}

// Sequencer returns a step sequencer driven by the loop.
func (e *Engine) Sequencer() *sequence.Sequencer {
	return sequence.New(e.loop, sequence.WithLogger(e.logger.Named("sequence")))
}
