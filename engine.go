package canopy

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gogpu/gg"

	"github.com/phanxgames/canopy/asset"
)

// ErrEngineRunning is returned by New while another Engine has not been
// shut down.
var ErrEngineRunning = errors.New("canopy: an engine is already running")

// running enforces one live Engine per process.
var running atomic.Bool

// Engine owns the Stage, the frame scheduler and the double-buffered render
// pipeline. Its methods must be called from the loop goroutine; only the
// asset loading started by Load runs elsewhere.
type Engine struct {
	cfg       Config
	surface   Surface
	stage     *Stage
	events    *Emitter[*Event]
	offscreen *gg.Context
	stats     *frameStats
	assets    atomic.Pointer[asset.Registry]

	lastTick float64
	ticked   bool
	ticks    int

	prevTarget Node
	capture    *capture

	visible bool
	online  bool

	loadStarted bool
	readySent   bool
	closed      bool

	script          *Script
	injectQueue     []syntheticPointerEvent
	screenshotQueue []string
	shots           []string
}

type capture struct {
	node Node
	ctx  any
}

// New creates the Engine. A nil surface is replaced by a headless
// CanvasSurface of the configured size.
func New(cfg Config, surface Surface) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !running.CompareAndSwap(false, true) {
		return nil, ErrEngineRunning
	}
	if surface == nil {
		surface = NewCanvasSurface(cfg.Width, cfg.Height)
	}
	e := &Engine{
		cfg:       cfg,
		surface:   surface,
		stage:     NewStage(),
		events:    NewEmitter[*Event](),
		offscreen: gg.NewContext(cfg.Width, cfg.Height),
		stats:     newFrameStats(cfg.DebugSamples),
		visible:   true,
		online:    true,
	}
	Logger().Info("engine created", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height, "fps", cfg.FrameRate)
	return e, nil
}

// Config returns the configuration the engine was created with.
func (e *Engine) Config() Config { return e.cfg }

// Stage returns the root of the node tree.
func (e *Engine) Stage() *Stage { return e.stage }

// Events returns the engine event emitter.
func (e *Engine) Events() *Emitter[*Event] { return e.events }

// Surface returns the visible surface.
func (e *Engine) Surface() Surface { return e.surface }

// Offscreen returns the context the stage renders into.
func (e *Engine) Offscreen() *gg.Context { return e.offscreen }

// Assets returns the registry produced by the last successful Load, or nil.
func (e *Engine) Assets() *asset.Registry { return e.assets.Load() }

// Visible reports the last visibility passed to SetVisibility.
func (e *Engine) Visible() bool { return e.visible }

// Online reports the last state passed to SetOnline.
func (e *Engine) Online() bool { return e.online }

// Closed reports whether Shutdown has been called.
func (e *Engine) Closed() bool { return e.closed }

// Ticks returns how many ticks have been performed.
func (e *Engine) Ticks() int { return e.ticks }

// Frame is called once per platform refresh with a monotonic timestamp in
// milliseconds. It delivers queued events and performs a tick when more than
// 1000/FrameRate ms have passed since the previous one; the first call always
// ticks. A tick first advances the attached Script and replays one injected
// pointer event. Reports whether a tick happened.
func (e *Engine) Frame(timestamp float64) bool {
	if e.closed {
		return false
	}
	e.events.Drain()
	if !e.loadStarted && !e.readySent {
		e.readySent = true
		e.emit(EventReady, nil, timestamp)
	}
	if e.ticked && timestamp-e.lastTick <= e.cfg.tickInterval() {
		return false
	}
	if e.script != nil {
		e.script.step(e, timestamp)
	}
	e.processInjected()
	e.tick(timestamp)
	return true
}

func (e *Engine) tick(ts float64) {
	if e.ticked {
		e.stats.record(ts - e.lastTick)
	}
	e.lastTick = ts
	e.ticked = true
	e.ticks++

	var stats tickStats
	t0 := time.Now()
	e.emit(EventUpdate, ts, ts)
	e.stage.Update(ts)
	t1 := time.Now()

	if c := e.cfg.ClearColor; c.A > 0 {
		e.offscreen.ClearWithColor(gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	} else {
		e.offscreen.Clear()
	}
	e.stage.Render(e.offscreen)
	e.emit(EventRender, e.offscreen, ts)
	e.flushScreenshots()
	t2 := time.Now()

	e.surface.Blit(e.offscreen.Image())
	if e.cfg.Debug {
		e.surface.Overlay(e.stats.overlay(e.cfg.FrameRate))
		stats.updateTime = t1.Sub(t0)
		stats.renderTime = t2.Sub(t1)
		stats.blitTime = time.Since(t2)
		stats.nodes = countNodes(e.stage)
		e.debugLog(ts, stats)
	}
}

// Overlay returns the current debug overlay text.
func (e *Engine) Overlay() string {
	return e.stats.overlay(e.cfg.FrameRate)
}

func (e *Engine) emit(typ string, payload any, ts float64) *Event {
	ev := NewEngineEvent(e, typ, payload)
	ev.Timestamp = ts
	e.events.Emit(typ, ev)
	return ev
}

// Broadcast delivers a broadcast notice to every node, hidden ones
// included, then emits it on the engine emitter under its name.
func (e *Engine) Broadcast(name string, payload any) *Event {
	ev := e.stage.Broadcast(e, name, payload)
	e.events.Emit(name, ev)
	return ev
}

// SetVisibility records a page visibility change at timestamp. Sprites
// suspend their animations when hidden and resume them when visible again.
// Repeating the current state is a no-op.
func (e *Engine) SetVisibility(visible bool, timestamp float64) {
	if visible == e.visible {
		return
	}
	e.visible = visible
	ev := NewNotice(e, NoticeVisibilityChanged, VisibilityState{Visible: visible, Timestamp: timestamp}, true)
	ev.Timestamp = timestamp
	e.stage.Dispatch(ev, false)
	name := EventHidden
	if visible {
		name = EventVisible
	}
	Logger().Info("visibility changed", "visible", visible, "ts", timestamp)
	e.emit(name, ev.Payload, timestamp)
}

// SetOnline records a connectivity change. Repeating the current state is
// a no-op.
func (e *Engine) SetOnline(online bool) {
	if online == e.online {
		return
	}
	e.online = online
	ts := Now()
	ev := NewNotice(e, NoticeOnlineChanged, OnlineState{Online: online}, true)
	ev.Timestamp = ts
	e.stage.Dispatch(ev, false)
	name := EventOffline
	if online {
		name = EventOnline
	}
	Logger().Info("online state changed", "online", online)
	e.emit(name, ev.Payload, ts)
}

// Load fetches the loader's resources in the background. Progress arrives
// as loading events (payload: percent complete), followed by ready (payload:
// *asset.Registry) or fault (payload: error), all delivered by Frame. Call
// before the first Frame to hold back the initial ready event.
// Panics if l is nil. l itself is not modified.
func (e *Engine) Load(ctx context.Context, l *asset.Loader) {
	if l == nil {
		panic("canopy: nil loader")
	}
	e.loadStarted = true
	loader := *l
	if loader.Logger == nil {
		loader.Logger = Logger()
	}
	go func() {
		reg, err := loader.Load(ctx, func(percent float64) {
			e.events.EmitAsync(EventLoading, e.asyncEvent(EventLoading, percent))
		})
		if err != nil {
			Logger().Error("asset load failed", "err", err)
			e.events.EmitAsync(EventFault, e.asyncEvent(EventFault, fmt.Errorf("load assets: %w", err)))
			return
		}
		e.assets.Store(reg)
		e.events.EmitAsync(EventReady, e.asyncEvent(EventReady, reg))
	}()
}

func (e *Engine) asyncEvent(typ string, payload any) *Event {
	ev := NewEngineEvent(e, typ, payload)
	ev.Timestamp = Now()
	return ev
}

// Shutdown emits shutdown and releases the engine so a new one can be
// created. Further Frame calls do nothing.
func (e *Engine) Shutdown() {
	if e.closed {
		return
	}
	e.emit(EventShutdown, nil, Now())
	e.closed = true
	e.capture = nil
	e.prevTarget = nil
	running.Store(false)
	Logger().Info("engine shut down", "ticks", e.ticks)
}
