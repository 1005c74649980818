package canopy

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gogpu/gg"
	"github.com/google/go-cmp/cmp"

	"github.com/phanxgames/canopy/asset"
)

func newTestEngine(t *testing.T, cfg Config, surface Surface) *Engine {
	t.Helper()
	e, err := New(cfg, surface)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(e.Shutdown)
	return e
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 200, 200
	return cfg
}

// recordEvents subscribes to names and returns the slice of received types.
func recordEvents(e *Engine, names ...string) *[]string {
	var got []string
	for _, name := range names {
		e.Events().On(name, func(ev *Event) { got = append(got, ev.Type) })
	}
	return &got
}

func TestEngineSingleton(t *testing.T) {
	if _, err := New(Config{}, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("New(invalid) = %v, want ErrInvalidConfig", err)
	}

	e := newTestEngine(t, testConfig(), nil)
	if _, err := New(testConfig(), nil); !errors.Is(err, ErrEngineRunning) {
		t.Fatalf("second New = %v, want ErrEngineRunning", err)
	}

	e.Shutdown()
	e2, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New after Shutdown: %v", err)
	}
	e2.Shutdown()
}

func TestSchedulerTicksOnInterval(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	var ticks []float64
	e.Events().On(EventUpdate, func(ev *Event) { ticks = append(ticks, ev.Timestamp) })

	frames := []struct {
		ts   float64
		want bool
	}{
		{0, true},
		{10, false},
		{16.6, false},
		{16.7, true},
		{20, false},
		{33.3, false},
		{33.4, true},
		{100, true},
	}
	for _, f := range frames {
		if got := e.Frame(f.ts); got != f.want {
			t.Errorf("Frame(%v) = %v, want %v", f.ts, got, f.want)
		}
	}
	if diff := cmp.Diff([]float64{0, 16.7, 33.4, 100}, ticks); diff != "" {
		t.Errorf("tick timestamps (-want +got):\n%s", diff)
	}
	if e.Ticks() != 4 {
		t.Errorf("Ticks = %d, want 4", e.Ticks())
	}
}

func TestTickOrderAndReadyOnce(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	got := recordEvents(e, EventReady, EventUpdate, EventRender)

	layer := NewLayer("main")
	s := NewSprite("s", Rect{Width: 10, Height: 10})
	s.OnUpdate = func(float64) { *got = append(*got, "sprite") }
	layer.Add(s)
	e.Stage().AddLayer(layer)

	e.Frame(0)
	e.Frame(5) // no tick
	e.Frame(50)
	want := []string{EventReady, EventUpdate, "sprite", EventRender, EventUpdate, "sprite", EventRender}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("event order (-want +got):\n%s", diff)
	}
}

func TestFramePresentsOffscreen(t *testing.T) {
	cfg := testConfig()
	cfg.ClearColor = Color{0, 0, 1, 1}
	e := newTestEngine(t, cfg, nil)
	layer := NewLayer("main")
	s := NewSprite("red", Rect{X: 10, Y: 10, Width: 20, Height: 20})
	s.Fill = Color{1, 0, 0, 1}
	layer.Add(s)
	e.Stage().AddLayer(layer)

	e.Frame(0)
	surface := e.Surface().(*CanvasSurface)
	if surface.Blits() != 1 {
		t.Fatalf("Blits = %d, want 1", surface.Blits())
	}
	if r, g, b, _ := pixel(surface.Image(), 20, 20); r != 255 || g != 0 || b != 0 {
		t.Errorf("sprite pixel = (%d,%d,%d), want red", r, g, b)
	}
	if r, g, b, _ := pixel(surface.Image(), 100, 100); r != 0 || g != 0 || b != 255 {
		t.Errorf("background pixel = (%d,%d,%d), want clear color", r, g, b)
	}

	// The visible surface only changes on a tick.
	s.Fill = Color{0, 1, 0, 1}
	e.Frame(1)
	if r, _, _, _ := pixel(surface.Image(), 20, 20); r != 255 {
		t.Error("surface changed without a tick")
	}
	e.Frame(20)
	if _, g, _, _ := pixel(surface.Image(), 20, 20); g != 255 {
		t.Error("surface not updated after tick")
	}
}

func TestDebugOverlay(t *testing.T) {
	cfg := testConfig()
	cfg.Debug = true
	cfg.DebugSamples = 2
	e := newTestEngine(t, cfg, nil)
	for _, ts := range []float64{0, 20, 40} {
		e.Frame(ts)
	}
	want := "20.00ms 50.0/60 fps"
	if got := e.Surface().(*CanvasSurface).LastOverlay(); got != want {
		t.Errorf("overlay = %q, want %q", got, want)
	}
	if got := e.Overlay(); got != want {
		t.Errorf("Overlay() = %q, want %q", got, want)
	}

	// The window slides: only the two latest intervals count.
	e.Frame(80)
	if got := e.Overlay(); got != "30.00ms 33.3/60 fps" {
		t.Errorf("overlay after slide = %q", got)
	}
}

func TestOverlayOffWithoutDebug(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	e.Frame(0)
	e.Frame(20)
	if got := e.Surface().(*CanvasSurface).LastOverlay(); got != "" {
		t.Errorf("overlay = %q without debug", got)
	}
}

func twoSprites(e *Engine, trace *[]string) (*Sprite, *Sprite) {
	layer := NewLayer("main")
	a := NewSprite("a", Rect{Width: 50, Height: 50})
	b := NewSprite("b", Rect{X: 100, Y: 100, Width: 50, Height: 50})
	for _, s := range []*Sprite{a, b} {
		s.OnMouse = func(ev *Event) { *trace = append(*trace, ev.Type+":"+ev.Target.ID()) }
		layer.Add(s)
	}
	e.Stage().AddLayer(layer)
	return a, b
}

func TestEnterLeave(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	var trace []string
	twoSprites(e, &trace)
	engineEvents := recordEvents(e, EventMouseMove, EventMouseEnter, EventMouseLeave)

	e.PointerMove(10, 10, 0)
	e.PointerMove(20, 20, 0)
	e.PointerMove(120, 120, 0)
	e.PointerMove(180, 180, 0)

	want := []string{
		"mousemove:a", "mouseenter:a",
		"mousemove:a",
		"mousemove:b", "mouseleave:a", "mouseenter:b",
		"mouseleave:b",
	}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Errorf("sprite trace (-want +got):\n%s", diff)
	}
	wantEngine := []string{
		EventMouseEnter, EventMouseMove,
		EventMouseMove,
		EventMouseLeave, EventMouseEnter, EventMouseMove,
		EventMouseLeave, EventMouseMove,
	}
	if diff := cmp.Diff(wantEngine, *engineEvents); diff != "" {
		t.Errorf("engine events (-want +got):\n%s", diff)
	}
}

func TestPointerCapture(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	var trace []string
	a, _ := twoSprites(e, &trace)
	var contexts []any
	a.OnMouse = func(ev *Event) {
		trace = append(trace, ev.Type+":a")
		if ev.Type == EventMouseDown {
			ev.Capture("drag")
		}
		if ev.Captured {
			contexts = append(contexts, ev.CaptureContext)
		}
	}

	down := e.PointerDown(10, 10, MouseButtonLeft, 0)
	if e.Captured() != a || !down.Captured {
		t.Fatalf("capture not started: %v", e.Captured())
	}
	// Over b, but routed to a.
	move := e.PointerMove(120, 120, 0)
	if move.Target != a {
		t.Errorf("captured move target = %v, want a", move.Target)
	}
	e.PointerUp(190, 190, MouseButtonLeft, 0)
	if e.Captured() != nil {
		t.Error("capture not released on mouseup")
	}
	e.PointerMove(120, 120, 0)

	want := []string{
		"mousedown:a", "mouseenter:a",
		"mousemove:a",
		"mouseup:a",
		"mousemove:b", "mouseleave:a", "mouseenter:b",
	}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Errorf("trace (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"drag", "drag", "drag"}, contexts); diff != "" {
		t.Errorf("capture contexts (-want +got):\n%s", diff)
	}
}

func TestCaptureReleasedByHook(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	var trace []string
	a, b := twoSprites(e, &trace)
	a.OnMouse = func(ev *Event) {
		switch {
		case ev.Type == EventMouseDown:
			ev.Capture(nil)
		case ev.Type == EventMouseMove && ev.Captured:
			ev.Release()
		}
	}
	e.PointerDown(10, 10, MouseButtonLeft, 0)
	e.PointerMove(120, 120, 0) // delivered to a, which releases
	if e.Captured() != nil {
		t.Fatal("capture still held after Release")
	}
	if ev := e.PointerMove(121, 121, 0); ev.Target != b {
		t.Errorf("target = %v, want b", ev.Target)
	}
}

func TestTouchUsesSurfaceOrigin(t *testing.T) {
	surface := NewCanvasSurface(200, 200)
	surface.SetOrigin(100, 50)
	e := newTestEngine(t, testConfig(), surface)
	layer := NewLayer("main")
	s := NewSprite("s", Rect{Width: 20, Height: 20})
	var got []TouchPoint
	s.OnTouch = func(ev *Event) {
		got = append(got, ev.Touches...)
		if ev.Type == EventTouchStart {
			ev.Capture(nil)
		}
	}
	layer.Add(s)
	e.Stage().AddLayer(layer)

	ev := e.TouchStart([]TouchPoint{{ID: 7, X: 110, Y: 60}}, 0)
	if ev.Target != s {
		t.Fatalf("touchstart target = %v", ev.Target)
	}
	if ev.X != 10 || ev.Y != 10 || ev.DeviceX != 110 || ev.DeviceY != 60 {
		t.Errorf("coords canvas=(%v,%v) device=(%v,%v)", ev.X, ev.Y, ev.DeviceX, ev.DeviceY)
	}
	e.TouchMove([]TouchPoint{{ID: 7, X: 290, Y: 240}}, 0)
	e.TouchEnd([]TouchPoint{{ID: 7, X: 290, Y: 240}}, 0)
	if e.Captured() != nil {
		t.Error("capture not released on touchend")
	}
	want := []TouchPoint{{7, 10, 10}, {7, 190, 190}, {7, 190, 190}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("touches (-want +got):\n%s", diff)
	}
}

func TestKeyboardRouting(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	hidden := NewLayer("hidden")
	hidden.Visible = false
	front := NewSprite("front", Rect{})
	front.OnKeyboard = func(*Event) { t.Error("hidden layer got a key") }
	hidden.Add(front)

	main := NewLayer("main")
	plain := NewSprite("plain", Rect{})
	var keys []string
	receiver := NewSprite("receiver", Rect{})
	receiver.OnKeyboard = func(ev *Event) {
		keys = append(keys, ev.Type+":"+ev.Key)
		if ev.Repeat {
			keys = append(keys, "repeat")
		}
	}
	main.Add(receiver)
	main.Add(plain)
	e.Stage().AddLayer(main)
	e.Stage().AddLayer(hidden)

	engineKeys := recordEvents(e, EventKeyDown, EventKeyUp)
	if ev := e.KeyDown("A", false, ModShift); ev.Target != receiver || !ev.Modifiers.Has(ModShift) {
		t.Errorf("keydown target=%v mods=%v", ev.Target, ev.Modifiers)
	}
	e.KeyDown("A", true, 0)
	e.KeyUp("A", 0)
	if diff := cmp.Diff([]string{"keydown:A", "keydown:A", "repeat", "keyup:A"}, keys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if len(*engineKeys) != 3 {
		t.Errorf("engine key events = %v", *engineKeys)
	}
}

func TestVisibilitySuspendsAnimations(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	layer := NewLayer("main")
	s := NewSprite("s", Rect{Width: 10, Height: 10})
	anim := NewPositionAnimation(gg.Pt(0, 0), gg.Pt(100, 0), 1000, false)
	s.AddAnimation(anim)
	anim.Start()
	layer.Add(s)
	e.Stage().AddLayer(layer)
	var states []VisibilityState
	for _, name := range []string{EventHidden, EventVisible} {
		e.Events().On(name, func(ev *Event) { states = append(states, ev.Payload.(VisibilityState)) })
	}

	e.Frame(0)
	e.Frame(400)
	if x := s.Position().X; !approxEqual(x, 40, 1e-4) {
		t.Fatalf("x at 400 = %v, want 40", x)
	}

	e.SetVisibility(false, 400)
	e.SetVisibility(false, 500) // no-op
	if anim.State() != StateSuspended {
		t.Fatalf("state = %v, want suspended", anim.State())
	}
	e.Frame(3000)
	if x := s.Position().X; !approxEqual(x, 40, 1e-4) {
		t.Errorf("x while hidden = %v, want 40", x)
	}

	e.SetVisibility(true, 5400)
	e.Frame(5500)
	if x := s.Position().X; !approxEqual(x, 50, 1e-4) {
		t.Errorf("x at 5500 = %v, want 50", x)
	}
	want := []VisibilityState{{Visible: false, Timestamp: 400}, {Visible: true, Timestamp: 5400}}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Errorf("visibility events (-want +got):\n%s", diff)
	}
	if !e.Visible() {
		t.Error("Visible() = false")
	}
}

func TestVisibilityReachesHiddenLayers(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	layer := NewLayer("hidden")
	layer.Visible = false
	s := NewSprite("s", Rect{})
	var notices []string
	s.OnNotice = func(ev *Event) { notices = append(notices, ev.Type) }
	layer.Add(s)
	e.Stage().AddLayer(layer)

	e.SetVisibility(false, 10)
	e.SetOnline(false)
	e.SetOnline(false)
	e.SetOnline(true)
	want := []string{NoticeVisibilityChanged, NoticeOnlineChanged, NoticeOnlineChanged}
	if diff := cmp.Diff(want, notices); diff != "" {
		t.Errorf("notices (-want +got):\n%s", diff)
	}
}

func TestBroadcastCustomNotice(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	layer := NewLayer("main")
	var got []any
	for _, id := range []string{"a", "b"} {
		s := NewSprite(id, Rect{})
		s.OnNotice = func(ev *Event) { got = append(got, ev.Payload) }
		layer.Add(s)
	}
	e.Stage().AddLayer(layer)
	var emitted int
	e.Events().On("score", func(*Event) { emitted++ })

	ev := e.Broadcast("score", 10)
	if ev.Target != nil {
		t.Errorf("broadcast claimed by %v", ev.Target)
	}
	if diff := cmp.Diff([]any{10, 10}, got); diff != "" {
		t.Errorf("payloads (-want +got):\n%s", diff)
	}
	if emitted != 1 {
		t.Errorf("engine emitted %d times", emitted)
	}
}

// frameUntil drives Frame until done reports true or the deadline passes.
func frameUntil(t *testing.T, e *Engine, done func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	ts := 0.0
	for !done() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for load")
		}
		e.Frame(ts)
		ts += 20
		time.Sleep(time.Millisecond)
	}
}

func TestLoadEmitsProgressThenReady(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	fsys := fstest.MapFS{
		"a.txt": {Data: []byte("alpha")},
		"b.bin": {Data: []byte{1, 2, 3}},
	}
	l := asset.NewLoader(asset.FSSource{FS: fsys},
		asset.Resource{Name: "a", Kind: asset.KindText, Path: "a.txt"},
		asset.Resource{Name: "b", Kind: asset.KindBlob, Path: "b.bin"},
	)
	var progress []float64
	var ready *asset.Registry
	e.Events().On(EventLoading, func(ev *Event) { progress = append(progress, ev.Payload.(float64)) })
	e.Events().On(EventReady, func(ev *Event) { ready, _ = ev.Payload.(*asset.Registry) })
	e.Events().On(EventFault, func(ev *Event) { t.Errorf("fault: %v", ev.Payload) })

	e.Load(context.Background(), l)
	frameUntil(t, e, func() bool { return ready != nil })

	if diff := cmp.Diff([]float64{50, 100}, progress); diff != "" {
		t.Errorf("progress (-want +got):\n%s", diff)
	}
	if e.Assets() != ready {
		t.Error("Assets() does not return the loaded registry")
	}
	if s, err := asset.Get[string](ready, asset.KindText, "a"); err != nil || s != "alpha" {
		t.Errorf("Get text = %q, %v", s, err)
	}
}

func TestLoadFaults(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	l := asset.NewLoader(asset.FSSource{FS: fstest.MapFS{}},
		asset.Resource{Name: "missing", Kind: asset.KindText, Path: "missing.txt"})
	var fault error
	readies := 0
	e.Events().On(EventFault, func(ev *Event) { fault, _ = ev.Payload.(error) })
	e.Events().On(EventReady, func(*Event) { readies++ })

	e.Load(context.Background(), l)
	frameUntil(t, e, func() bool { return fault != nil })

	var le *asset.LoadError
	if !errors.As(fault, &le) || le.Resource.Name != "missing" {
		t.Errorf("fault = %v, want *asset.LoadError for missing", fault)
	}
	if readies != 0 {
		t.Errorf("ready emitted %d times after a failed load", readies)
	}
}

func TestLoadLeavesLoaderUntouched(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	expectPanic(t, "nil loader", func() { e.Load(context.Background(), nil) })

	l := asset.NewLoader(asset.FSSource{FS: fstest.MapFS{"a.txt": {Data: []byte("alpha")}}},
		asset.Resource{Name: "a", Kind: asset.KindText, Path: "a.txt"})
	var ready bool
	e.Events().On(EventReady, func(ev *Event) { _, ready = ev.Payload.(*asset.Registry) })
	e.Load(context.Background(), l)
	frameUntil(t, e, func() bool { return ready })
	if l.Logger != nil {
		t.Error("Load set the caller's loader logger")
	}
}

func TestShutdown(t *testing.T) {
	e := newTestEngine(t, testConfig(), nil)
	got := recordEvents(e, EventShutdown, EventUpdate)
	e.Frame(0)
	e.Shutdown()
	e.Shutdown()
	if e.Frame(100) {
		t.Error("Frame ticked after Shutdown")
	}
	if diff := cmp.Diff([]string{EventUpdate, EventShutdown}, *got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	if !e.Closed() {
		t.Error("Closed() = false")
	}
}
