package canopy

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestRectNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"positive", Rect{10, 20, 30, 40}, Rect{10, 20, 30, 40}},
		{"negative width", Rect{10, 20, -30, 40}, Rect{-20, 20, 30, 40}},
		{"negative height", Rect{10, 20, 30, -40}, Rect{10, -20, 30, 40}},
		{"both negative", Rect{0, 0, -5, -5}, Rect{-5, -5, 5, 5}},
		{"zero", Rect{1, 1, 0, 0}, Rect{1, 1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got != tt.want {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got.Width < 0 || got.Height < 0 {
				t.Errorf("negative extent after Normalize: %v", got)
			}
			// Same corner set before and after.
			if got.Area() != tt.in.Area() {
				t.Errorf("Area changed: %v -> %v", tt.in.Area(), got.Area())
			}
		})
	}
}

func TestRectContainsStrict(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 20, 20, true},
		{"just inside", 10.001, 29.999, true},
		{"left edge", 10, 20, false},
		{"right edge", 30, 20, false},
		{"top edge", 20, 10, false},
		{"bottom edge", 20, 30, false},
		{"corner", 10, 10, false},
		{"outside", 50, 50, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRectCorners(t *testing.T) {
	c := Rect{X: 1, Y: 2, Width: 3, Height: 4}.Corners()
	if c[0].X != 1 || c[0].Y != 2 || c[2].X != 4 || c[2].Y != 6 {
		t.Errorf("Corners = %v", c)
	}
}

func TestKeyModifiersHas(t *testing.T) {
	m := ModShift | ModCtrl
	if !m.Has(ModShift) || !m.Has(ModShift|ModCtrl) {
		t.Error("expected shift and ctrl")
	}
	if m.Has(ModAlt) {
		t.Error("alt should not be set")
	}
}

func TestEventKindHiddenPredicate(t *testing.T) {
	tests := []struct {
		kind EventKind
		want bool
	}{
		{KindNotice, true},
		{KindMouse, false},
		{KindTouch, false},
		{KindKeyboard, false},
		{KindGeneric, false},
		{EventKind(200), false},
	}
	for _, tt := range tests {
		if got := tt.kind.dispatchesWhenHidden(); got != tt.want {
			t.Errorf("%v.dispatchesWhenHidden() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestEventDeriveResetsDispatchState(t *testing.T) {
	s := NewSprite("s", Rect{})
	ev := NewMouseEvent(nil, EventMouseMove, 3, 4, MouseButtonLeft, ModAlt)
	ev.claim(s)
	ev.Capture("ctx")

	d := ev.derive(EventMouseEnter)
	if d.Type != EventMouseEnter || d.X != 3 || d.Y != 4 || d.Modifiers != ModAlt {
		t.Errorf("derived fields wrong: %+v", d)
	}
	if d.Target != nil || d.StopPropagation || d.Captured || d.CaptureContext != nil {
		t.Errorf("derived dispatch state not reset: %+v", d)
	}
	if ev.Target != s {
		t.Error("original event modified")
	}
}

func TestNewTouchEventUsesFirstTouch(t *testing.T) {
	ev := NewTouchEvent(nil, EventTouchStart, []TouchPoint{{ID: 7, X: 5, Y: 6}, {ID: 8, X: 50, Y: 60}}, 0)
	if ev.X != 5 || ev.Y != 6 {
		t.Errorf("touch coords = (%v, %v), want (5, 6)", ev.X, ev.Y)
	}
}
