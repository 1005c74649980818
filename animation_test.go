package canopy

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/gg"
)

func TestPlaybackStateMachine(t *testing.T) {
	a := NewAngleAnimation(0, 1, 100, false)
	if a.State() != StateStop {
		t.Fatalf("initial state = %v", a.State())
	}

	// Suspend and Resume outside their source states are no-ops.
	a.SuspendAt(5)
	if a.State() != StateStop {
		t.Error("Suspend from Stop should be a no-op")
	}
	if err := a.ResumeAt(5); err != nil || a.State() != StateStop {
		t.Error("Resume from Stop should be a no-op")
	}

	a.Start()
	if a.State() != StatePlaying {
		t.Fatalf("state after Start = %v", a.State())
	}
	s := NewSprite("s", Rect{})
	a.Update(s, 1000)
	if a.StartTime() != 1000 || a.EndTime() != 1100 {
		t.Errorf("window = [%v, %v], want [1000, 1100]", a.StartTime(), a.EndTime())
	}

	// Start while playing does not restart.
	a.Start()
	a.Update(s, 1050)
	if a.StartTime() != 1000 {
		t.Errorf("Start while playing moved origin to %v", a.StartTime())
	}

	if err := a.ResumeAt(1060); err != nil || a.StartTime() != 1000 {
		t.Error("Resume while playing should be a no-op")
	}

	a.SuspendAt(1060)
	if a.State() != StateSuspended || a.SuspendTime() != 1060 {
		t.Errorf("state=%v suspend=%v", a.State(), a.SuspendTime())
	}
	a.SuspendAt(1070)
	if a.SuspendTime() != 1060 {
		t.Error("second Suspend should not move the suspend time")
	}

	a.Stop()
	if a.State() != StateStop || a.SuspendTime() != 0 {
		t.Errorf("after Stop: state=%v suspend=%v", a.State(), a.SuspendTime())
	}
}

func TestFirstFrameSnapsToStart(t *testing.T) {
	s := NewSprite("s", Rect{})
	a := NewPositionAnimation(gg.Pt(10, 20), gg.Pt(110, 220), 1000, false)
	a.Restart()
	a.Update(s, 5000)
	if p := s.Position(); p != gg.Pt(10, 20) {
		t.Errorf("first frame position = %v, want start value", p)
	}
	a.Update(s, 5250)
	if p := s.Position(); !approxEqual(p.X, 35, 1e-4) || !approxEqual(p.Y, 70, 1e-4) {
		t.Errorf("quarter position = %v, want (35, 70)", p)
	}
	a.Update(s, 7000)
	if p := s.Position(); p != gg.Pt(110, 220) {
		t.Errorf("end position = %v, want exact end value", p)
	}
	if a.State() != StateStop {
		t.Errorf("state = %v, want stop", a.State())
	}
	// Stopped animations leave the target alone.
	s.SetPosition(gg.Pt(0, 0))
	a.Update(s, 8000)
	if s.Position() != gg.Pt(0, 0) {
		t.Error("stopped animation wrote to its target")
	}
}

func TestResumePreservesElapsed(t *testing.T) {
	tests := []struct {
		name              string
		suspend, resume   float64
		check, wantFactor float64
	}{
		{"short pause", 300, 350, 450, 0.4},
		{"long pause", 400, 10400, 10500, 0.5},
		{"pause at start", 0, 2000, 2100, 0.1},
		{"zero length pause", 500, 500, 600, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSprite("s", Rect{})
			a := NewOpacityAnimation(0, 1, 1000, false)
			a.Restart()
			a.Update(s, 0)

			a.SuspendAt(tt.suspend)
			if got := a.Elapsed(tt.suspend + 999); got != tt.suspend {
				t.Errorf("Elapsed while suspended = %v, want %v", got, tt.suspend)
			}
			// Updates while suspended change nothing.
			before := s.Opacity()
			a.Update(s, tt.suspend+10)
			if s.Opacity() != before {
				t.Error("suspended animation advanced")
			}

			if err := a.ResumeAt(tt.resume); err != nil {
				t.Fatalf("ResumeAt: %v", err)
			}
			if a.EndTime()-a.StartTime() != a.Duration() {
				t.Errorf("end - start = %v, want duration", a.EndTime()-a.StartTime())
			}
			if got, want := a.Elapsed(tt.resume), tt.suspend; got != want {
				t.Errorf("Elapsed at resume = %v, want %v", got, want)
			}
			a.Update(s, tt.check)
			if !approxEqual(s.Opacity(), tt.wantFactor, 1e-6) {
				t.Errorf("opacity = %v, want %v", s.Opacity(), tt.wantFactor)
			}
		})
	}
}

func TestResumeBeforeStartFails(t *testing.T) {
	s := NewSprite("s", Rect{})
	a := NewAngleAnimation(0, 1, 100, false)
	a.Restart()
	a.Update(s, 500)
	a.SuspendAt(400) // timestamps went backwards
	err := a.ResumeAt(600)
	if !errors.Is(err, ErrResumeBeforeStart) {
		t.Fatalf("err = %v, want ErrResumeBeforeStart", err)
	}
	if a.State() != StateSuspended {
		t.Errorf("state = %v, want suspended after failed resume", a.State())
	}
}

func TestSuspendBeforeFirstFrame(t *testing.T) {
	s := NewSprite("s", Rect{})
	a := NewAngleAnimation(0, 1, 100, false)
	a.Restart()
	a.SuspendAt(50)
	if err := a.ResumeAt(70); err != nil {
		t.Fatal(err)
	}
	a.Update(s, 200)
	if a.StartTime() != 200 || s.Angle != 0 {
		t.Errorf("start=%v angle=%v, want origin set by first update", a.StartTime(), s.Angle)
	}
}

func TestLoopSlidesWindow(t *testing.T) {
	s := NewSprite("s", Rect{})
	a := NewAngleAnimation(0, 10, 100, true)
	a.Start()
	a.Update(s, 0)
	a.Update(s, 100)
	if s.Angle != 10 || a.State() != StatePlaying {
		t.Errorf("angle=%v state=%v, want end value and still playing", s.Angle, a.State())
	}
	if a.StartTime() != 100 || a.EndTime() != 200 {
		t.Errorf("window = [%v, %v], want [100, 200]", a.StartTime(), a.EndTime())
	}
	a.Update(s, 130)
	if !approxEqual(s.Angle, 3, 1e-5) {
		t.Errorf("angle = %v, want 3", s.Angle)
	}
	a.SetLoop(false)
	a.Update(s, 250)
	if a.State() != StateStop || s.Angle != 10 {
		t.Errorf("state=%v angle=%v", a.State(), s.Angle)
	}
}

func TestColorAnimation(t *testing.T) {
	s := NewSprite("s", Rect{})
	a := NewColorAnimation(Color{0, 0, 0, 1}, Color{1, 0.5, 0, 0}, 100, false)
	s.AddAnimation(a)
	a.Start()
	s.Update(0)
	s.Update(50)
	want := Color{0.5, 0.25, 0, 0.5}
	got := s.Fill
	if !approxEqual(got.R, want.R, 1e-6) || !approxEqual(got.G, want.G, 1e-6) || !approxEqual(got.A, want.A, 1e-6) {
		t.Errorf("Fill = %v, want %v", got, want)
	}

	img := NewImageSprite("img", gg.ImageBufFromImage(image.NewRGBA(image.Rect(0, 0, 2, 2))), 0, 0)
	if err := a.Accepts(img); !errors.Is(err, ErrIncompatibleTarget) {
		t.Errorf("Accepts(image) = %v, want ErrIncompatibleTarget", err)
	}
}

func TestSizeAndBasePointAnimations(t *testing.T) {
	s := NewSprite("s", Rect{X: 10, Y: 10, Width: 10, Height: 10})
	size := NewSizeAnimation(gg.Pt(10, 10), gg.Pt(-10, 30), 100, false)
	size.Start()
	size.Update(s, 0)
	size.Update(s, 100)
	if r := s.Rect(); r != (Rect{X: 0, Y: 10, Width: 10, Height: 30}) {
		t.Errorf("rect = %v, want normalized end size", r)
	}

	bp := NewBasePointAnimation(gg.Pt(0, 0), gg.Pt(4, 8), 100, false)
	bp.Start()
	bp.Update(s, 0)
	bp.Update(s, 100)
	if s.BasePoint() != gg.Pt(4, 8) || s.Rect().X != 0 {
		t.Errorf("basePoint=%v rect=%v", s.BasePoint(), s.Rect())
	}
}

func TestFloatAnimationCustomSetter(t *testing.T) {
	var got float64
	a := NewFloatAnimation(0, 100, 200, false, func(_ *Sprite, v float64) { got = v })
	a.Start()
	a.Update(nil, 0)
	a.Update(nil, 50)
	if !approxEqual(got, 25, 1e-4) {
		t.Errorf("got %v, want 25", got)
	}
	if a.From() != 0 || a.To() != 100 {
		t.Error("From/To mismatch")
	}
}

func TestTweenFullPrecision(t *testing.T) {
	tests := []struct {
		name               string
		from, to, duration float64
		elapsed            float64
	}{
		{"large distance", 0, 1e6, 3, 1},
		{"one day", 0, 86400000, 86400000, 12345678.5},
		{"offset start", -250, 750, 7, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got float64
			a := NewFloatAnimation(tt.from, tt.to, tt.duration, false, func(_ *Sprite, v float64) { got = v })
			a.Start()
			a.Update(nil, 1000)
			a.Update(nil, 1000+tt.elapsed)
			want := tt.from + (tt.to-tt.from)*tt.elapsed/tt.duration
			if !approxEqual(got, want, 1e-6) {
				t.Errorf("got %.9f, want %.9f", got, want)
			}
		})
	}
}

func testFrames(n int) []*gg.ImageBuf {
	frames := make([]*gg.ImageBuf, n)
	for i := range frames {
		frames[i] = gg.ImageBufFromImage(image.NewRGBA(image.Rect(0, 0, i+1, 1)))
	}
	return frames
}

func TestFrameAnimation(t *testing.T) {
	frames := testFrames(4)
	s := NewImageSprite("img", frames[0], 0, 0)
	a := NewFrameAnimation(frames, 400, false)
	s.AddAnimation(a)
	a.Start()

	tests := []struct {
		ts   float64
		want int
	}{
		{0, 0},
		{99, 0},
		{150, 1},
		{250, 2},
		{399, 3},
		{400, 3},
	}
	for _, tt := range tests {
		s.Update(tt.ts)
		if s.Texture != frames[tt.want] {
			t.Errorf("ts=%v: frame %d expected", tt.ts, tt.want)
		}
	}
	if a.State() != StateStop {
		t.Errorf("state = %v, want stop", a.State())
	}
}

func TestFrameAnimationEmptyPanics(t *testing.T) {
	expectPanic(t, "empty frames", func() { NewFrameAnimation(nil, 100, false) })
	expectPanic(t, "negative duration", func() { NewAngleAnimation(0, 1, -1, false) })
}

func TestPackageSuspendResumeUseDefaultClock(t *testing.T) {
	clock := NewManualClock(1000)
	SetDefaultClock(clock)
	defer SetDefaultClock(nil)

	s := NewSprite("s", Rect{})
	a := NewAngleAnimation(0, 1, 100, false)
	a.Start()
	a.Update(s, Now())
	clock.Advance(40)
	Suspend(a)
	clock.Advance(500)
	if err := Resume(a); err != nil {
		t.Fatal(err)
	}
	if got := a.Elapsed(Now()); got != 40 {
		t.Errorf("Elapsed = %v, want 40", got)
	}
}
