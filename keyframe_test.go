package canopy

import (
	"errors"
	"testing"
)

// newSequence builds A (100ms, angle 0->1) then B (200ms, angle 1->3).
func newSequence(loop bool) (*KeyframeAnimation, *Tween[float64], *Tween[float64]) {
	a := NewAngleAnimation(0, 1, 100, true)
	b := NewAngleAnimation(1, 3, 200, true)
	return NewKeyframeAnimation(loop, a, b), a, b
}

func TestKeyframeForcesFramesNonLooping(t *testing.T) {
	_, a, b := newSequence(true)
	if a.Loop() || b.Loop() {
		t.Error("frames should not loop")
	}
}

func TestKeyframeWrapsWithoutDrift(t *testing.T) {
	tests := []struct {
		name  string
		ticks []float64
	}{
		{"each boundary", []float64{0, 100, 300, 350}},
		{"coarse ticks", []float64{0, 120, 310, 350}},
		{"single jump", []float64{0, 350}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, a, b := newSequence(true)
			s := NewSprite("s", Rect{})
			s.AddAnimation(k)
			k.Start()
			for _, ts := range tt.ticks {
				s.Update(ts)
			}
			if k.Current() != 0 {
				t.Fatalf("current frame = %d, want 0 (A)", k.Current())
			}
			if a.State() != StatePlaying || b.State() != StateStop {
				t.Errorf("states A=%v B=%v", a.State(), b.State())
			}
			if a.StartTime() != 300 {
				t.Errorf("A restarted at %v, want 300 (end of B)", a.StartTime())
			}
			if got := a.Elapsed(350); got != 50 {
				t.Errorf("A elapsed = %v, want 50", got)
			}
			if !approxEqual(s.Angle, 0.5, 1e-6) {
				t.Errorf("angle = %v, want 0.5", s.Angle)
			}
		})
	}
}

func TestKeyframeSecondFrameProgress(t *testing.T) {
	k, _, b := newSequence(false)
	s := NewSprite("s", Rect{})
	k.Start()
	k.Update(s, 0)
	k.Update(s, 200)
	if k.Current() != 1 || b.StartTime() != 100 {
		t.Fatalf("current=%d B start=%v", k.Current(), b.StartTime())
	}
	if !approxEqual(s.Angle, 2, 1e-6) {
		t.Errorf("angle = %v, want 2 (halfway through B)", s.Angle)
	}
}

func TestKeyframeStopsWithoutLoop(t *testing.T) {
	k, a, b := newSequence(false)
	s := NewSprite("s", Rect{})
	k.Start()
	k.Update(s, 0)
	k.Update(s, 1000)
	if k.State() != StateStop {
		t.Errorf("state = %v, want stop", k.State())
	}
	if s.Angle != 3 {
		t.Errorf("angle = %v, want final value 3", s.Angle)
	}
	if k.EndTime() != 300 {
		t.Errorf("EndTime = %v, want 300", k.EndTime())
	}
	if a.State() != StateStop || b.State() != StateStop {
		t.Error("frames should be stopped")
	}
	k.Update(s, 2000)
	if s.Angle != 3 {
		t.Error("stopped sequence advanced")
	}
}

func TestKeyframeSuspendResume(t *testing.T) {
	k, _, b := newSequence(false)
	s := NewSprite("s", Rect{})
	k.Start()
	k.Update(s, 0)
	k.Update(s, 150) // B at 25%
	k.SuspendAt(150)
	if k.State() != StateSuspended || b.State() != StateSuspended {
		t.Fatalf("states K=%v B=%v", k.State(), b.State())
	}
	k.Update(s, 5000)
	if k.Current() != 1 {
		t.Error("suspended sequence advanced frames")
	}
	if err := k.ResumeAt(5000); err != nil {
		t.Fatal(err)
	}
	k.Update(s, 5050) // B at 50%
	if !approxEqual(s.Angle, 2, 1e-6) {
		t.Errorf("angle = %v, want 2", s.Angle)
	}
}

func TestKeyframeRestartRewinds(t *testing.T) {
	k, a, _ := newSequence(true)
	s := NewSprite("s", Rect{})
	k.Start()
	k.Update(s, 0)
	k.Update(s, 150)
	k.Restart()
	if k.Current() != 0 || a.State() != StatePlaying {
		t.Errorf("Restart did not rewind: current=%d A=%v", k.Current(), a.State())
	}
	k.Update(s, 1000)
	if a.StartTime() != 1000 || s.Angle != 0 {
		t.Errorf("A start=%v angle=%v after restart", a.StartTime(), s.Angle)
	}
	k.Stop()
	if k.State() != StateStop || a.State() != StateStop {
		t.Error("Stop should stop every frame")
	}
}

func TestKeyframeNested(t *testing.T) {
	inner := NewKeyframeAnimation(false,
		NewAngleAnimation(0, 1, 100, false),
		NewAngleAnimation(1, 2, 100, false))
	last := NewAngleAnimation(2, 4, 100, false)
	outer := NewKeyframeAnimation(false, inner, last)
	s := NewSprite("s", Rect{})
	outer.Start()
	outer.Update(s, 0)
	outer.Update(s, 250)
	if outer.Current() != 1 || last.StartTime() != 200 {
		t.Fatalf("current=%d last start=%v", outer.Current(), last.StartTime())
	}
	if !approxEqual(s.Angle, 3, 1e-6) {
		t.Errorf("angle = %v, want 3", s.Angle)
	}
}

func TestKeyframeAcceptsJoinsErrors(t *testing.T) {
	k := NewKeyframeAnimation(false,
		NewAngleAnimation(0, 1, 10, false),
		NewFrameAnimation(testFrames(1), 10, false))
	err := k.Accepts(NewSprite("shape", Rect{}))
	if !errors.Is(err, ErrIncompatibleTarget) {
		t.Errorf("err = %v, want ErrIncompatibleTarget", err)
	}
	if err := k.Accepts(NewImageSprite("img", testFrames(1)[0], 0, 0)); err != nil {
		t.Errorf("image sprite rejected: %v", err)
	}
	expectPanic(t, "empty", func() { NewKeyframeAnimation(true) })
	expectPanic(t, "nil", func() { NewKeyframeAnimation(true, nil) })
}
