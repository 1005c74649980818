package canopy

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"
)

// PlayState is the play state of an Animation.
type PlayState uint8

const (
	StateStop      PlayState = iota // initial and terminal state
	StateSuspended                  // paused; elapsed time is preserved
	StatePlaying                    // interpolating
)

func (s PlayState) String() string {
	switch s {
	case StateStop:
		return "stop"
	case StateSuspended:
		return "suspended"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// ErrResumeBeforeStart is returned by Resume when the recorded suspend
// timestamp precedes the start timestamp, which means the timestamps fed to
// the animation went backwards.
var ErrResumeBeforeStart = errors.New("canopy: suspend time precedes start time")

// ErrIncompatibleTarget is wrapped by Accepts when an animation cannot drive
// a given Sprite.
var ErrIncompatibleTarget = errors.New("canopy: incompatible animation target")

// Animation drives properties of a Sprite from timestamps in milliseconds.
// Timestamps must come from one monotonic source (the engine's frame
// timestamps or the default Clock).
type Animation interface {
	// Update advances the animation to timestamp and writes the
	// interpolated value into target.
	Update(target *Sprite, timestamp float64)
	// Start plays the animation from the beginning unless it is already playing.
	Start()
	// Restart plays the animation from the beginning; the next Update
	// establishes the time origin.
	Restart()
	// Stop halts the animation and discards its progress.
	Stop()
	// SuspendAt pauses a playing animation at timestamp.
	SuspendAt(timestamp float64)
	// ResumeAt continues a suspended animation at timestamp, preserving the
	// fraction already played.
	ResumeAt(timestamp float64) error
	// State returns the current play state.
	State() PlayState
	// Accepts reports whether the animation can drive target.
	Accepts(target *Sprite) error
}

// Suspend pauses a at the default clock's current time.
func Suspend(a Animation) {
	a.SuspendAt(Now())
}

// Resume continues a at the default clock's current time.
func Resume(a Animation) error {
	return a.ResumeAt(Now())
}

// chainable is implemented by animations that can start at an explicit time
// origin instead of the next Update's timestamp. KeyframeAnimation uses it to
// start the next frame exactly where the previous one ended.
type chainable interface {
	startAt(origin float64)
	EndTime() float64
}

// looper is implemented by animations whose looping can be switched off.
type looper interface {
	SetLoop(loop bool)
}

// --- Playback ---

type phase uint8

const (
	phaseIdle    phase = iota // not playing; nothing to apply
	phaseFirst                // first frame after (re)start; apply the start value
	phaseRunning              // apply the interpolated value
	phaseDone                 // reached the end; apply the end value
)

// Playback is the timing state machine shared by every property animation.
// Embed it to build a custom Animation; the embedding type then only has to
// provide Update and Accepts.
type Playback struct {
	duration    float64
	loop        bool
	state       PlayState
	firstFrame  bool
	startTime   float64
	endTime     float64
	suspendTime float64
}

// NewPlayback creates a stopped Playback lasting duration milliseconds.
func NewPlayback(duration float64, loop bool) Playback {
	if duration < 0 {
		panic("canopy: negative animation duration")
	}
	return Playback{duration: duration, loop: loop}
}

// Duration returns the length of one play-through in milliseconds.
func (p *Playback) Duration() float64 { return p.duration }

// Loop reports whether the animation repeats.
func (p *Playback) Loop() bool { return p.loop }

// SetLoop enables or disables repetition.
func (p *Playback) SetLoop(loop bool) { p.loop = loop }

// State returns the current play state.
func (p *Playback) State() PlayState { return p.state }

// StartTime returns the current time origin.
func (p *Playback) StartTime() float64 { return p.startTime }

// EndTime returns the timestamp at which the current play-through ends.
func (p *Playback) EndTime() float64 { return p.endTime }

// SuspendTime returns the suspend timestamp, or 0 unless suspended.
func (p *Playback) SuspendTime() float64 { return p.suspendTime }

// Elapsed returns the playing time accumulated in the current play-through
// as of timestamp. Suspended time is not counted.
func (p *Playback) Elapsed(timestamp float64) float64 {
	switch {
	case p.state == StateStop || p.firstFrame:
		return 0
	case p.state == StateSuspended:
		return p.suspendTime - p.startTime
	default:
		return timestamp - p.startTime
	}
}

// Start restarts the animation unless it is already playing.
func (p *Playback) Start() {
	if p.state != StatePlaying {
		p.Restart()
	}
}

// Restart plays from the beginning. The next advance sets the time origin.
func (p *Playback) Restart() {
	p.state = StatePlaying
	p.firstFrame = true
	p.suspendTime = 0
}

// Stop halts playback.
func (p *Playback) Stop() {
	p.state = StateStop
	p.suspendTime = 0
	p.firstFrame = false
}

// SuspendAt pauses a playing animation. Other states are left untouched.
func (p *Playback) SuspendAt(timestamp float64) {
	if p.state != StatePlaying {
		return
	}
	p.state = StateSuspended
	p.suspendTime = timestamp
}

// ResumeAt continues a suspended animation, shifting its time origin forward
// by exactly the paused duration. It is a no-op unless suspended.
func (p *Playback) ResumeAt(timestamp float64) error {
	if p.state != StateSuspended {
		return nil
	}
	if p.firstFrame {
		// Suspended before the first frame: nothing elapsed yet.
		p.state = StatePlaying
		p.suspendTime = 0
		return nil
	}
	if p.suspendTime < p.startTime {
		return fmt.Errorf("%w (suspend %.3f, start %.3f)", ErrResumeBeforeStart, p.suspendTime, p.startTime)
	}
	p.startTime = timestamp - (p.suspendTime - p.startTime)
	p.endTime = p.startTime + p.duration
	p.suspendTime = 0
	p.state = StatePlaying
	return nil
}

func (p *Playback) startAt(origin float64) {
	p.state = StatePlaying
	p.firstFrame = false
	p.suspendTime = 0
	p.startTime = origin
	p.endTime = origin + p.duration
}

// advance moves the state machine to timestamp and reports what the caller
// must apply. The fraction is only meaningful for phaseRunning.
func (p *Playback) advance(timestamp float64) (phase, float64) {
	if p.state != StatePlaying {
		return phaseIdle, 0
	}
	if p.firstFrame {
		p.firstFrame = false
		p.startTime = timestamp
		p.endTime = timestamp + p.duration
		return phaseFirst, 0
	}
	if timestamp >= p.endTime {
		if p.loop {
			p.startTime += p.duration
			p.endTime += p.duration
		} else {
			p.state = StateStop
		}
		return phaseDone, 1
	}
	return phaseRunning, (timestamp - p.startTime) / p.duration
}

// --- Tween ---

// Tween linearly interpolates one property of type T. The distance between
// the endpoints is computed once at construction.
type Tween[T any] struct {
	Playback
	from, to T
	distance T
	lerp     func(from, distance T, f float64) T
	set      func(target *Sprite, v T)
	accepts  func(target *Sprite) error
}

func newTween[T any](from, to T, duration float64, loop bool,
	sub func(a, b T) T, lerp func(from, distance T, f float64) T, set func(*Sprite, T)) *Tween[T] {
	return &Tween[T]{
		Playback: NewPlayback(duration, loop),
		from:     from,
		to:       to,
		distance: sub(to, from),
		lerp:     lerp,
		set:      set,
	}
}

// From returns the start value.
func (t *Tween[T]) From() T { return t.from }

// To returns the end value.
func (t *Tween[T]) To() T { return t.to }

// Update advances the tween and writes the value into target.
func (t *Tween[T]) Update(target *Sprite, timestamp float64) {
	switch ph, f := t.advance(timestamp); ph {
	case phaseFirst:
		t.set(target, t.from)
	case phaseRunning:
		t.set(target, t.lerp(t.from, t.distance, f))
	case phaseDone:
		t.set(target, t.to)
	}
}

// Accepts reports whether target can be driven by this tween.
func (t *Tween[T]) Accepts(target *Sprite) error {
	if t.accepts == nil {
		return nil
	}
	return t.accepts(target)
}

func subFloat(a, b float64) float64 { return a - b }

func lerpFloat(from, d, f float64) float64 { return from + d*f }

func subPoint(a, b gg.Point) gg.Point { return a.Sub(b) }

func lerpPoint(from, d gg.Point, f float64) gg.Point { return from.Add(d.Mul(f)) }

func subColor(a, b Color) Color { return a.sub(b) }

func lerpColor(from, d Color, f float64) Color { return from.lerp(d, f) }

// NewFloatAnimation animates an arbitrary scalar property through set.
func NewFloatAnimation(from, to, duration float64, loop bool, set func(target *Sprite, v float64)) *Tween[float64] {
	if set == nil {
		panic("canopy: nil setter")
	}
	return newTween(from, to, duration, loop, subFloat, lerpFloat, set)
}

// NewPositionAnimation animates Sprite.Position.
func NewPositionAnimation(from, to gg.Point, duration float64, loop bool) *Tween[gg.Point] {
	return newTween(from, to, duration, loop, subPoint, lerpPoint, func(s *Sprite, p gg.Point) {
		s.SetPosition(p)
	})
}

// NewAngleAnimation animates Sprite.Angle (radians).
func NewAngleAnimation(from, to, duration float64, loop bool) *Tween[float64] {
	return newTween(from, to, duration, loop, subFloat, lerpFloat, func(s *Sprite, v float64) {
		s.Angle = v
	})
}

// NewOpacityAnimation animates Sprite opacity.
func NewOpacityAnimation(from, to, duration float64, loop bool) *Tween[float64] {
	return newTween(from, to, duration, loop, subFloat, lerpFloat, func(s *Sprite, v float64) {
		s.SetOpacity(v)
	})
}

// NewSizeAnimation animates the rectangle width (X) and height (Y), keeping
// the top-left corner fixed.
func NewSizeAnimation(from, to gg.Point, duration float64, loop bool) *Tween[gg.Point] {
	return newTween(from, to, duration, loop, subPoint, lerpPoint, func(s *Sprite, p gg.Point) {
		s.SetSize(p.X, p.Y)
	})
}

// NewBasePointAnimation animates the base point, keeping the rectangle in place.
func NewBasePointAnimation(from, to gg.Point, duration float64, loop bool) *Tween[gg.Point] {
	return newTween(from, to, duration, loop, subPoint, lerpPoint, func(s *Sprite, p gg.Point) {
		s.SetBasePoint(p)
	})
}

// NewColorAnimation animates the fill color component-wise.
func NewColorAnimation(from, to Color, duration float64, loop bool) *Tween[Color] {
	t := newTween(from, to, duration, loop, subColor, lerpColor, func(s *Sprite, c Color) {
		s.Fill = c
	})
	t.accepts = func(s *Sprite) error {
		if s.Type != SpriteTypeShape && s.Type != SpriteTypeText {
			return fmt.Errorf("%w: color animation needs a shape or text sprite, %q is %s",
				ErrIncompatibleTarget, s.ID(), s.Type)
		}
		return nil
	}
	return t
}

// --- Frame sequence ---

// FrameAnimation steps an image Sprite's Texture through a sequence of
// frames, each shown for an equal share of the duration.
type FrameAnimation struct {
	Playback
	frames []*gg.ImageBuf
}

// NewFrameAnimation creates a frame-sequence animation. Panics if frames is empty.
func NewFrameAnimation(frames []*gg.ImageBuf, duration float64, loop bool) *FrameAnimation {
	if len(frames) == 0 {
		panic("canopy: frame animation needs at least one frame")
	}
	return &FrameAnimation{Playback: NewPlayback(duration, loop), frames: frames}
}

// Frames returns the frame list. The returned slice MUST NOT be mutated.
func (a *FrameAnimation) Frames() []*gg.ImageBuf { return a.frames }

// Update advances the sequence and sets the target's Texture.
func (a *FrameAnimation) Update(target *Sprite, timestamp float64) {
	switch ph, f := a.advance(timestamp); ph {
	case phaseFirst:
		target.Texture = a.frames[0]
	case phaseRunning:
		i := int(f * float64(len(a.frames)))
		if i >= len(a.frames) {
			i = len(a.frames) - 1
		}
		target.Texture = a.frames[i]
	case phaseDone:
		target.Texture = a.frames[len(a.frames)-1]
	}
}

// Accepts requires an image sprite, the only kind with a texture to swap.
func (a *FrameAnimation) Accepts(target *Sprite) error {
	if target.Type != SpriteTypeImage {
		return fmt.Errorf("%w: frame animation needs an image sprite, %q is %s",
			ErrIncompatibleTarget, target.ID(), target.Type)
	}
	return nil
}
