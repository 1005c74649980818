package canopy

import "errors"

// KeyframeAnimation plays a sequence of animations one after another. Each
// frame is forced to play once; looping applies to the sequence as a whole.
// Only the current frame advances at any time.
//
// When a frame finishes, the next one starts at the finished frame's end
// time rather than at the timestamp that observed the end, so a sequence
// never drifts regardless of how coarse the update timestamps are.
type KeyframeAnimation struct {
	frames  []Animation
	index   int
	loop    bool
	state   PlayState
	lastEnd float64
}

// NewKeyframeAnimation creates a stopped sequence over frames. Panics if
// frames is empty or contains nil.
func NewKeyframeAnimation(loop bool, frames ...Animation) *KeyframeAnimation {
	if len(frames) == 0 {
		panic("canopy: keyframe animation needs at least one frame")
	}
	for _, f := range frames {
		if f == nil {
			panic("canopy: nil keyframe")
		}
		if l, ok := f.(looper); ok {
			l.SetLoop(false)
		}
	}
	return &KeyframeAnimation{frames: frames, loop: loop}
}

// Frames returns the frame list. The returned slice MUST NOT be mutated.
func (k *KeyframeAnimation) Frames() []Animation { return k.frames }

// Current returns the index of the frame currently advancing.
func (k *KeyframeAnimation) Current() int { return k.index }

// Loop reports whether the sequence wraps around.
func (k *KeyframeAnimation) Loop() bool { return k.loop }

// SetLoop enables or disables wrapping. Frames themselves never loop.
func (k *KeyframeAnimation) SetLoop(loop bool) { k.loop = loop }

// State returns the sequence's play state.
func (k *KeyframeAnimation) State() PlayState { return k.state }

// EndTime returns the end time of the most recently finished frame.
func (k *KeyframeAnimation) EndTime() float64 { return k.lastEnd }

// Start restarts the sequence unless it is already playing.
func (k *KeyframeAnimation) Start() {
	if k.state != StatePlaying {
		k.Restart()
	}
}

// Restart plays the sequence from the first frame.
func (k *KeyframeAnimation) Restart() {
	k.stopFrames()
	k.index = 0
	k.state = StatePlaying
	k.frames[0].Restart()
}

// Stop halts the sequence and rewinds it.
func (k *KeyframeAnimation) Stop() {
	k.stopFrames()
	k.index = 0
	k.state = StateStop
}

// SuspendAt pauses the current frame.
func (k *KeyframeAnimation) SuspendAt(timestamp float64) {
	if k.state != StatePlaying {
		return
	}
	k.state = StateSuspended
	k.frames[k.index].SuspendAt(timestamp)
}

// ResumeAt resumes the current frame. On error the sequence stays suspended.
func (k *KeyframeAnimation) ResumeAt(timestamp float64) error {
	if k.state != StateSuspended {
		return nil
	}
	if err := k.frames[k.index].ResumeAt(timestamp); err != nil {
		return err
	}
	k.state = StatePlaying
	return nil
}

func (k *KeyframeAnimation) startAt(origin float64) {
	k.stopFrames()
	k.index = 0
	k.state = StatePlaying
	startFrame(k.frames[0], origin)
}

// Update advances the current frame. Finished frames hand over to the next
// one within the same call, at most one full cycle per call.
func (k *KeyframeAnimation) Update(target *Sprite, timestamp float64) {
	if k.state != StatePlaying {
		return
	}
	for range len(k.frames) + 1 {
		cur := k.frames[k.index]
		cur.Update(target, timestamp)
		if cur.State() != StateStop {
			return
		}
		end := timestamp
		if c, ok := cur.(chainable); ok {
			end = c.EndTime()
		}
		k.lastEnd = end
		k.index++
		if k.index == len(k.frames) {
			k.index = 0
			if !k.loop {
				k.state = StateStop
				return
			}
		}
		startFrame(k.frames[k.index], end)
	}
}

// Accepts requires every frame to accept target.
func (k *KeyframeAnimation) Accepts(target *Sprite) error {
	var errs []error
	for _, f := range k.frames {
		if err := f.Accepts(target); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (k *KeyframeAnimation) stopFrames() {
	for _, f := range k.frames {
		f.Stop()
	}
}

// startFrame begins f at origin when it supports explicit origins, and
// otherwise restarts it so its next Update sets the origin.
func startFrame(f Animation, origin float64) {
	if c, ok := f.(chainable); ok {
		c.startAt(origin)
		return
	}
	f.Restart()
}
