package canopy

type injectKind uint8

const (
	injectPress injectKind = iota
	injectMove
	injectRelease
)

// syntheticPointerEvent is one queued pointer event in device coordinates,
// replayed through the same path as real mouse input.
type syntheticPointerEvent struct {
	x, y   float64
	kind   injectKind
	button MouseButton
}

// InjectPress queues a left-button mousedown at device coordinates (x, y).
// Queued events are replayed one per tick, before the tick's update.
func (e *Engine) InjectPress(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticPointerEvent{x: x, y: y, kind: injectPress, button: MouseButtonLeft})
}

// InjectMove queues a mousemove at device coordinates (x, y).
func (e *Engine) InjectMove(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticPointerEvent{x: x, y: y, kind: injectMove, button: MouseButtonLeft})
}

// InjectRelease queues a left-button mouseup at device coordinates (x, y).
func (e *Engine) InjectRelease(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticPointerEvent{x: x, y: y, kind: injectRelease, button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two ticks.
func (e *Engine) InjectClick(x, y float64) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 evenly spaced moves
// and a release at (toX, toY). The sequence consumes frames ticks, at least 2.
func (e *Engine) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	e.InjectRelease(toX, toY)
}

// Injected returns how many synthetic pointer events are still queued.
func (e *Engine) Injected() int { return len(e.injectQueue) }

// processInjected replays the oldest queued event, reporting whether there
// was one.
func (e *Engine) processInjected() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	ev := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	mods := KeyModifiers(0)
	switch ev.kind {
	case injectPress:
		e.PointerMove(ev.x, ev.y, mods)
		e.PointerDown(ev.x, ev.y, ev.button, mods)
	case injectMove:
		e.PointerMove(ev.x, ev.y, mods)
	case injectRelease:
		e.PointerMove(ev.x, ev.y, mods)
		e.PointerUp(ev.x, ev.y, ev.button, mods)
	}
	return true
}
