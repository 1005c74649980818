package canopy

// toCanvas converts device coordinates to surface-relative ones.
func (e *Engine) toCanvas(dx, dy float64) (float64, float64) {
	origin := e.surface.Bounds().Min
	return dx - float64(origin.X), dy - float64(origin.Y)
}

// PointerDown dispatches a mousedown at device coordinates.
func (e *Engine) PointerDown(dx, dy float64, button MouseButton, mods KeyModifiers) *Event {
	return e.mouse(EventMouseDown, dx, dy, button, mods)
}

// PointerUp dispatches a mouseup and releases any pointer capture.
func (e *Engine) PointerUp(dx, dy float64, button MouseButton, mods KeyModifiers) *Event {
	return e.mouse(EventMouseUp, dx, dy, button, mods)
}

// PointerMove dispatches a mousemove.
func (e *Engine) PointerMove(dx, dy float64, mods KeyModifiers) *Event {
	return e.mouse(EventMouseMove, dx, dy, MouseButtonLeft, mods)
}

func (e *Engine) mouse(typ string, dx, dy float64, button MouseButton, mods KeyModifiers) *Event {
	x, y := e.toCanvas(dx, dy)
	ev := NewMouseEvent(e, typ, x, y, button, mods)
	ev.DeviceX, ev.DeviceY = dx, dy
	ev.Timestamp = Now()

	e.route(ev)
	e.crossTarget(ev)
	e.events.Emit(typ, ev)
	if typ == EventMouseUp {
		e.releaseCapture()
	}
	return ev
}

// TouchStart dispatches a touchstart. Touch coordinates are device coordinates.
func (e *Engine) TouchStart(touches []TouchPoint, mods KeyModifiers) *Event {
	return e.touch(EventTouchStart, touches, mods)
}

// TouchMove dispatches a touchmove.
func (e *Engine) TouchMove(touches []TouchPoint, mods KeyModifiers) *Event {
	return e.touch(EventTouchMove, touches, mods)
}

// TouchEnd dispatches a touchend and releases any pointer capture.
func (e *Engine) TouchEnd(touches []TouchPoint, mods KeyModifiers) *Event {
	return e.touch(EventTouchEnd, touches, mods)
}

func (e *Engine) touch(typ string, touches []TouchPoint, mods KeyModifiers) *Event {
	canvas := make([]TouchPoint, len(touches))
	for i, t := range touches {
		x, y := e.toCanvas(t.X, t.Y)
		canvas[i] = TouchPoint{ID: t.ID, X: x, Y: y}
	}
	ev := NewTouchEvent(e, typ, canvas, mods)
	if len(touches) > 0 {
		ev.DeviceX, ev.DeviceY = touches[0].X, touches[0].Y
	}
	ev.Timestamp = Now()

	e.route(ev)
	e.events.Emit(typ, ev)
	if typ == EventTouchEnd {
		e.releaseCapture()
	}
	return ev
}

// KeyDown dispatches a keydown to the first visible sprite with a keyboard hook.
func (e *Engine) KeyDown(key string, repeat bool, mods KeyModifiers) *Event {
	return e.key(EventKeyDown, key, repeat, mods)
}

// KeyUp dispatches a keyup.
func (e *Engine) KeyUp(key string, mods KeyModifiers) *Event {
	return e.key(EventKeyUp, key, false, mods)
}

func (e *Engine) key(typ, key string, repeat bool, mods KeyModifiers) *Event {
	ev := NewKeyboardEvent(e, typ, key, mods)
	ev.Repeat = repeat
	ev.Timestamp = Now()
	e.stage.Dispatch(ev, false)
	e.events.Emit(typ, ev)
	return ev
}

// Captured returns the node holding the pointer capture, or nil.
func (e *Engine) Captured() Node {
	if e.capture == nil {
		return nil
	}
	return e.capture.node
}

// route delivers a pointer event either to the capturing node, forced and
// carrying the capture context, or through the stage. A hook that calls
// Capture starts a capture; a captured hook that calls Release ends it.
func (e *Engine) route(ev *Event) {
	if c := e.capture; c != nil {
		ev.Captured = true
		ev.CaptureContext = c.ctx
		c.node.Dispatch(ev, true)
		if !ev.Captured {
			e.releaseCapture()
		} else {
			c.ctx = ev.CaptureContext
		}
		return
	}
	e.stage.Dispatch(ev, false)
	if ev.Captured && ev.Target != nil {
		e.capture = &capture{node: ev.Target, ctx: ev.CaptureContext}
	}
}

func (e *Engine) releaseCapture() {
	e.capture = nil
}

// crossTarget synthesizes mouseleave on the previous target and mouseenter
// on the new one when a mouse event resolves to a different node. Each is
// its own forced dispatch and engine event, leave first.
func (e *Engine) crossTarget(ev *Event) {
	if ev.Target == e.prevTarget {
		return
	}
	prev := e.prevTarget
	e.prevTarget = ev.Target
	if prev != nil {
		leave := ev.derive(EventMouseLeave)
		prev.Dispatch(leave, true)
		e.events.Emit(EventMouseLeave, leave)
	}
	if ev.Target != nil {
		enter := ev.derive(EventMouseEnter)
		ev.Target.Dispatch(enter, true)
		e.events.Emit(EventMouseEnter, enter)
	}
}
