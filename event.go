package canopy

// EventKind is the discriminant of an Event. Dispatch code switches on it
// instead of type-asserting event structs.
type EventKind uint8

const (
	KindGeneric  EventKind = iota // plain named event
	KindEngine                    // engine lifecycle event (ready, update, fault...)
	KindNotice                    // named notice, optionally broadcast to the whole Stage
	KindMouse                     // mouse pointer input
	KindTouch                     // touch input
	KindKeyboard                  // keyboard input
)

func (k EventKind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindEngine:
		return "engine"
	case KindNotice:
		return "notice"
	case KindMouse:
		return "mouse"
	case KindTouch:
		return "touch"
	case KindKeyboard:
		return "keyboard"
	default:
		return "unknown"
	}
}

// IsInput reports whether k is one of the input kinds.
func (k EventKind) IsInput() bool {
	return k == KindMouse || k == KindTouch || k == KindKeyboard
}

// dispatchesWhenHidden records, per kind, whether a hidden Layer still passes
// the event to its children. Input is gated by visibility, notices are not.
// Rendering never happens for hidden nodes regardless of kind.
var dispatchesWhenHidden = [...]bool{
	KindGeneric:  false,
	KindEngine:   false,
	KindNotice:   true,
	KindMouse:    false,
	KindTouch:    false,
	KindKeyboard: false,
}

func (k EventKind) dispatchesWhenHidden() bool {
	if int(k) >= len(dispatchesWhenHidden) {
		return false
	}
	return dispatchesWhenHidden[k]
}

// Engine event names.
const (
	EventReady      = "ready"
	EventShutdown   = "shutdown"
	EventUpdate     = "update"
	EventRender     = "render"
	EventLoading    = "loading"
	EventFault      = "fault"
	EventMouseDown  = "mousedown"
	EventMouseUp    = "mouseup"
	EventMouseMove  = "mousemove"
	EventMouseEnter = "mouseenter"
	EventMouseLeave = "mouseleave"
	EventTouchStart = "touchstart"
	EventTouchMove  = "touchmove"
	EventTouchEnd   = "touchend"
	EventKeyDown    = "keydown"
	EventKeyUp      = "keyup"
	EventVisible    = "visible"
	EventHidden     = "hidden"
	EventOnline     = "online"
	EventOffline    = "offline"
)

// Well-known notice names broadcast by the Engine.
const (
	NoticeVisibilityChanged = "Engine.VisibilityStateChanged"
	NoticeOnlineChanged     = "Engine.OnlineStateChanged"
)

// VisibilityState is the payload of NoticeVisibilityChanged.
type VisibilityState struct {
	Visible   bool
	Timestamp float64
}

// OnlineState is the payload of NoticeOnlineChanged.
type OnlineState struct {
	Online bool
}

// TouchPoint is one contact of a touch event, in canvas coordinates.
type TouchPoint struct {
	ID   int
	X, Y float64
}

// Event is a single flat struct for every event variant. Fields that do not
// apply to Kind are left zero.
type Event struct {
	Kind EventKind
	Type string // "mousedown", "ready", a notice name...

	source any

	// Target is the node that claimed the event during dispatch, or nil.
	Target Node
	// StopPropagation ends dispatch at every enclosing level once set.
	StopPropagation bool

	Timestamp float64
	Payload   any

	// Notice fields
	Broadcast bool

	// Input fields
	Modifiers KeyModifiers

	// Pointer fields (KindMouse, KindTouch). X/Y are canvas-relative;
	// DeviceX/DeviceY are the raw platform coordinates.
	X, Y             float64
	DeviceX, DeviceY float64
	Button           MouseButton
	Touches          []TouchPoint

	// Captured, when set by a hook, asks the engine to keep routing pointer
	// events to the claiming node until the pointer is released.
	Captured       bool
	CaptureContext any

	// Keyboard fields
	Key    string
	Repeat bool
}

// Source returns the object that created the event.
func (e *Event) Source() any {
	return e.source
}

// Stop sets StopPropagation.
func (e *Event) Stop() {
	e.StopPropagation = true
}

// Capture asks the engine to route subsequent pointer events to the node
// handling this one, carrying ctx along with them.
func (e *Event) Capture(ctx any) {
	e.Captured = true
	e.CaptureContext = ctx
}

// Release ends a pointer capture from within a captured hook.
func (e *Event) Release() {
	e.Captured = false
	e.CaptureContext = nil
}

// claim marks n as the event target and stops propagation.
func (e *Event) claim(n Node) {
	e.Target = n
	e.StopPropagation = true
}

// NewEvent creates a generic named event.
func NewEvent(source any, typ string, payload any) *Event {
	return &Event{Kind: KindGeneric, Type: typ, source: source, Payload: payload}
}

// NewEngineEvent creates an engine lifecycle event.
func NewEngineEvent(source any, typ string, payload any) *Event {
	return &Event{Kind: KindEngine, Type: typ, source: source, Payload: payload}
}

// NewNotice creates a notice. Broadcast notices reach every node in the
// Stage, hidden ones included, and are never claimed.
func NewNotice(source any, name string, payload any, broadcast bool) *Event {
	return &Event{Kind: KindNotice, Type: name, source: source, Payload: payload, Broadcast: broadcast}
}

// NewMouseEvent creates a mouse event at canvas coordinates (x, y).
func NewMouseEvent(source any, typ string, x, y float64, button MouseButton, mods KeyModifiers) *Event {
	return &Event{
		Kind: KindMouse, Type: typ, source: source,
		X: x, Y: y, DeviceX: x, DeviceY: y,
		Button: button, Modifiers: mods,
	}
}

// NewTouchEvent creates a touch event. The first touch point becomes the
// event's hit-test coordinate.
func NewTouchEvent(source any, typ string, touches []TouchPoint, mods KeyModifiers) *Event {
	e := &Event{Kind: KindTouch, Type: typ, source: source, Touches: touches, Modifiers: mods}
	if len(touches) > 0 {
		e.X, e.Y = touches[0].X, touches[0].Y
		e.DeviceX, e.DeviceY = e.X, e.Y
	}
	return e
}

// NewKeyboardEvent creates a keyboard event.
func NewKeyboardEvent(source any, typ, key string, mods KeyModifiers) *Event {
	return &Event{Kind: KindKeyboard, Type: typ, source: source, Key: key, Modifiers: mods}
}

// derive copies the input fields of e into a fresh event of a new type,
// dropping the dispatch state. Used for synthesized enter/leave passes.
func (e *Event) derive(typ string) *Event {
	d := *e
	d.Type = typ
	d.Target = nil
	d.StopPropagation = false
	d.Captured = false
	d.CaptureContext = nil
	return &d
}
