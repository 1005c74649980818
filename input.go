package canopy

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

var mouseButtons = [...]struct {
	ebiten ebiten.MouseButton
	canopy MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

// keyRepeatDelay is the number of ticks a key must be held before keydown
// repeats, and keyRepeatInterval the ticks between repeats.
const (
	keyRepeatDelay    = 30
	keyRepeatInterval = 4
)

// keyRepeat reports whether a key held for ticks ticks fires a keydown, and
// whether that keydown is a repeat.
func keyRepeat(ticks int) (fire, repeat bool) {
	switch {
	case ticks == 1:
		return true, false
	case ticks >= keyRepeatDelay && (ticks-keyRepeatDelay)%keyRepeatInterval == 0:
		return true, true
	}
	return false, false
}

// inputPoller turns ebiten's polled input state into Engine input calls.
type inputPoller struct {
	lastX, lastY int
	hasCursor    bool
	focused      bool

	keys     []ebiten.Key
	touchIDs []ebiten.TouchID
	touches  map[ebiten.TouchID]TouchPoint
}

func newInputPoller() *inputPoller {
	return &inputPoller{focused: true, touches: make(map[ebiten.TouchID]TouchPoint)}
}

// poll forwards this tick's input to e.
func (p *inputPoller) poll(e *Engine) {
	if focused := ebiten.IsFocused(); focused != p.focused {
		p.focused = focused
		e.SetVisibility(focused, Now())
	}

	mods := readModifiers()
	p.pollMouse(e, mods)
	p.pollTouches(e, mods)
	p.pollKeys(e, mods)
}

func (p *inputPoller) pollMouse(e *Engine, mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	if !p.hasCursor || mx != p.lastX || my != p.lastY {
		p.hasCursor = true
		p.lastX, p.lastY = mx, my
		e.PointerMove(x, y, mods)
	}
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b.ebiten) {
			e.PointerDown(x, y, b.canopy, mods)
		}
		if inpututil.IsMouseButtonJustReleased(b.ebiten) {
			e.PointerUp(x, y, b.canopy, mods)
		}
	}
}

func (p *inputPoller) pollTouches(e *Engine, mods KeyModifiers) {
	p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
	if len(p.touchIDs) > 0 {
		started := make([]TouchPoint, 0, len(p.touchIDs))
		for _, id := range p.touchIDs {
			tx, ty := ebiten.TouchPosition(id)
			tp := TouchPoint{ID: int(id), X: float64(tx), Y: float64(ty)}
			p.touches[id] = tp
			started = append(started, tp)
		}
		e.TouchStart(started, mods)
	}

	var moved []TouchPoint
	for id, prev := range p.touches {
		if slices.Contains(p.touchIDs, id) || inpututil.IsTouchJustReleased(id) {
			continue
		}
		tx, ty := ebiten.TouchPosition(id)
		if float64(tx) != prev.X || float64(ty) != prev.Y {
			tp := TouchPoint{ID: int(id), X: float64(tx), Y: float64(ty)}
			p.touches[id] = tp
			moved = append(moved, tp)
		}
	}
	if len(moved) > 0 {
		slices.SortFunc(moved, func(a, b TouchPoint) int { return a.ID - b.ID })
		e.TouchMove(moved, mods)
	}

	p.touchIDs = inpututil.AppendJustReleasedTouchIDs(p.touchIDs[:0])
	if len(p.touchIDs) > 0 {
		ended := make([]TouchPoint, 0, len(p.touchIDs))
		for _, id := range p.touchIDs {
			if tp, ok := p.touches[id]; ok {
				ended = append(ended, tp)
				delete(p.touches, id)
			}
		}
		if len(ended) > 0 {
			e.TouchEnd(ended, mods)
		}
	}
}

func (p *inputPoller) pollKeys(e *Engine, mods KeyModifiers) {
	p.keys = inpututil.AppendPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		if fire, repeat := keyRepeat(inpututil.KeyPressDuration(k)); fire {
			e.KeyDown(k.String(), repeat, mods)
		}
	}
	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		e.KeyUp(k.String(), mods)
	}
}
