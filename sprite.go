package canopy

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// Sprite is a leaf node: a rectangle with a rotation, opacity, a base point
// and a list of attached animations. What it draws depends on Type.
type Sprite struct {
	id     string
	parent *Layer

	// rect is always normalized.
	rect Rect
	// basePoint is the rotation pivot, relative to the rectangle's top-left.
	basePoint gg.Point
	opacity   float64

	// Angle is the rotation in radians about Position.
	Angle float64
	// Visible gates input hit testing, keyboard delivery and rendering.
	// Broadcast notices and updates still reach invisible sprites.
	Visible bool

	Type SpriteType

	// Fill is the rectangle color for shapes and the glyph color for text.
	Fill Color
	// Stroke outlines shapes when StrokeWidth > 0.
	Stroke      Color
	StrokeWidth float64

	// Texture is drawn scaled to the rectangle by image sprites.
	Texture *gg.ImageBuf

	// Text and Face are used by text sprites.
	Text string
	Face text.Face

	// HitShape replaces the rectangle hit test when set.
	HitShape HitShape

	// UserData is an arbitrary payload for the application.
	UserData any

	animations []Animation

	// Hooks. Each is called after the sprite claims an event of its category.
	OnMouse    func(ev *Event)
	OnTouch    func(ev *Event)
	OnKeyboard func(ev *Event)
	// OnNotice receives every broadcast notice and claims non-broadcast ones.
	OnNotice func(ev *Event)
	// OnUpdate runs after the attached animations have advanced.
	OnUpdate func(timestamp float64)
	// OnRender draws after the built-in visual, with the sprite's rotation
	// and opacity already applied to dc.
	OnRender func(dc *gg.Context)
}

// NewSprite creates a visible, opaque, white shape sprite covering r.
// An empty id is replaced with a generated one.
func NewSprite(id string, r Rect) *Sprite {
	if id == "" {
		id = nextNodeID("sprite")
	}
	return &Sprite{
		id:      id,
		rect:    r.Normalize(),
		opacity: 1,
		Visible: true,
		Type:    SpriteTypeShape,
		Fill:    ColorWhite,
	}
}

// NewImageSprite creates an image sprite at (x, y) sized to img.
func NewImageSprite(id string, img *gg.ImageBuf, x, y float64) *Sprite {
	if img == nil {
		panic("canopy: nil image")
	}
	s := NewSprite(id, Rect{X: x, Y: y, Width: float64(img.Width()), Height: float64(img.Height())})
	s.Type = SpriteTypeImage
	s.Texture = img
	return s
}

// NewTextSprite creates a text sprite at (x, y) sized to the rendered string.
func NewTextSprite(id, str string, face text.Face, x, y float64) *Sprite {
	if face == nil {
		panic("canopy: nil font face")
	}
	m := face.Metrics()
	s := NewSprite(id, Rect{X: x, Y: y, Width: face.Advance(str), Height: m.Ascent + m.Descent})
	s.Type = SpriteTypeText
	s.Text = str
	s.Face = face
	return s
}

// ID returns the sprite identifier.
func (s *Sprite) ID() string { return s.id }

// Parent returns the enclosing layer, or nil.
func (s *Sprite) Parent() *Layer { return s.parent }

func (s *Sprite) setParent(p *Layer) { s.parent = p }

// RemoveFromParent detaches the sprite. No-op if it has no parent.
func (s *Sprite) RemoveFromParent() {
	if s.parent != nil {
		s.parent.Remove(s)
	}
}

// --- Geometry ---

// Rect returns the bounding rectangle (unrotated, normalized).
func (s *Sprite) Rect() Rect { return s.rect }

// SetRect replaces the bounding rectangle. Negative extents are normalized.
func (s *Sprite) SetRect(r Rect) { s.rect = r.Normalize() }

// SetSize changes width and height, keeping the top-left corner.
func (s *Sprite) SetSize(w, h float64) {
	s.rect = Rect{X: s.rect.X, Y: s.rect.Y, Width: w, Height: h}.Normalize()
}

// BasePoint returns the pivot offset from the rectangle's top-left corner.
func (s *Sprite) BasePoint() gg.Point { return s.basePoint }

// SetBasePoint moves the pivot. The rectangle stays in place, so Position
// changes by the same amount.
func (s *Sprite) SetBasePoint(p gg.Point) { s.basePoint = p }

// Position returns the rectangle's top-left corner plus the base point.
func (s *Sprite) Position() gg.Point {
	return s.rect.TopLeft().Add(s.basePoint)
}

// SetPosition moves the rectangle so that Position equals p.
func (s *Sprite) SetPosition(p gg.Point) {
	s.rect.X = p.X - s.basePoint.X
	s.rect.Y = p.Y - s.basePoint.Y
}

// Opacity returns the opacity in [0, 1].
func (s *Sprite) Opacity() float64 { return s.opacity }

// SetOpacity sets the opacity, clamped to [0, 1].
func (s *Sprite) SetOpacity(o float64) {
	s.opacity = min(max(o, 0), 1)
}

// transform maps sprite space to surface space: a rotation by Angle about
// Position. Rendering and hit testing share it.
func (s *Sprite) transform() gg.Matrix {
	p := s.Position()
	return gg.Translate(p.X, p.Y).
		Multiply(gg.Rotate(s.Angle)).
		Multiply(gg.Translate(-p.X, -p.Y))
}

// HitTest reports whether the surface point (x, y) lies inside the rotated
// sprite. Edges are outside.
func (s *Sprite) HitTest(x, y float64) bool {
	q := gg.Pt(x, y)
	if s.Angle != 0 {
		q = s.transform().Invert().TransformPoint(q)
	}
	if s.HitShape != nil {
		return s.HitShape.Contains(q.X-s.rect.X, q.Y-s.rect.Y)
	}
	return s.rect.Contains(q.X, q.Y)
}

// --- Animations ---

// AddAnimation attaches a. Panics if a cannot drive this sprite.
func (s *Sprite) AddAnimation(a Animation) {
	if a == nil {
		panic("canopy: nil animation")
	}
	if err := a.Accepts(s); err != nil {
		panic(fmt.Sprintf("canopy: %v", err))
	}
	s.animations = append(s.animations, a)
}

// RemoveAnimation detaches a. It keeps its state but is no longer driven.
func (s *Sprite) RemoveAnimation(a Animation) {
	if i := indexOf(s.animations, a); i >= 0 {
		s.animations = removeAt(s.animations, i)
	}
}

// Animations returns the attached animations. The returned slice MUST NOT be mutated.
func (s *Sprite) Animations() []Animation { return s.animations }

// --- Frame protocol ---

// Dispatch offers ev to the sprite. See Layer.Dispatch for the traversal.
func (s *Sprite) Dispatch(ev *Event, forced bool) {
	switch ev.Kind {
	case KindMouse:
		if forced || (s.Visible && s.HitTest(ev.X, ev.Y)) {
			ev.claim(s)
			s.call("mouse", s.OnMouse, ev)
		}
	case KindTouch:
		if forced || (s.Visible && s.HitTest(ev.X, ev.Y)) {
			ev.claim(s)
			s.call("touch", s.OnTouch, ev)
		}
	case KindKeyboard:
		if forced || (s.Visible && s.OnKeyboard != nil) {
			ev.claim(s)
			s.call("keyboard", s.OnKeyboard, ev)
		}
	case KindNotice:
		if ev.Broadcast {
			s.handleBroadcast(ev)
			s.call("notice", s.OnNotice, ev)
			return
		}
		if forced || s.OnNotice != nil {
			ev.claim(s)
			s.call("notice", s.OnNotice, ev)
		}
	}
}

// handleBroadcast applies the notices the sprite reacts to on its own.
func (s *Sprite) handleBroadcast(ev *Event) {
	if ev.Type != NoticeVisibilityChanged {
		return
	}
	vs, ok := ev.Payload.(VisibilityState)
	if !ok {
		return
	}
	for _, a := range s.animations {
		if !vs.Visible {
			a.SuspendAt(vs.Timestamp)
			continue
		}
		if err := a.ResumeAt(vs.Timestamp); err != nil {
			Logger().Error("resume animation", "sprite", s.id, "err", err)
		}
	}
}

func (s *Sprite) call(hook string, fn func(*Event), ev *Event) {
	if fn == nil {
		return
	}
	_ = guard(s.id, hook, func() { fn(ev) })
}

// Update advances the attached animations, then runs OnUpdate.
func (s *Sprite) Update(timestamp float64) {
	for _, a := range s.animations {
		a.Update(s, timestamp)
	}
	if s.OnUpdate != nil {
		_ = guard(s.id, "update", func() { s.OnUpdate(timestamp) })
	}
}

// Render draws the sprite rotated about Position. Invisible or fully
// transparent sprites are skipped; partial opacity composites through a
// layer, full opacity draws directly.
func (s *Sprite) Render(dc *gg.Context) {
	if !s.Visible || s.opacity <= 0 {
		return
	}
	dc.Push()
	defer dc.Pop()
	if s.Angle != 0 {
		dc.Transform(s.transform())
	}
	if s.opacity < 1 {
		dc.PushLayer(gg.BlendNormal, s.opacity)
		defer dc.PopLayer()
	}

	r := s.rect
	switch s.Type {
	case SpriteTypeShape:
		if s.Fill.A > 0 {
			dc.SetRGBA(s.Fill.R, s.Fill.G, s.Fill.B, s.Fill.A)
			dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
			s.check("fill", dc.Fill())
		}
		if s.StrokeWidth > 0 && s.Stroke.A > 0 {
			dc.SetRGBA(s.Stroke.R, s.Stroke.G, s.Stroke.B, s.Stroke.A)
			dc.SetLineWidth(s.StrokeWidth)
			dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
			s.check("stroke", dc.Stroke())
		}
	case SpriteTypeImage:
		if s.Texture != nil {
			dc.DrawImageEx(s.Texture, gg.DrawImageOptions{
				X:         r.X,
				Y:         r.Y,
				DstWidth:  r.Width,
				DstHeight: r.Height,
				Opacity:   1,
				BlendMode: gg.BlendNormal,
			})
		}
	case SpriteTypeText:
		if s.Face != nil && s.Text != "" {
			// Glyphs are rasterized upright at the transformed baseline origin.
			x, y := dc.TransformPoint(r.X, r.Y+s.Face.Metrics().Ascent)
			dc.Push()
			dc.Identity()
			dc.SetFont(s.Face)
			dc.SetRGBA(s.Fill.R, s.Fill.G, s.Fill.B, s.Fill.A)
			dc.DrawString(s.Text, x, y)
			dc.Pop()
		}
	}

	if s.OnRender != nil {
		_ = guard(s.id, "render", func() { s.OnRender(dc) })
	}
}

func (s *Sprite) check(op string, err error) {
	if err != nil {
		Logger().Warn("draw failed", "sprite", s.id, "op", op, "err", err)
	}
}
