package canopy

import (
	"fmt"
	"runtime/debug"
	"slices"

	"github.com/gogpu/gg"
)

// Node is an element of the Stage tree: a *Layer or a *Sprite.
type Node interface {
	// ID returns the node identifier, unique within its parent.
	ID() string
	// Parent returns the enclosing Layer, or nil for a detached node or a
	// Layer attached directly to a Stage.
	Parent() *Layer
	// Dispatch offers ev to the node. forced bypasses hit testing and
	// visibility and addresses the node directly.
	Dispatch(ev *Event, forced bool)
	// Update advances the node to timestamp (milliseconds).
	Update(timestamp float64)
	// Render draws the node onto dc.
	Render(dc *gg.Context)

	setParent(p *Layer)
}

// HitShape replaces a Sprite's rectangle hit test. Coordinates are relative
// to the rectangle's top-left corner with rotation already removed.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitCircle is a circular HitShape.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies strictly inside the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx, dy := x-c.CenterX, y-c.CenterY
	return dx*dx+dy*dy < c.Radius*c.Radius
}

// HitPolygon is a convex polygon HitShape, in either winding order.
type HitPolygon struct {
	Points []gg.Point
}

// Contains reports whether (x, y) lies strictly inside the polygon: on the
// same side of every edge and on none of them.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i, a := range p.Points {
		b := p.Points[(i+1)%n]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		switch {
		case cross > 0:
			positive = true
		case cross < 0:
			negative = true
		default:
			return false
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// nodeIDCounter is a plain counter (no atomic: the tree is owned by one goroutine).
var nodeIDCounter uint64

func nextNodeID(prefix string) string {
	nodeIDCounter++
	return fmt.Sprintf("%s-%d", prefix, nodeIDCounter)
}

// HookError describes a panic recovered from a user hook.
type HookError struct {
	NodeID string
	Hook   string
	Value  any
	Stack  []byte
}

func (e *HookError) Error() string {
	return fmt.Sprintf("canopy: %s hook of %q panicked: %v", e.Hook, e.NodeID, e.Value)
}

// guard runs fn, converting a panic into a logged *HookError so one faulty
// hook cannot take down the frame loop.
func guard(id, hook string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			he := &HookError{NodeID: id, Hook: hook, Value: r, Stack: debug.Stack()}
			Logger().Error("hook panicked", "node", id, "hook", hook, "panic", r)
			hookFaults++
			err = he
		}
	}()
	fn()
	return nil
}

// hookFaults counts recovered hook panics for the debug stats.
var hookFaults int

// --- child list helpers ---

func indexOf[T comparable](s []T, v T) int {
	return slices.Index(s, v)
}

func insertAt[T any](s []T, i int, v T) []T {
	if i < 0 || i > len(s) {
		panic("canopy: child index out of range")
	}
	return slices.Insert(s, i, v)
}

func removeAt[T any](s []T, i int) []T {
	if i < 0 || i >= len(s) {
		panic("canopy: child index out of range")
	}
	return slices.Delete(s, i, i+1)
}

// moveTo moves the element at from to index to, shifting the others.
func moveTo[T any](s []T, from, to int) {
	if from == to {
		return
	}
	v := s[from]
	if from < to {
		copy(s[from:], s[from+1:to+1])
	} else {
		copy(s[to+1:], s[to:from])
	}
	s[to] = v
}
