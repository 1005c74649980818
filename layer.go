package canopy

import (
	"slices"

	"github.com/gogpu/gg"
)

// Layer is an interior node holding an ordered list of Sprites and nested
// Layers. Children are kept front-to-back: index 0 is the frontmost child,
// offered events first and drawn last.
type Layer struct {
	id       string
	parent   *Layer
	stage    *Stage
	children []Node

	// Visible gates input dispatch, update and rendering. Notices still pass
	// through hidden layers.
	Visible bool
	// EventTransparent layers never claim events themselves. When false, a
	// visible layer claims any event none of its children claimed, except
	// broadcast notices.
	EventTransparent bool
	// UpdateWhileHidden keeps updating the subtree while the layer is hidden.
	UpdateWhileHidden bool

	// OnEvent is called when the layer itself claims an event.
	OnEvent func(ev *Event)
}

// NewLayer creates a visible, event-transparent layer. An empty id is
// replaced with a generated one.
func NewLayer(id string) *Layer {
	if id == "" {
		id = nextNodeID("layer")
	}
	return &Layer{id: id, Visible: true, EventTransparent: true}
}

// ID returns the layer identifier.
func (l *Layer) ID() string { return l.id }

// Parent returns the enclosing layer, or nil.
func (l *Layer) Parent() *Layer { return l.parent }

// Stage returns the stage the layer is attached to directly, or nil.
func (l *Layer) Stage() *Stage { return l.stage }

func (l *Layer) setParent(p *Layer) { l.parent = p }

// --- Tree manipulation ---

// Add inserts n in front of every existing child. A node that already has a
// parent is moved. Panics on nil or when n would contain l.
func (l *Layer) Add(n Node) {
	l.AddAt(n, 0)
}

// AddAt inserts n at index, 0 being the front.
func (l *Layer) AddAt(n Node, index int) {
	if n == nil {
		panic("canopy: cannot add nil child")
	}
	if child, ok := n.(*Layer); ok && child.isAncestorOf(l) {
		panic("canopy: adding child would create a cycle")
	}
	if index < 0 || index > len(l.children) {
		panic("canopy: child index out of range")
	}
	detach(n)
	l.children = insertAt(l.children, index, n)
	n.setParent(l)
}

// Remove detaches n. Panics if n is not a child of l.
func (l *Layer) Remove(n Node) {
	i := indexOf(l.children, n)
	if i < 0 {
		panic("canopy: node is not a child of this layer")
	}
	l.RemoveAt(i)
}

// RemoveAt detaches and returns the child at index.
func (l *Layer) RemoveAt(index int) Node {
	if index < 0 || index >= len(l.children) {
		panic("canopy: child index out of range")
	}
	n := l.children[index]
	l.children = removeAt(l.children, index)
	n.setParent(nil)
	return n
}

// RemoveAll detaches every child.
func (l *Layer) RemoveAll() {
	for _, n := range l.children {
		n.setParent(nil)
	}
	clear(l.children)
	l.children = l.children[:0]
}

// RemoveFromParent detaches the layer from its parent layer or stage.
// No-op for a detached layer.
func (l *Layer) RemoveFromParent() {
	switch {
	case l.parent != nil:
		l.parent.Remove(l)
	case l.stage != nil:
		l.stage.RemoveLayer(l)
	}
}

// Children returns the children front-to-back. The returned slice MUST NOT be mutated.
func (l *Layer) Children() []Node { return l.children }

// Len returns the number of children.
func (l *Layer) Len() int { return len(l.children) }

// ChildAt returns the child at index.
func (l *Layer) ChildAt(index int) Node { return l.children[index] }

// IndexOf returns the position of n, or -1.
func (l *Layer) IndexOf(n Node) int { return indexOf(l.children, n) }

// BringToFront moves n to index 0.
func (l *Layer) BringToFront(n Node) {
	l.move(n, 0)
}

// SendToBack moves n behind every sibling.
func (l *Layer) SendToBack(n Node) {
	l.move(n, len(l.children)-1)
}

func (l *Layer) move(n Node, to int) {
	i := indexOf(l.children, n)
	if i < 0 {
		panic("canopy: node is not a child of this layer")
	}
	moveTo(l.children, i, to)
}

// Find returns the first node with the given id in the subtree, searching
// depth-first in dispatch order. Returns nil when absent.
func (l *Layer) Find(id string) Node {
	for _, n := range l.children {
		if n.ID() == id {
			return n
		}
		if sub, ok := n.(*Layer); ok {
			if found := sub.Find(id); found != nil {
				return found
			}
		}
	}
	return nil
}

func (l *Layer) isAncestorOf(n *Layer) bool {
	for p := n; p != nil; p = p.parent {
		if p == l {
			return true
		}
	}
	return false
}

// detach removes n from wherever it is attached.
func detach(n Node) {
	if p := n.Parent(); p != nil {
		p.Remove(n)
		return
	}
	if l, ok := n.(*Layer); ok && l.stage != nil {
		l.stage.RemoveLayer(l)
	}
}

// --- Frame protocol ---

// Dispatch offers ev to the children front-to-back and stops at the first
// one that claims it. A hidden layer drops input; notices still reach its
// subtree. forced addresses the layer itself.
func (l *Layer) Dispatch(ev *Event, forced bool) {
	if forced {
		l.accept(ev)
		return
	}
	if !l.Visible && !ev.Kind.dispatchesWhenHidden() {
		return
	}
	for _, n := range l.children {
		n.Dispatch(ev, false)
		if ev.StopPropagation {
			return
		}
	}
	if l.Visible && !l.EventTransparent && !ev.Broadcast {
		l.accept(ev)
	}
}

func (l *Layer) accept(ev *Event) {
	ev.claim(l)
	if l.OnEvent != nil {
		_ = guard(l.id, "event", func() { l.OnEvent(ev) })
	}
}

// Update advances every child unless the layer is hidden and not flagged
// UpdateWhileHidden.
func (l *Layer) Update(timestamp float64) {
	if !l.Visible && !l.UpdateWhileHidden {
		return
	}
	// Hooks may edit the child list; the children present at the start of
	// the update each run once.
	for _, n := range slices.Clone(l.children) {
		n.Update(timestamp)
	}
}

// Render draws the children back-to-front. Hidden layers draw nothing.
func (l *Layer) Render(dc *gg.Context) {
	if !l.Visible {
		return
	}
	for i := len(l.children) - 1; i >= 0; i-- {
		l.children[i].Render(dc)
	}
}
