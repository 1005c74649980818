package canopy

import (
	"slices"

	"github.com/gogpu/gg"
)

// Stage is the root of the tree: an ordered list of Layers, front-to-back.
// The most recently added layer is offered events first and drawn last.
type Stage struct {
	layers []*Layer
}

// NewStage creates an empty stage.
func NewStage() *Stage {
	return &Stage{}
}

// AddLayer puts l in front of every existing layer. A layer attached
// elsewhere is moved.
func (s *Stage) AddLayer(l *Layer) {
	s.AddLayerAt(l, 0)
}

// AddLayerAt inserts l at index, 0 being the front.
func (s *Stage) AddLayerAt(l *Layer, index int) {
	if l == nil {
		panic("canopy: cannot add nil layer")
	}
	if index < 0 || index > len(s.layers) {
		panic("canopy: layer index out of range")
	}
	detach(l)
	s.layers = insertAt(s.layers, index, l)
	l.stage = s
}

// RemoveLayer detaches l. Panics if l is not on this stage.
func (s *Stage) RemoveLayer(l *Layer) {
	i := indexOf(s.layers, l)
	if i < 0 {
		panic("canopy: layer is not on this stage")
	}
	s.layers = removeAt(s.layers, i)
	l.stage = nil
}

// Layers returns the layers front-to-back. The returned slice MUST NOT be mutated.
func (s *Stage) Layers() []*Layer { return s.layers }

// BringToFront moves l in front of every other layer.
func (s *Stage) BringToFront(l *Layer) {
	s.move(l, 0)
}

// SendToBack moves l behind every other layer.
func (s *Stage) SendToBack(l *Layer) {
	s.move(l, len(s.layers)-1)
}

func (s *Stage) move(l *Layer, to int) {
	i := indexOf(s.layers, l)
	if i < 0 {
		panic("canopy: layer is not on this stage")
	}
	moveTo(s.layers, i, to)
}

// Find returns the first node with the given id, searching layers
// front-to-back and each subtree depth-first.
func (s *Stage) Find(id string) Node {
	for _, l := range s.layers {
		if l.id == id {
			return l
		}
		if n := l.Find(id); n != nil {
			return n
		}
	}
	return nil
}

// Dispatch offers ev to each layer front-to-back until one stops propagation.
func (s *Stage) Dispatch(ev *Event, forced bool) {
	for _, l := range s.layers {
		l.Dispatch(ev, forced)
		if ev.StopPropagation {
			return
		}
	}
}

// Broadcast delivers a broadcast notice to every node and returns it.
func (s *Stage) Broadcast(source any, name string, payload any) *Event {
	ev := NewNotice(source, name, payload, true)
	s.Dispatch(ev, false)
	return ev
}

// Update advances every layer. Each layer decides whether it runs while hidden.
func (s *Stage) Update(timestamp float64) {
	for _, l := range slices.Clone(s.layers) {
		l.Update(timestamp)
	}
}

// Render draws the layers back-to-front.
func (s *Stage) Render(dc *gg.Context) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		s.layers[i].Render(dc)
	}
}
