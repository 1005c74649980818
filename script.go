package canopy

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action  string  `json:"action"`
	Label   string  `json:"label,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	FromX   float64 `json:"fromX,omitempty"`
	FromY   float64 `json:"fromY,omitempty"`
	ToX     float64 `json:"toX,omitempty"`
	ToY     float64 `json:"toY,omitempty"`
	Frames  int     `json:"frames,omitempty"`
	Key     string  `json:"key,omitempty"`
	Name    string  `json:"name,omitempty"`
	Payload any     `json:"payload,omitempty"`
}

// scriptFile is the top-level JSON structure of a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// knownActions lists the actions step understands.
var knownActions = map[string]bool{
	"screenshot": true, "click": true, "drag": true, "wait": true,
	"press": true, "move": true, "release": true, "key": true,
	"hide": true, "show": true, "offline": true, "online": true,
	"broadcast": true,
}

// Script sequences injected input, lifecycle changes and screenshots across
// ticks for automated visual testing. Attach it with Engine.SetScript.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script:
//
//	{"steps": [
//		{"action": "click", "x": 20, "y": 20},
//		{"action": "wait", "frames": 10},
//		{"action": "screenshot", "label": "after-click"}
//	]}
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// SetScript attaches s to the engine. It advances by one step per tick,
// before injected input is replayed.
func (e *Engine) SetScript(s *Script) {
	e.script = s
}

// Done reports whether every step has run and its injected input drained.
func (s *Script) Done() bool {
	return s.done
}

// step advances the script by one tick.
func (s *Script) step(e *Engine, ts float64) {
	if s.done {
		return
	}
	if len(e.injectQueue) > 0 {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "screenshot":
		e.Screenshot(st.Label)
	case "click":
		e.InjectClick(st.X, st.Y)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "press":
		e.InjectPress(st.X, st.Y)
	case "move":
		e.InjectMove(st.X, st.Y)
	case "release":
		e.InjectRelease(st.X, st.Y)
	case "key":
		e.KeyDown(st.Key, false, 0)
		e.KeyUp(st.Key, 0)
	case "hide":
		e.SetVisibility(false, ts)
	case "show":
		e.SetVisibility(true, ts)
	case "offline":
		e.SetOnline(false)
	case "online":
		e.SetOnline(true)
	case "broadcast":
		e.Broadcast(st.Name, st.Payload)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this tick counts as one
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 && len(e.injectQueue) == 0 {
		s.done = true
	}
}
