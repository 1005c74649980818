package main

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/canopy"
)

var (
	backdropColor = canopy.Color{R: 0.12, G: 0.13, B: 0.16, A: 1}
	boxColors     = []canopy.Color{
		{R: 0.90, G: 0.36, B: 0.31, A: 1},
		{R: 0.33, G: 0.71, B: 0.45, A: 1},
		{R: 0.30, G: 0.52, B: 0.89, A: 1},
	}
	highlight = canopy.Color{R: 1, G: 0.85, B: 0.3, A: 1}
)

// noticeReset glides every box back where it started.
const noticeReset = "reset"

// glideDuration is how long a reset box takes to get home, in ms.
const glideDuration = 400

// buildScene populates e's stage with the demo: draggable boxes that light
// up under the pointer, a spinner, a pulsing keyframe sequence, a key echo
// and a help layer toggled with H.
func buildScene(e *canopy.Engine) error {
	cfg := e.Config()
	w, h := float64(cfg.Width), float64(cfg.Height)

	background := canopy.NewLayer("background")
	backdrop := canopy.NewSprite("backdrop", canopy.Rect{Width: w, Height: h})
	backdrop.Fill = backdropColor
	background.Add(backdrop)

	boxes := canopy.NewLayer("boxes")
	for i, c := range boxColors {
		boxes.Add(newBox(fmt.Sprintf("box-%d", i), 40+float64(i)*110, 60, c))
	}

	spinner := canopy.NewSprite("spinner", canopy.Rect{X: w - 140, Y: 60, Width: 80, Height: 16})
	spinner.Fill = highlight
	spinner.SetBasePoint(gg.Pt(40, 8))
	spin := canopy.NewAngleAnimation(0, 2*math.Pi, 2000, true)
	spinner.AddAnimation(spin)
	spin.Start()
	boxes.Add(spinner)

	pulse := canopy.NewSprite("pulse", canopy.Rect{X: w - 140, Y: 140, Width: 80, Height: 80})
	pulse.Fill = boxColors[2]
	beat := canopy.NewKeyframeAnimation(true,
		canopy.NewSizeAnimation(gg.Pt(80, 80), gg.Pt(60, 60), 300, false),
		canopy.NewColorAnimation(boxColors[2], highlight, 400, false),
		canopy.NewSizeAnimation(gg.Pt(60, 60), gg.Pt(80, 80), 300, false),
		canopy.NewColorAnimation(highlight, boxColors[2], 400, false),
	)
	pulse.AddAnimation(beat)
	beat.Start()
	boxes.Add(pulse)

	face := canopy.DefaultFace(16)
	echo := canopy.NewTextSprite("echo", "press a key", face, 40, h-40)
	echo.Fill = canopy.ColorWhite
	boxes.Add(echo)

	help := canopy.NewLayer("help")
	help.Visible = false
	help.EventTransparent = false
	panel := canopy.NewSprite("help-panel", canopy.Rect{X: 20, Y: 20, Width: w - 40, Height: h - 40})
	panel.Fill = canopy.Color{A: 0.8}
	panel.SetOpacity(0.9)
	help.Add(panel)
	lines := []string{"drag the boxes", "H toggles this help", "R resets the boxes", "Escape quits"}
	for i, line := range lines {
		t := canopy.NewTextSprite(fmt.Sprintf("help-%d", i), line, face, 40, 60+float64(i)*24)
		t.Fill = canopy.ColorWhite
		help.Add(t)
	}

	echo.OnKeyboard = func(ev *canopy.Event) {
		if ev.Type == canopy.EventKeyDown {
			echo.Text = "key: " + ev.Key
		}
	}
	// Engine-level shortcuts, seen even while the help layer is up.
	e.Events().On(canopy.EventKeyDown, func(ev *canopy.Event) {
		if ev.Repeat {
			return
		}
		switch ev.Key {
		case "H":
			help.Visible = !help.Visible
		case "R":
			e.Broadcast(noticeReset, nil)
		case "Escape":
			e.Shutdown()
		}
	})

	stage := e.Stage()
	stage.AddLayer(background)
	stage.AddLayer(boxes)
	stage.AddLayer(help)

	e.Events().On(canopy.EventReady, func(*canopy.Event) {
		canopy.Logger().Info("demo ready", "layers", len(stage.Layers()))
	})
	return nil
}

// newBox creates a draggable box. Dragging captures the pointer so the box
// follows it even when the cursor outruns the box. A reset eases it home.
func newBox(id string, x, y float64, c canopy.Color) *canopy.Sprite {
	home := canopy.Rect{X: x, Y: y, Width: 90, Height: 90}
	box := canopy.NewSprite(id, home)
	var from gg.Point
	glide := canopy.NewFloatAnimation(0, 1, glideDuration, false, func(s *canopy.Sprite, v float64) {
		f := float64(ease.OutCubic(float32(v), 0, 1, 1))
		r := s.Rect()
		r.X = from.X + (home.X-from.X)*f
		r.Y = from.Y + (home.Y-from.Y)*f
		s.SetRect(r)
	})
	box.AddAnimation(glide)
	box.Fill = c
	box.Stroke = canopy.ColorWhite
	box.OnMouse = func(ev *canopy.Event) {
		switch ev.Type {
		case canopy.EventMouseEnter:
			box.StrokeWidth = 3
		case canopy.EventMouseLeave:
			box.StrokeWidth = 0
		case canopy.EventMouseDown:
			glide.Stop()
			r := box.Rect()
			ev.Capture(gg.Pt(ev.X-r.X, ev.Y-r.Y))
			box.Parent().BringToFront(box)
		case canopy.EventMouseMove:
			if off, ok := ev.CaptureContext.(gg.Point); ok && ev.Captured {
				r := box.Rect()
				r.X, r.Y = ev.X-off.X, ev.Y-off.Y
				box.SetRect(r)
			}
		}
	}
	box.OnNotice = func(ev *canopy.Event) {
		if ev.Type == noticeReset {
			r := box.Rect()
			from = gg.Pt(r.X, r.Y)
			glide.Restart()
		}
	}
	return box
}
