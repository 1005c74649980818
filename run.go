package canopy

import (
	"errors"
	"image"
	"image/draw"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenSurface is the visible surface of a window opened by Run. Each blit
// uploads the offscreen pixels into an ebiten image drawn on the next screen
// refresh.
type EbitenSurface struct {
	buffer  *ebiten.Image
	scratch *image.RGBA
	overlay string
	width   int
	height  int
}

// NewEbitenSurface creates a w x h surface.
func NewEbitenSurface(w, h int) *EbitenSurface {
	return &EbitenSurface{
		buffer:  ebiten.NewImage(w, h),
		scratch: image.NewRGBA(image.Rect(0, 0, w, h)),
		width:   w,
		height:  h,
	}
}

// Bounds implements Surface. Cursor positions reported by ebiten are
// already relative to the layout, so the origin is (0, 0).
func (s *EbitenSurface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// Blit implements Surface.
func (s *EbitenSurface) Blit(img image.Image) {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*s.width || rgba.Rect.Dx() != s.width || rgba.Rect.Dy() != s.height {
		draw.Draw(s.scratch, s.scratch.Rect, img, img.Bounds().Min, draw.Src)
		rgba = s.scratch
	}
	s.buffer.WritePixels(rgba.Pix)
	s.overlay = ""
}

// Overlay implements Surface. The text is printed on the next Draw.
func (s *EbitenSurface) Overlay(text string) {
	s.overlay = text
}

// Draw copies the last blit, and the overlay if any, onto screen.
func (s *EbitenSurface) Draw(screen *ebiten.Image) {
	screen.DrawImage(s.buffer, nil)
	if s.overlay != "" {
		drawOverlay(screen, s.overlay)
	}
}

// game adapts an Engine to ebiten.Game. Update runs once per display
// refresh and hands the engine a monotonic timestamp.
type game struct {
	engine  *Engine
	surface *EbitenSurface
	input   *inputPoller
}

func (g *game) Update() error {
	if g.engine.Closed() {
		return ebiten.Termination
	}
	g.input.poll(g.engine)
	g.engine.Frame(Now())
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.surface.Draw(screen)
}

func (g *game) Layout(_, _ int) (int, int) {
	cfg := g.engine.Config()
	return cfg.Width, cfg.Height
}

// Run opens a window, creates an Engine drawing into it, calls setup and
// runs the frame loop until the window closes or the engine is shut down.
//
//	err := canopy.Run(canopy.DefaultConfig(), func(e *canopy.Engine) error {
//		layer := canopy.NewLayer("main")
//		e.Stage().AddLayer(layer)
//		return nil
//	})
func Run(cfg Config, setup func(e *Engine) error) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	surface := NewEbitenSurface(cfg.Width, cfg.Height)
	e, err := New(cfg, surface)
	if err != nil {
		return err
	}
	defer e.Shutdown()
	if setup != nil {
		if err := setup(e); err != nil {
			return err
		}
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	// The scheduler decides which refreshes tick; Update must run once per refresh.
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetRunnableOnUnfocused(true)

	err = ebiten.RunGame(&game{engine: e, surface: surface, input: newInputPoller()})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
