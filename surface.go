package canopy

import (
	"image"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Surface is the visible destination of each frame.
type Surface interface {
	// Bounds returns the surface rectangle in device coordinates. Its Min
	// corner is subtracted from raw pointer coordinates.
	Bounds() image.Rectangle
	// Blit replaces the visible content with img.
	Blit(img image.Image)
	// Overlay draws debug text on top of the last blit.
	Overlay(s string)
}

// CanvasSurface is a headless Surface backed by a gg context. Tests and the
// script runner read frames back from it.
type CanvasSurface struct {
	dc      *gg.Context
	origin  image.Point
	overlay string
	blits   int
}

// NewCanvasSurface creates a w x h headless surface at device origin (0, 0).
func NewCanvasSurface(w, h int) *CanvasSurface {
	return &CanvasSurface{dc: gg.NewContext(w, h)}
}

// SetOrigin moves the surface within device space.
func (c *CanvasSurface) SetOrigin(x, y int) {
	c.origin = image.Pt(x, y)
}

// Bounds implements Surface.
func (c *CanvasSurface) Bounds() image.Rectangle {
	return image.Rectangle{Min: c.origin, Max: c.origin.Add(image.Pt(c.dc.Width(), c.dc.Height()))}
}

// Blit implements Surface.
func (c *CanvasSurface) Blit(img image.Image) {
	c.dc.Clear()
	c.dc.DrawImage(gg.ImageBufFromImage(img), 0, 0)
	c.overlay = ""
	c.blits++
}

// Overlay implements Surface.
func (c *CanvasSurface) Overlay(s string) {
	face := DefaultFace(overlayFontSize)
	c.dc.Push()
	c.dc.SetFont(face)
	c.dc.SetRGBA(1, 1, 1, 1)
	c.dc.DrawString(s, 4, 4+face.Metrics().Ascent)
	c.dc.Pop()
	c.overlay = s
}

// Image returns the visible content, overlay included.
func (c *CanvasSurface) Image() image.Image { return c.dc.Image() }

// Context returns the backing drawing context.
func (c *CanvasSurface) Context() *gg.Context { return c.dc }

// LastOverlay returns the overlay text drawn since the last blit.
func (c *CanvasSurface) LastOverlay() string { return c.overlay }

// Blits returns how many frames have been blitted.
func (c *CanvasSurface) Blits() int { return c.blits }

const overlayFontSize = 12

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

// DefaultFace returns a Go Regular face at size points. Panics if the
// embedded font cannot be parsed.
func DefaultFace(size float64) text.Face {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	if fontErr != nil {
		panic("canopy: parse default font: " + fontErr.Error())
	}
	return fontSource.Face(size)
}
