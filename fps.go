package canopy

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// overlayW and overlayH size the backdrop behind the debug text; enough for
// "16.67ms 60.0/60 fps" plus the display rate line.
const (
	overlayW = 180
	overlayH = 32
)

var overlayBackdrop = color.RGBA{0, 0, 0, 128}

// drawOverlay prints the engine timing line and ebiten's measured display
// rate in the top-left corner of screen over a translucent backdrop.
func drawOverlay(screen *ebiten.Image, text string) {
	bounds := screen.Bounds()
	w, h := min(overlayW, bounds.Dx()), min(overlayH, bounds.Dy())
	backdrop := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+w, bounds.Min.Y+h)
	screen.SubImage(backdrop).(*ebiten.Image).Fill(overlayBackdrop)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\ndisplay: %.1f", text, ebiten.ActualFPS()))
}
