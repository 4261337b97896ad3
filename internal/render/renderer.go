package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Renderer draws a frame's dots onto an ebiten surface
type Renderer struct {
	Palette Palette
}

// NewRenderer creates a renderer with the default white and the given accent
func NewRenderer(p Palette) *Renderer {
	return &Renderer{Palette: p}
}

// Draw clears the surface to black and draws every visible dot
func (r *Renderer) Draw(screen *ebiten.Image, dots []Dot) {
	screen.Fill(Background)
	for _, d := range dots {
		if !d.Visible() {
			continue
		}
		vector.DrawFilledCircle(screen, float32(d.X), float32(d.Y), float32(d.Radius), r.Palette.Fill(d), true)
	}
}
