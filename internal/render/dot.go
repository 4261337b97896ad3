package render

import (
	"image/color"
	"math"
)

var (
	Background   = color.RGBA{0, 0, 0, 255}
	DefaultColor = color.RGBA{255, 255, 255, 255}
)

// Dot is one resolved circle for the current frame
type Dot struct {
	X, Y    float64
	Radius  float64
	Opacity float64 // 0-1
	Accent  bool
}

// Palette picks fill colours for dots
type Palette struct {
	Default color.Color
	Accent  color.Color
}

// Fill returns the dot colour with its opacity folded into alpha
func (p Palette) Fill(d Dot) color.NRGBA {
	base := p.Default
	if d.Accent {
		base = p.Accent
	}
	if base == nil {
		base = DefaultColor
	}
	c := color.NRGBAModel.Convert(base).(color.NRGBA)
	op := math.Max(0, math.Min(1, d.Opacity))
	c.A = uint8(math.Round(float64(c.A) * op))
	return c
}

// Visible reports whether drawing d changes any pixel
func (d Dot) Visible() bool {
	return d.Radius > 0 && d.Opacity > 0
}
