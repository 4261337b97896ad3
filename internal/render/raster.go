package render

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points so four curves approximate a circle
const kappa = 0.5522847498

// Raster draws frames into an in-memory RGBA image. It mirrors Renderer for
// snapshots and recording, where no GPU surface is available.
type Raster struct {
	Palette Palette
	Width   int
	Height  int

	z    *vector.Rasterizer
	mask []uint8
}

// NewRaster creates a headless surface of the given size
func NewRaster(width, height int, p Palette) *Raster {
	return &Raster{
		Palette: p,
		Width:   width,
		Height:  height,
		z:       vector.NewRasterizer(1, 1),
	}
}

// Render draws dots into a fresh image
func (r *Raster) Render(dots []Dot) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	r.Draw(dst, dots)
	return dst
}

// Draw clears dst to black and composites every visible dot over it
func (r *Raster) Draw(dst *image.RGBA, dots []Dot) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	for _, d := range dots {
		if !d.Visible() {
			continue
		}
		r.drawDot(dst, d)
	}
}

// drawDot rasterizes the circle into a mask covering its bounding box, then
// composites the fill through the mask. image/draw clips the box to dst.
func (r *Raster) drawDot(dst *image.RGBA, d Dot) {
	minX := int(math.Floor(d.X - d.Radius))
	minY := int(math.Floor(d.Y - d.Radius))
	maxX := int(math.Ceil(d.X + d.Radius))
	maxY := int(math.Ceil(d.Y + d.Radius))
	box := image.Rect(minX, minY, maxX, maxY)
	if !box.Overlaps(dst.Bounds()) {
		return
	}
	w, h := box.Dx(), box.Dy()

	// The rasterizer writes the mask contiguously, so its stride must equal w
	if cap(r.mask) < w*h {
		r.mask = make([]uint8, w*h)
	}
	mask := &image.Alpha{Pix: r.mask[:w*h], Stride: w, Rect: image.Rect(0, 0, w, h)}

	r.z.Reset(w, h)
	r.z.DrawOp = draw.Src
	circle(r.z, float32(d.X-float64(minX)), float32(d.Y-float64(minY)), float32(d.Radius))
	r.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	draw.DrawMask(dst, box, image.NewUniform(r.Palette.Fill(d)), image.Point{}, mask, image.Point{}, draw.Over)
}

func circle(z *vector.Rasterizer, cx, cy, rad float32) {
	k := rad * kappa
	z.MoveTo(cx+rad, cy)
	z.CubeTo(cx+rad, cy+k, cx+k, cy+rad, cx, cy+rad)
	z.CubeTo(cx-k, cy+rad, cx-rad, cy+k, cx-rad, cy)
	z.CubeTo(cx-rad, cy-k, cx-k, cy-rad, cx, cy-rad)
	z.CubeTo(cx+k, cy-rad, cx+rad, cy-k, cx+rad, cy)
	z.ClosePath()
}
