package dotfield

import (
	"errors"
	"image"
	"math"
	"math/rand"

	"golang.org/x/image/draw"

	"github.com/olivierh59500/dotfield/internal/config"
)

// Builder constants
const (
	MaxDisplayWidth  = 720.0
	MaxDisplayHeight = 480.0
	MinSpacing       = 2.0  // Smallest grid step after scaling
	SizeFill         = 0.9  // Share of a cell a full-brightness dot covers
	MinDotSize       = 0.5  // Dots at or below this diameter are dropped
	AccentBrightness = 150  // Only brighter dots may become accents
	TwinkleSpeedBase = 0.02 // Minimum twinkle phase step per frame
	TwinkleSpeedJit  = 0.03
)

// ErrEmptyImage is returned when the source image has no pixels
var ErrEmptyImage = errors.New("dotfield: image has zero width or height")

// Options controls the display surface the field is laid out on
type Options struct {
	MaxWidth, MaxHeight float64 // Bounding box the image is fitted into
	PixelRatio          float64 // Backing pixels per display pixel
}

// DefaultOptions fits into 720x480 at a pixel ratio of 1
func DefaultOptions() Options {
	return Options{MaxWidth: MaxDisplayWidth, MaxHeight: MaxDisplayHeight, PixelRatio: 1}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxWidth <= 0 {
		o.MaxWidth = d.MaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = d.MaxHeight
	}
	if o.PixelRatio <= 0 {
		o.PixelRatio = d.PixelRatio
	}
	return o
}

// Field is the result of sampling an image
type Field struct {
	Particles     []Particle
	Width, Height float64 // Display size
	Scale         float64 // Display size / source size
	Spacing       float64 // Grid step in display pixels
}

// DisplayScale returns the factor that fits w x h into the box without upscaling
func DisplayScale(w, h int, maxW, maxH float64) float64 {
	return math.Min(1, math.Min(maxW/float64(w), maxH/float64(h)))
}

// AdjustContrast applies the contrast curve to one 8-bit channel
func AdjustContrast(c uint8, contrast float64) float64 {
	v := ((float64(c)/255-0.5)*contrast + 0.5) * 255
	return math.Max(0, math.Min(255, math.RoundToEven(v)))
}

// Build samples img on a regular grid and returns one particle per cell whose
// brightness-derived dot is large enough to draw. Dark regions come out sparse.
func Build(img image.Image, p config.Params, opts Options, rng *rand.Rand) (*Field, error) {
	if img == nil {
		return nil, ErrEmptyImage
	}
	src := img.Bounds()
	if src.Dx() <= 0 || src.Dy() <= 0 {
		return nil, ErrEmptyImage
	}
	opts = opts.withDefaults()

	scale := DisplayScale(src.Dx(), src.Dy(), opts.MaxWidth, opts.MaxHeight)
	displayW := float64(src.Dx()) * scale
	displayH := float64(src.Dy()) * scale

	// Backing raster, smoothing disabled. Channels stay straight (not
	// premultiplied) so partially transparent pixels keep their colour.
	backing := image.NewNRGBA(image.Rect(0, 0, int(displayW*opts.PixelRatio), int(displayH*opts.PixelRatio)))
	draw.NearestNeighbor.Scale(backing, backing.Bounds(), img, src, draw.Src, nil)

	spacing := math.Max(MinSpacing, p.GridSpacing*scale)
	f := &Field{Width: displayW, Height: displayH, Scale: scale, Spacing: spacing}

	for y := 0.0; y < displayH; y += spacing {
		for x := 0.0; x < displayW; x += spacing {
			sx := int(math.Floor(x * opts.PixelRatio))
			sy := int(math.Floor(y * opts.PixelRatio))
			if !image.Pt(sx, sy).In(backing.Bounds()) {
				continue
			}
			brightness := sampleBrightness(backing, sx, sy, p.Contrast)
			size := (brightness / 255) * spacing * SizeFill
			if size <= MinDotSize {
				continue
			}

			cx := x + spacing/2
			cy := y + spacing/2
			sizeMultiplier := 1 + (rng.Float64()-0.5)*p.SizeVariation
			accent := rng.Float64() < p.AccentProbability && brightness > AccentBrightness

			f.Particles = append(f.Particles, Particle{
				RestX:          cx,
				RestY:          cy,
				X:              cx,
				Y:              cy,
				SpawnX:         cx,
				SpawnY:         cy,
				BaseSize:       size,
				SizeMultiplier: sizeMultiplier,
				Brightness:     brightness,
				Accent:         accent,
				TwinklePhase:   rng.Float64() * math.Pi * 2,
				TwinkleSpeed:   TwinkleSpeedBase + rng.Float64()*TwinkleSpeedJit,
			})
		}
	}

	return f, nil
}

// sampleBrightness is the unweighted channel mean after contrast. Alpha is ignored.
func sampleBrightness(img *image.NRGBA, x, y int, contrast float64) float64 {
	i := img.PixOffset(x, y)
	r := AdjustContrast(img.Pix[i], contrast)
	g := AdjustContrast(img.Pix[i+1], contrast)
	b := AdjustContrast(img.Pix[i+2], contrast)
	return (r + g + b) / 3
}
