package noise

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Perlin generator settings
const (
	Alpha   = 2.0 // Weight when the sum is formed
	Beta    = 2.0 // Harmonic scaling/spacing
	Octaves = 3
)

// Source is a deterministic smooth noise field over (x, y, time)
type Source struct {
	p *perlin.Perlin
}

// New creates a noise source for the given seed
func New(seed int64) *Source {
	return &Source{p: perlin.NewPerlin(Alpha, Beta, Octaves, seed)}
}

// At samples the field at (x*freq, y*freq, t) and maps it into [0,1]
func (s *Source) At(x, y, freq, t float64) float64 {
	v := (s.p.Noise3D(x*freq, y*freq, t) + 1) / 2
	return math.Max(0, math.Min(1, v))
}
