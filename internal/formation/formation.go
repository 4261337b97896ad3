package formation

import (
	"math"
	"math/rand"

	"github.com/olivierh59500/dotfield/internal/dotfield"
)

// Timeline constants
const (
	Duration      = 8000.0 // Formation length in ms
	SettleMargin  = 500.0  // Extra time recorders should keep capturing after formation
	SpawnMinDist  = 0.4    // Spawn distance range as a fraction of the larger display side
	SpawnDistSpan = 0.8
	DelaySpan     = 0.5 // Delay range driven by darkness
	DelayJitter   = 0.1
	FadeShare     = 0.3 // Share of a dot's own window spent fading in
)

// EaseOutCubic decelerates toward t=1
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutQuad accelerates until t=0.5 then decelerates
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// lerp is exact at both ends
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Start scatters every particle around the display center and assigns
// staggered delays: brighter dots start sooner, darker ones later.
// Velocity is reset and the live position is moved to the spawn point.
func Start(particles []dotfield.Particle, width, height float64, rng *rand.Rand) {
	cx, cy := width/2, height/2
	reach := math.Max(width, height)
	for i := range particles {
		p := &particles[i]

		angle := rng.Float64() * math.Pi * 2
		dist := reach * (SpawnMinDist + rng.Float64()*SpawnDistSpan)
		p.SpawnX = cx + math.Cos(angle)*dist
		p.SpawnY = cy + math.Sin(angle)*dist

		p.Delay = (1-p.Brightness/255)*DelaySpan + rng.Float64()*DelayJitter

		p.X, p.Y = p.SpawnX, p.SpawnY
		p.VX, p.VY = 0, 0
	}
}

// Progress maps elapsed ms onto the global [0,1] timeline
func Progress(elapsed float64) float64 {
	return clamp01(elapsed / Duration)
}

// Local returns a particle's own progress given its delay
func Local(global, delay float64) float64 {
	return clamp01((global - delay) / (1 - delay))
}

// Opacity is the fade-in for a particle's local progress
func Opacity(local float64) float64 {
	return EaseInOutQuad(math.Min(1, local/FadeShare))
}

// Apply moves p along its spawn-to-rest path for the given global progress
// and returns the draw position and opacity. The live position follows the
// draw position so the interactive regime picks up where formation ends.
func Apply(p *dotfield.Particle, global float64) (x, y, opacity float64) {
	local := Local(global, p.Delay)
	eased := EaseOutCubic(local)

	x = lerp(p.SpawnX, p.RestX, eased)
	y = lerp(p.SpawnY, p.RestY, eased)
	p.X, p.Y = x, y

	return x, y, Opacity(local)
}
