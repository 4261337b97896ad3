package force

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/olivierh59500/dotfield/internal/dotfield"
	"github.com/olivierh59500/dotfield/internal/noise"
)

// Physics constants
const (
	Damping         = 0.85 // Velocity kept per frame
	ReturnScale     = 0.1  // Applied on top of the return speed
	ForceScale      = 0.5  // Applied on top of the repulsion strength
	InfluenceReach  = 1.5  // Samples farther than this many radii are skipped
	MinForceDist    = 0.1  // Below this a sample has no usable direction
	NoiseFrequency  = 0.02
	RadiusMin       = 0.7 // Irregular radius = MouseRadius * (RadiusMin + RadiusNoise*noise)
	RadiusNoise     = 0.6
	TwinkleFloor    = 0.3
	TwinkleSwing    = 0.7
	minChunkPerTask = 256
)

// Settings are the per-frame interaction parameters
type Settings struct {
	MouseRadius       float64
	RepulsionStrength float64
	ReturnSpeed       float64
}

// Field pushes particles away from the pointer trail and springs them back to rest
type Field struct {
	Noise   *noise.Source
	Workers int // Goroutines used by Step; 1 or less steps serially
}

// NewField creates a force field using the given noise source
func NewField(n *noise.Source, workers int) *Field {
	return &Field{Noise: n, Workers: workers}
}

// Smoothstep is the cubic falloff f*f*(3-2f)
func Smoothstep(f float64) float64 {
	return f * f * (3 - 2*f)
}

// Step integrates one frame for every particle and writes the resulting
// opacity into opacity[i]. simTime is in seconds and drives the noise.
func (f *Field) Step(ps []dotfield.Particle, opacity []float64, ptr *Pointer, s Settings, simTime float64) {
	samples := ptr.Trail.Samples()
	lx, ly, live := ptr.Live()

	step := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			opacity[i] = f.stepParticle(&ps[i], samples, lx, ly, live, s, simTime)
		}
	}

	workers := f.Workers
	if workers > 1 && len(ps) >= workers*minChunkPerTask {
		var g errgroup.Group
		chunk := (len(ps) + workers - 1) / workers
		for lo := 0; lo < len(ps); lo += chunk {
			hi := min(lo+chunk, len(ps))
			g.Go(func() error {
				step(lo, hi)
				return nil
			})
		}
		g.Wait()
		return
	}
	step(0, len(ps))
}

// stepParticle applies trail repulsion, the return spring, damping and
// integration to one particle and returns its opacity. The live pointer only
// feeds the highlight factor; force comes from trail samples alone.
func (f *Field) stepParticle(p *dotfield.Particle, samples []Sample, lx, ly float64, live bool, s Settings, simTime float64) float64 {
	var maxFactor, fx, fy float64
	radius := -1.0
	irregular := func() float64 {
		if radius < 0 {
			n := f.Noise.At(p.RestX, p.RestY, NoiseFrequency, simTime)
			radius = s.MouseRadius * (RadiusMin + RadiusNoise*n)
		}
		return radius
	}

	for _, smp := range samples {
		dx := smp.X - p.X
		dy := smp.Y - p.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist > s.MouseRadius*InfluenceReach {
			continue
		}
		r := irregular()
		if dist >= r {
			continue
		}
		smooth := Smoothstep(1 - dist/r)
		maxFactor = math.Max(maxFactor, smooth)
		if dist > MinForceDist {
			force := s.RepulsionStrength * smooth * smp.Strength * ForceScale
			fx -= dx / dist * force
			fy -= dy / dist * force
		}
	}

	if live {
		dx := lx - p.X
		dy := ly - p.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if r := irregular(); dist < r {
			maxFactor = math.Max(maxFactor, Smoothstep(1-dist/r))
		}
	}

	p.VX += fx
	p.VY += fy

	p.VX += (p.RestX - p.X) * s.ReturnSpeed * ReturnScale
	p.VY += (p.RestY - p.Y) * s.ReturnSpeed * ReturnScale

	p.VX *= Damping
	p.VY *= Damping

	p.X += p.VX
	p.Y += p.VY

	if maxFactor <= 0 {
		return 1
	}
	p.TwinklePhase += p.TwinkleSpeed
	twinkle := math.Sin(p.TwinklePhase)*0.5 + 0.5
	amount := (TwinkleFloor + twinkle*TwinkleSwing) * maxFactor
	return 1 - (1-amount)*maxFactor
}
