package dotfield

// Particle is a single dot. Rest, size, brightness and accent are fixed when
// the field is built; the remaining fields are driven by the formation
// timeline and the interactive force field.
type Particle struct {
	RestX, RestY   float64 // Image-derived resting position (cell center)
	X, Y           float64 // Live position
	SpawnX, SpawnY float64 // Formation origin
	VX, VY         float64 // Velocity, interactive regime only

	BaseSize       float64 // Diameter from brightness
	SizeMultiplier float64 // Per-dot size jitter
	Brightness     float64 // 0-255 after contrast
	Accent         bool    // Drawn with the accent colour

	TwinklePhase float64
	TwinkleSpeed float64

	Delay float64 // Normalized formation start within the formation window
}

// Radius returns the drawn circle radius
func (p *Particle) Radius() float64 {
	return p.BaseSize * p.SizeMultiplier / 2
}
