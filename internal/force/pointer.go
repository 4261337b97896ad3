package force

import "math"

// Trail constants
const (
	TrailRetention = 150.0 // ms a trail sample keeps pushing dots
	IdleTimeout    = 100.0 // ms without movement after which the trail is dropped
	TrailStep      = 10.0  // px between interpolated samples
	FullSpeed      = 10.0  // px per move event that yields full strength
)

// Sample is one timestamped pointer position along the trail
type Sample struct {
	X, Y     float64
	T        float64 // ms
	Strength float64 // 0-1, from pointer speed
}

// Trail holds recent samples in chronological order
type Trail struct {
	samples []Sample
}

// Push appends a sample
func (t *Trail) Push(s Sample) {
	t.samples = append(t.samples, s)
}

// Evict drops samples that are TrailRetention or more old
func (t *Trail) Evict(now float64) {
	kept := t.samples[:0]
	for _, s := range t.samples {
		if now-s.T < TrailRetention {
			kept = append(kept, s)
		}
	}
	t.samples = kept
}

// Clear drops every sample
func (t *Trail) Clear() {
	t.samples = t.samples[:0]
}

// Samples returns the live samples; callers must not keep the slice
func (t *Trail) Samples() []Sample {
	return t.samples
}

// Len returns the number of live samples
func (t *Trail) Len() int {
	return len(t.samples)
}

// Pointer tracks the host pointer and the trail it leaves behind
type Pointer struct {
	X, Y         float64
	PrevX, PrevY float64
	LastMove     float64 // ms of the last move or enter
	Trail        Trail

	present bool // Position known and inside the surface
	placed  bool // First move after enter has been seen
}

// Enter starts a hover. The next move only places the pointer.
func (p *Pointer) Enter(now float64) {
	p.LastMove = now
	p.placed = false
}

// Leave ends a hover. The live position stops counting; the trail ages out.
func (p *Pointer) Leave() {
	p.present = false
	p.placed = false
}

// Move records a new pointer position and extends the trail with samples
// interpolated every TrailStep px between the previous and new positions.
func (p *Pointer) Move(x, y, now float64) {
	p.LastMove = now
	p.present = true

	if !p.placed {
		p.X, p.Y = x, y
		p.PrevX, p.PrevY = x, y
		p.placed = true
		return
	}

	p.PrevX, p.PrevY = p.X, p.Y
	p.X, p.Y = x, y

	vx, vy := x-p.PrevX, y-p.PrevY
	speed := math.Hypot(vx, vy)
	strength := math.Min(speed/FullSpeed, 1)
	steps := max(1, int(math.Ceil(speed/TrailStep)))

	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps)
		p.Trail.Push(Sample{
			X:        p.PrevX + vx*t,
			Y:        p.PrevY + vy*t,
			T:        now,
			Strength: strength,
		})
	}

	p.Trail.Evict(now)
}

// Live returns the current pointer position if it is over the surface
func (p *Pointer) Live() (x, y float64, ok bool) {
	return p.X, p.Y, p.present
}

// Idle reports whether the pointer has been still for IdleTimeout or longer
func (p *Pointer) Idle(now float64) bool {
	return now-p.LastMove >= IdleTimeout
}

// Age evicts stale samples and clears the trail when the pointer is idle
func (p *Pointer) Age(now float64) {
	if p.Idle(now) {
		p.Trail.Clear()
		return
	}
	p.Trail.Evict(now)
}
