package engine

import (
	"fmt"
	"image"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/olivierh59500/dotfield/internal/config"
	"github.com/olivierh59500/dotfield/internal/dotfield"
	"github.com/olivierh59500/dotfield/internal/force"
	"github.com/olivierh59500/dotfield/internal/formation"
	"github.com/olivierh59500/dotfield/internal/noise"
	"github.com/olivierh59500/dotfield/internal/render"
)

// Mode is the simulation regime
type Mode int

const (
	Forming Mode = iota
	Interactive
)

func (m Mode) String() string {
	switch m {
	case Forming:
		return "forming"
	case Interactive:
		return "interactive"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Options configures an Engine
type Options struct {
	Seed                int64 // 0 seeds from the clock
	Workers             int   // Goroutines for the interactive step
	Build               dotfield.Options
	OnFormationComplete func() // Called once per formation run, outside the engine lock
}

// Engine owns the dot field and advances it one frame per Tick.
// All methods are safe to call from multiple goroutines.
type Engine struct {
	mu sync.Mutex

	opts   Options
	rng    *rand.Rand
	field  *force.Field
	params config.Params

	source    image.Image
	layout    *dotfield.Field
	particles []dotfield.Particle
	opacity   []float64
	dots      []render.Dot

	pointer force.Pointer

	mode         Mode
	start        float64 // ms, formation start on the host clock
	startPending bool    // Latch start on the next Tick
}

// New creates an engine with default parameters and no dot field
func New(opts Options) *Engine {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &Engine{
		opts:   opts,
		rng:    rng,
		field:  force.NewField(noise.New(rng.Int63()), opts.Workers),
		params: config.Default(),
		mode:   Interactive,
	}
}

// Rebuild samples img with params and starts a formation. On error the
// current dot field, parameters and mode are left untouched.
func (e *Engine) Rebuild(img image.Image, params config.Params) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rebuild(img, params)
}

// ReplaceImage rebuilds from a new image with the current parameters
func (e *Engine) ReplaceImage(img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rebuild(img, e.params)
}

func (e *Engine) rebuild(img image.Image, params config.Params) error {
	f, err := dotfield.Build(img, params, e.opts.Build, e.rng)
	if err != nil {
		return fmt.Errorf("rebuilding dot field: %w", err)
	}
	e.source = img
	e.params = params
	e.layout = f
	e.particles = f.Particles
	e.opacity = make([]float64, len(f.Particles))
	e.dots = make([]render.Dot, len(f.Particles))
	e.startFormation()
	return nil
}

// StartFormation scatters every dot and replays the formation. Velocities
// are discarded immediately; the timeline starts at the next Tick.
func (e *Engine) StartFormation() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startFormation()
}

func (e *Engine) startFormation() {
	if e.layout == nil {
		return
	}
	formation.Start(e.particles, e.layout.Width, e.layout.Height, e.rng)
	e.mode = Forming
	e.startPending = true
}

// SetParams applies new parameters. Changes that alter dot generation
// rebuild the field from the current image and restart the formation;
// everything else takes effect on the next Tick.
func (e *Engine) SetParams(p config.Params) (rebuilt bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.source == nil || e.params.SameLayout(p) {
		e.params = p
		return false, nil
	}
	if err := e.rebuild(e.source, p); err != nil {
		return false, err
	}
	return true, nil
}

// PointerMove records a pointer position in surface coordinates
func (e *Engine) PointerMove(x, y, now float64) {
	e.mu.Lock()
	e.pointer.Move(x, y, now)
	e.mu.Unlock()
}

// PointerEnter marks the start of a hover
func (e *Engine) PointerEnter(now float64) {
	e.mu.Lock()
	e.pointer.Enter(now)
	e.mu.Unlock()
}

// PointerLeave marks the end of a hover
func (e *Engine) PointerLeave() {
	e.mu.Lock()
	e.pointer.Leave()
	e.mu.Unlock()
}

// Tick advances the simulation to now (ms on the host clock)
func (e *Engine) Tick(now float64) {
	completed := e.tick(now)
	if completed && e.opts.OnFormationComplete != nil {
		e.opts.OnFormationComplete()
	}
}

func (e *Engine) tick(now float64) (completed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pointer.Age(now)
	if e.layout == nil {
		return false
	}

	if e.mode == Forming {
		if e.startPending {
			e.start = now
			e.startPending = false
		}
		global := formation.Progress(now - e.start)
		for i := range e.particles {
			p := &e.particles[i]
			x, y, op := formation.Apply(p, global)
			e.dots[i] = render.Dot{X: x, Y: y, Radius: p.Radius(), Opacity: op, Accent: p.Accent}
		}
		if global >= 1 {
			e.mode = Interactive
			return true
		}
		return false
	}

	e.field.Step(e.particles, e.opacity, &e.pointer, e.settings(), now*0.001)
	for i := range e.particles {
		p := &e.particles[i]
		e.dots[i] = render.Dot{X: p.X, Y: p.Y, Radius: p.Radius(), Opacity: e.opacity[i], Accent: p.Accent}
	}
	return false
}

func (e *Engine) settings() force.Settings {
	return force.Settings{
		MouseRadius:       e.params.MouseRadius,
		RepulsionStrength: e.params.RepulsionStrength,
		ReturnSpeed:       e.params.ReturnSpeed,
	}
}

// Frame appends the dots resolved by the last Tick to dst
func (e *Engine) Frame(dst []render.Dot) []render.Dot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append(dst, e.dots...)
}

// Mode returns the current regime
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Params returns the active parameters
func (e *Engine) Params() config.Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// Particles returns a copy of the particle set
func (e *Engine) Particles() []dotfield.Particle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]dotfield.Particle(nil), e.particles...)
}

// Size returns the display size of the current field, or 0x0 before the first build
func (e *Engine) Size() (width, height float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.layout == nil {
		return 0, 0
	}
	return e.layout.Width, e.layout.Height
}

// SurfaceSize rounds the display size to whole pixels, at least 1x1
func (e *Engine) SurfaceSize() (width, height int) {
	w, h := e.Size()
	return max(1, int(math.Ceil(w))), max(1, int(math.Ceil(h)))
}
