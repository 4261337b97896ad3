package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/olivierh59500/dotfield/internal/formation"
)

// Recording defaults
const (
	DefaultFPS    = 30.0
	DefaultWindow = formation.Duration + formation.SettleMargin // ms
	encoders      = 4
)

// ErrNotRecording is returned by Wait when Start was never called
var ErrNotRecording = errors.New("capture: recorder was not started")

// Recorder writes a time-bounded frame stream as numbered PNG files.
// Frames are encoded in the background; Wait blocks until they are on disk.
type Recorder struct {
	Dir    string
	FPS    float64
	Window float64 // ms of capture after Start

	start  float64
	next   float64
	frames int
	active bool
	g      *errgroup.Group
}

// NewRecorder creates a recorder that covers a formation plus its settle margin
func NewRecorder(dir string) *Recorder {
	return &Recorder{Dir: dir, FPS: DefaultFPS, Window: DefaultWindow}
}

// Start begins a new capture window at now (ms)
func (r *Recorder) Start(now float64) error {
	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return fmt.Errorf("creating capture dir: %w", err)
	}
	r.start = now
	r.next = now
	r.frames = 0
	r.active = true
	r.g = new(errgroup.Group)
	r.g.SetLimit(encoders)
	return nil
}

// Active reports whether the capture window is still open
func (r *Recorder) Active() bool {
	return r.active
}

// Progress returns how much of the window has elapsed, in [0,1]
func (r *Recorder) Progress(now float64) float64 {
	if r.Window <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, (now-r.start)/r.Window))
}

// Offer captures a frame if one is due at now. frame is only called when a
// capture happens and must return an image the caller will not reuse.
// It returns false once the window has closed.
func (r *Recorder) Offer(now float64, frame func() image.Image) bool {
	if !r.active {
		return false
	}
	if now-r.start >= r.Window {
		r.active = false
		return false
	}
	if now < r.next {
		return true
	}

	img := frame()
	path := filepath.Join(r.Dir, fmt.Sprintf("frame_%05d.png", r.frames))
	r.frames++
	r.next = r.start + float64(r.frames)*1000/r.FPS
	r.g.Go(func() error {
		return Snapshot(path, img)
	})
	return true
}

// Wait closes the window and blocks until every frame is written.
// It returns the number of frames captured.
func (r *Recorder) Wait() (int, error) {
	if r.g == nil {
		return 0, ErrNotRecording
	}
	r.active = false
	if err := r.g.Wait(); err != nil {
		return r.frames, err
	}
	return r.frames, nil
}

// Finish closes the window without blocking. done runs on its own goroutine
// once every frame is written. A new Start may begin before done runs.
func (r *Recorder) Finish(done func(frames int, err error)) {
	if r.g == nil {
		go done(0, ErrNotRecording)
		return
	}
	r.active = false
	g, n := r.g, r.frames
	go func() {
		done(n, g.Wait())
	}()
}

// Snapshot writes img to path as PNG
func Snapshot(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
