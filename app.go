package main

import (
	"fmt"
	"image"
	"io/fs"
	"log"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/olivierh59500/dotfield/internal/capture"
	"github.com/olivierh59500/dotfield/internal/config"
	"github.com/olivierh59500/dotfield/internal/engine"
	"github.com/olivierh59500/dotfield/internal/render"
)

// Control steps for the keyboard parameter nudges
const (
	GridStep     = 1.0
	ContrastStep = 0.1
)

// App hosts the engine in an ebiten game loop
type App struct {
	Engine     *engine.Engine
	Renderer   *render.Renderer
	Recorder   *capture.Recorder
	ConfigPath string
	OutDir     string
	ShowHUD    bool

	clock    time.Time
	hovering bool
	lastX    int
	lastY    int
	dots     []render.Dot
}

// NewApp creates the host around an engine that already holds a dot field
func NewApp(e *engine.Engine, configPath, outDir string) *App {
	return &App{
		Engine:     e,
		Renderer:   render.NewRenderer(render.Palette{Default: render.DefaultColor, Accent: e.Params().AccentColor}),
		Recorder:   capture.NewRecorder(filepath.Join(outDir, "formation")),
		ConfigPath: configPath,
		OutDir:     outDir,
		ShowHUD:    true,
		clock:      time.Now(),
		lastX:      -1,
		lastY:      -1,
	}
}

// now is the host clock in ms
func (a *App) now() float64 {
	return float64(time.Since(a.clock).Microseconds()) / 1000
}

// Update is called each tick by Ebitengine
func (a *App) Update() error {
	now := a.now()

	if err := a.handleInput(now); err != nil {
		return err
	}
	if files := ebiten.DroppedFiles(); files != nil {
		a.replaceImage(files)
	}
	a.trackPointer(now)

	a.Engine.Tick(now)

	if a.Recorder.Active() {
		if !a.Recorder.Offer(now, a.renderFrame) {
			a.finishRecording()
		}
	}
	return nil
}

// Draw is called each frame by Ebitengine
func (a *App) Draw(screen *ebiten.Image) {
	a.Renderer.Palette.Accent = a.Engine.Params().AccentColor
	a.dots = a.Engine.Frame(a.dots[:0])
	a.Renderer.Draw(screen, a.dots)

	if a.ShowHUD {
		status := fmt.Sprintf("%s  dots %d  TPS %.0f", a.Engine.Mode(), len(a.dots), ebiten.ActualTPS())
		if a.Recorder.Active() {
			status += fmt.Sprintf("  recording %.0f%%", a.Recorder.Progress(a.now())*100)
		}
		ebitenutil.DebugPrint(screen, status)
	}
}

// Layout returns the display size of the dot field
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.Engine.SurfaceSize()
}

// handleInput processes keyboard input
func (a *App) handleInput(now float64) error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.Engine.StartFormation()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		a.startRecording(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		a.saveSnapshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.saveParams()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		a.loadParams()
	}

	p := a.Engine.Params()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		p.GridSpacing += GridStep
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		p.GridSpacing -= GridStep
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		p.Contrast += ContrastStep
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		p.Contrast -= ContrastStep
	default:
		return nil
	}
	a.applyParams(p)
	return nil
}

// trackPointer turns cursor polling into enter, move and leave events
func (a *App) trackPointer(now float64) {
	x, y := ebiten.CursorPosition()
	w, h := a.Engine.SurfaceSize()
	inside := x >= 0 && y >= 0 && x < w && y < h

	switch {
	case inside && !a.hovering:
		a.hovering = true
		a.Engine.PointerEnter(now)
		a.Engine.PointerMove(float64(x), float64(y), now)
	case inside && (x != a.lastX || y != a.lastY):
		a.Engine.PointerMove(float64(x), float64(y), now)
	case !inside && a.hovering:
		a.hovering = false
		a.Engine.PointerLeave()
	}
	a.lastX, a.lastY = x, y
}

// renderFrame rasterizes the current frame for the recorder
func (a *App) renderFrame() image.Image {
	w, h := a.Engine.SurfaceSize()
	r := render.NewRaster(w, h, a.Renderer.Palette)
	return r.Render(a.Engine.Frame(nil))
}

// startRecording replays the formation and captures it
func (a *App) startRecording(now float64) {
	if a.Recorder.Active() {
		return
	}
	a.Engine.StartFormation()
	if err := a.Recorder.Start(now); err != nil {
		log.Printf("record: %v", err)
		return
	}
	log.Printf("recording formation to %s", a.Recorder.Dir)
}

// finishRecording reports once the encoders drain, without stalling the loop
func (a *App) finishRecording() {
	dir := a.Recorder.Dir
	a.Recorder.Finish(func(n int, err error) {
		if err != nil {
			log.Printf("record: %v", err)
			return
		}
		log.Printf("recorded %d frames to %s", n, dir)
	})
}

// replaceImage rebuilds the field from a dropped image. A bad drop keeps the current field.
func (a *App) replaceImage(files fs.FS) {
	img, err := loadDroppedImage(files)
	if err != nil {
		log.Printf("drop: %v", err)
		return
	}
	if err := a.Engine.ReplaceImage(img); err != nil {
		log.Printf("drop: %v", err)
		return
	}
	w, h := a.Engine.SurfaceSize()
	ebiten.SetWindowSize(w, h)
}

// saveSnapshot writes the current frame as PNG
func (a *App) saveSnapshot() {
	path := filepath.Join(a.OutDir, fmt.Sprintf("dotfield_%d.png", time.Now().Unix()))
	if err := capture.Snapshot(path, a.renderFrame()); err != nil {
		log.Printf("snapshot: %v", err)
		return
	}
	log.Printf("saved %s", path)
}

// saveParams writes the active parameters to JSON
func (a *App) saveParams() {
	if err := config.Save(a.ConfigPath, a.Engine.Params()); err != nil {
		log.Printf("save params: %v", err)
		return
	}
	log.Printf("saved params to %s", a.ConfigPath)
}

// loadParams reads parameters from JSON and applies them
func (a *App) loadParams() {
	p, err := config.Load(a.ConfigPath)
	if err != nil {
		log.Printf("load params: %v", err)
		return
	}
	a.applyParams(p)
}

// applyParams validates p and hands it to the engine
func (a *App) applyParams(p config.Params) {
	if err := p.Validate(); err != nil {
		log.Printf("params rejected: %v", err)
		return
	}
	rebuilt, err := a.Engine.SetParams(p)
	if err != nil {
		log.Printf("apply params: %v", err)
		return
	}
	if rebuilt {
		w, h := a.Engine.SurfaceSize()
		ebiten.SetWindowSize(w, h)
	}
}
