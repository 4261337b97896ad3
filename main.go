package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log"
	"os"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/olivierh59500/dotfield/internal/config"
	"github.com/olivierh59500/dotfield/internal/engine"
)

func main() {
	imagePath := flag.String("image", "", "image to turn into dots (png, jpeg, gif, webp, bmp)")
	configPath := flag.String("config", "dotfield.json", "parameter file for P (save) and L (load)")
	outDir := flag.String("out", ".", "directory for snapshots and recordings")
	seed := flag.Int64("seed", 0, "random seed, 0 for time-based")
	tps := flag.Int("tps", 60, "simulation ticks per second")
	workers := flag.Int("workers", runtime.NumCPU(), "goroutines for the interactive step")
	flag.Parse()

	if *imagePath == "" {
		fmt.Fprintln(os.Stderr, "usage: dotfield -image photo.jpg [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	params := config.Default()
	if _, err := os.Stat(*configPath); err == nil {
		if params, err = config.Load(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if err := params.Validate(); err != nil {
		log.Fatalf("invalid params in %s: %v", *configPath, err)
	}

	img, err := loadImage(*imagePath)
	if err != nil {
		log.Fatal(err)
	}

	e := engine.New(engine.Options{
		Seed:    *seed,
		Workers: *workers,
		OnFormationComplete: func() {
			log.Printf("formation complete")
		},
	})
	if err := e.Rebuild(img, params); err != nil {
		log.Fatal(err)
	}
	app := NewApp(e, *configPath, *outDir)

	// Set up Ebitengine game
	w, h := e.SurfaceSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Dot Field")
	ebiten.SetTPS(*tps)

	// Run the game loop
	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}

// loadImage decodes any registered image format
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()
	return decodeImage(f, path)
}

func decodeImage(r io.Reader, name string) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	log.Printf("loaded %s %s (%dx%d)", format, name, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// loadDroppedImage decodes the first regular file in a drop
func loadDroppedImage(files fs.FS) (image.Image, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("reading dropped files: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		f, err := files.Open(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("opening dropped file: %w", err)
		}
		defer f.Close()
		return decodeImage(f, entry.Name())
	}
	return nil, errors.New("no file in drop")
}
