package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Default parameter values
const (
	DefaultGridSpacing       = 4.0
	DefaultContrast          = 1.5
	DefaultAccentColor       = "#00d9ff"
	DefaultMouseRadius       = 100.0
	DefaultRepulsionStrength = 1.0
	DefaultReturnSpeed       = 0.3
	DefaultAccentProbability = 0.03
	DefaultSizeVariation     = 0.3
)

// Params holds every tunable of the dot field and its interaction
type Params struct {
	GridSpacing       float64 `json:"gridSpacing"`       // Grid step in source pixels, before display scaling
	Contrast          float64 `json:"contrast"`          // Channel contrast multiplier
	AccentColor       Color   `json:"accentColor"`       // Fill for accent dots
	MouseRadius       float64 `json:"mouseRadius"`       // Pointer influence radius in px
	RepulsionStrength float64 `json:"repulsionStrength"` // Force scale for trail repulsion
	ReturnSpeed       float64 `json:"returnSpeed"`       // Spring constant toward rest
	AccentProbability float64 `json:"accentProbability"` // Chance for a bright dot to be an accent
	SizeVariation     float64 `json:"sizeVariation"`     // Random size jitter amplitude
}

// Default returns the parameters the tool starts with
func Default() Params {
	accent, _ := ParseColor(DefaultAccentColor)
	return Params{
		GridSpacing:       DefaultGridSpacing,
		Contrast:          DefaultContrast,
		AccentColor:       accent,
		MouseRadius:       DefaultMouseRadius,
		RepulsionStrength: DefaultRepulsionStrength,
		ReturnSpeed:       DefaultReturnSpeed,
		AccentProbability: DefaultAccentProbability,
		SizeVariation:     DefaultSizeVariation,
	}
}

// SameLayout reports whether p and o produce the same dot field.
// Only grid spacing, contrast, accent probability and size variation affect generation.
func (p Params) SameLayout(o Params) bool {
	return p.GridSpacing == o.GridSpacing &&
		p.Contrast == o.Contrast &&
		p.AccentProbability == o.AccentProbability &&
		p.SizeVariation == o.SizeVariation
}

type bound struct {
	name     string
	v        float64
	min, max float64
}

// Validate checks every value against the ranges the controls expose.
// The engine never clamps on its own; hosts call this before applying.
func (p Params) Validate() error {
	var errs []error
	for _, b := range []bound{
		{"gridSpacing", p.GridSpacing, 2, 12},
		{"contrast", p.Contrast, 0.5, 2.0},
		{"mouseRadius", p.MouseRadius, 50, 300},
		{"repulsionStrength", p.RepulsionStrength, 0.1, 2.0},
		{"returnSpeed", p.ReturnSpeed, 0.05, 0.3},
		{"accentProbability", p.AccentProbability, 0, 0.1},
		{"sizeVariation", p.SizeVariation, 0, 0.5},
	} {
		if b.v < b.min || b.v > b.max {
			errs = append(errs, fmt.Errorf("%s %v outside [%v, %v]", b.name, b.v, b.min, b.max))
		}
	}
	return errors.Join(errs...)
}

// Load reads parameters from a JSON file. Missing fields keep their defaults.
func Load(filename string) (Params, error) {
	p := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		return p, fmt.Errorf("reading params: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("decoding params: %w", err)
	}
	return p, nil
}

// Save writes parameters to a JSON file
func Save(filename string, p Params) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding params: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing params: %w", err)
	}
	return nil
}
