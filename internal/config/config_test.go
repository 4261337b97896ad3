package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestDefaultAccentColor(t *testing.T) {
	c := Default().AccentColor
	if c != (Color{R: 0x00, G: 0xd9, B: 0xff}) {
		t.Fatalf("unexpected default accent %+v", c)
	}
	if c.String() != DefaultAccentColor {
		t.Fatalf("expected %s, got %s", DefaultAccentColor, c.String())
	}
}

func TestValidateReportsEachOutOfRangeField(t *testing.T) {
	p := Default()
	p.GridSpacing = 1
	p.ReturnSpeed = 0.9
	err := p.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, name := range []string{"gridSpacing", "returnSpeed"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("expected error to mention %s, got %q", name, err)
		}
	}
	if strings.Contains(err.Error(), "contrast") {
		t.Fatalf("contrast is in range but was reported: %q", err)
	}
}

func TestSameLayout(t *testing.T) {
	base := Default()
	tests := []struct {
		name   string
		mutate func(*Params)
		same   bool
	}{
		{"mouse radius", func(p *Params) { p.MouseRadius = 250 }, true},
		{"repulsion", func(p *Params) { p.RepulsionStrength = 2 }, true},
		{"return speed", func(p *Params) { p.ReturnSpeed = 0.1 }, true},
		{"accent color", func(p *Params) { p.AccentColor = Color{R: 255} }, true},
		{"grid spacing", func(p *Params) { p.GridSpacing = 8 }, false},
		{"contrast", func(p *Params) { p.Contrast = 1 }, false},
		{"accent probability", func(p *Params) { p.AccentProbability = 0 }, false},
		{"size variation", func(p *Params) { p.SizeVariation = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			if got := base.SameLayout(p); got != tt.same {
				t.Fatalf("SameLayout = %v, want %v", got, tt.same)
			}
		})
	}
}

func TestSaveLoadKeepsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	p := Default()
	p.GridSpacing = 6
	p.AccentColor = Color{R: 0xff, G: 0x40, B: 0x10}
	if err := Save(path, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"#ff4010"`) {
		t.Fatalf("expected hex accent colour in file, got %s", data)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != p {
		t.Fatalf("loaded %+v, want %+v", got, p)
	}
}

func TestLoadFillsMissingFieldsWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	if err := os.WriteFile(path, []byte(`{"contrast": 2}`), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	want.Contrast = 2
	if got != want {
		t.Fatalf("loaded %+v, want %+v", got, want)
	}
}

func TestLoadRejectsBadColour(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	if err := os.WriteFile(path, []byte(`{"accentColor": "teal"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for a non-hex colour")
	}
}

func TestParseShortHex(t *testing.T) {
	c, err := ParseColor("#fff")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c != (Color{255, 255, 255}) {
		t.Fatalf("got %+v", c)
	}
}
