package layout

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultLayout []byte

// ErrInvalidLayout is returned when a layout description fails validation
var ErrInvalidLayout = errors.New("invalid layout")

// Style overrides the configured panel appearance for one region.
// Empty fields fall back to the overlay defaults.
type Style struct {
	Background string `yaml:"background,omitempty" json:"background,omitempty"`
	Color      string `yaml:"color,omitempty" json:"color,omitempty"`
	FontFamily string `yaml:"font_family,omitempty" json:"font_family,omitempty"`
	FontSize   int    `yaml:"font_size,omitempty" json:"font_size,omitempty"`
}

// Region is a labeled display area positioned as fractions of the screen
type Region struct {
	Name     string  `yaml:"name"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Text     string  `yaml:"text"`
	Markdown bool    `yaml:"markdown"`
	Style    Style   `yaml:"style,omitempty"`
}

// Layout is the declarative description of the overlay's regions
type Layout struct {
	Regions []Region `yaml:"regions"`
}

// Bounds is a placed rectangle in pixels
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Placement pairs a region with its pixel bounds
type Placement struct {
	Region Region
	Bounds Bounds
}

// Parse decodes and validates a YAML layout
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Default returns the built-in two-region layout
func Default() *Layout {
	l, err := Parse(defaultLayout)
	if err != nil {
		panic(fmt.Sprintf("embedded layout: %v", err))
	}
	return l
}

// Load reads a layout file, or returns the default layout when path is empty
func Load(path string) (*Layout, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	return Parse(data)
}

// Validate checks names and that every region lies within the screen
func (l *Layout) Validate() error {
	if len(l.Regions) == 0 {
		return fmt.Errorf("%w: no regions", ErrInvalidLayout)
	}
	seen := make(map[string]bool, len(l.Regions))
	for i, r := range l.Regions {
		if r.Name == "" {
			return fmt.Errorf("%w: region %d has no name", ErrInvalidLayout, i)
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: duplicate region %q", ErrInvalidLayout, r.Name)
		}
		seen[r.Name] = true

		for _, f := range []float64{r.X, r.Y, r.Width, r.Height} {
			if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > 1 {
				return fmt.Errorf("%w: region %q: fractions must be within [0, 1]", ErrInvalidLayout, r.Name)
			}
		}
		if r.X+r.Width > 1 || r.Y+r.Height > 1 {
			return fmt.Errorf("%w: region %q extends past the screen", ErrInvalidLayout, r.Name)
		}
	}
	return nil
}

// Region returns the named region
func (l *Layout) Region(name string) (Region, bool) {
	for _, r := range l.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

// Place converts every region into pixel bounds for a width x height surface
func (l *Layout) Place(width, height int) []Placement {
	placements := make([]Placement, 0, len(l.Regions))
	for _, r := range l.Regions {
		placements = append(placements, Placement{
			Region: r,
			Bounds: Bounds{
				X:      int(r.X * float64(width)),
				Y:      int(r.Y * float64(height)),
				Width:  int(r.Width * float64(width)),
				Height: int(r.Height * float64(height)),
			},
		})
	}
	return placements
}
