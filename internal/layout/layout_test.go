package layout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	l := Default()

	if len(l.Regions) != 2 {
		t.Fatalf("Expected 2 regions, got %d", len(l.Regions))
	}
	if l.Regions[0].Name != "primary" || l.Regions[1].Name != "secondary" {
		t.Errorf("Unexpected region names: %q, %q", l.Regions[0].Name, l.Regions[1].Name)
	}
	if !l.Regions[0].Markdown {
		t.Error("Expected default regions to render markdown")
	}
}

func TestPlace_Default(t *testing.T) {
	got := Default().Place(1920, 1080)

	want := []Bounds{
		{X: 1440, Y: 0, Width: 480, Height: 270},   // top-right quadrant
		{X: 960, Y: 270, Width: 480, Height: 270}, // below-left of it
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d placements, got %d", len(want), len(got))
	}
	for i := range want {
		if diff := cmp.Diff(want[i], got[i].Bounds); diff != "" {
			t.Errorf("placement %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestPlace_Truncates(t *testing.T) {
	l := &Layout{Regions: []Region{{Name: "a", X: 0.75, Width: 0.25, Height: 0.25}}}

	got := l.Place(1366, 767)[0].Bounds
	want := Bounds{X: 1024, Y: 0, Width: 341, Height: 191}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	raw := `
regions:
  - name: clock
    x: 0
    y: 0.9
    width: 0.2
    height: 0.1
    text: "12:00"
    style:
      background: black
      font_size: 12
`
	l, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := Region{
		Name:   "clock",
		Y:      0.9,
		Width:  0.2,
		Height: 0.1,
		Text:   "12:00",
		Style:  Style{Background: "black", FontSize: 12},
	}
	if diff := cmp.Diff(want, l.Regions[0]); diff != "" {
		t.Errorf("region mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", `regions: []`},
		{"unnamed", `regions: [{x: 0, y: 0, width: 0.1, height: 0.1}]`},
		{"duplicate", `regions: [{name: a, width: 0.1, height: 0.1}, {name: a, width: 0.1, height: 0.1}]`},
		{"negative", `regions: [{name: a, x: -0.1, width: 0.1, height: 0.1}]`},
		{"overflow", `regions: [{name: a, x: 0.8, width: 0.3, height: 0.1}]`},
		{"nan", `regions: [{name: a, x: .nan, width: 0.25, height: 0.25}]`},
		{"infinite", `regions: [{name: a, y: -.inf, width: 0.25, height: 0.25}]`},
		{"nan size", `regions: [{name: a, width: .NaN, height: 0.25}]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.raw))
			if !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("Parse() error = %v; want ErrInvalidLayout", err)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("regions: [")); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoad(t *testing.T) {
	l, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if len(l.Regions) != 2 {
		t.Errorf("Expected default layout, got %d regions", len(l.Regions))
	}

	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(path, []byte(`regions: [{name: only, width: 1, height: 1}]`), 0644); err != nil {
		t.Fatal(err)
	}
	l, err = Load(path)
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", path, err)
	}
	if _, ok := l.Region("only"); !ok {
		t.Error("Expected region 'only'")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestScreen_Logical(t *testing.T) {
	tests := []struct {
		screen       Screen
		wantW, wantH int
	}{
		{Screen{Width: 3840, Height: 2160, Scale: 1.5}, 2560, 1440},
		{Screen{Width: 1920, Height: 1080, Scale: 1}, 1920, 1080},
		{Screen{Width: 1920, Height: 1080}, 1920, 1080},
	}

	for _, tc := range tests {
		w, h := tc.screen.Logical()
		if w != tc.wantW || h != tc.wantH {
			t.Errorf("%+v.Logical() = %dx%d; want %dx%d", tc.screen, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestScaleOf(t *testing.T) {
	if got := ScaleOf(3840, 2560); got != 1.5 {
		t.Errorf("ScaleOf(3840, 2560) = %v; want 1.5", got)
	}
	if got := ScaleOf(1920, 0); got != 1 {
		t.Errorf("ScaleOf(1920, 0) = %v; want 1", got)
	}
}
