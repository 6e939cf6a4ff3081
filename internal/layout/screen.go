package layout

import "fmt"

// Screen describes the display the overlay covers
type Screen struct {
	// Width and Height are the physical resolution in device pixels
	Width  int `json:"width"`
	Height int `json:"height"`
	// Scale is the DPI scale factor (physical pixels per logical pixel)
	Scale float64 `json:"scale"`
}

// ScaleOf returns physical/logical, or 1 when either side is unknown
func ScaleOf(physical, logical int) float64 {
	if physical <= 0 || logical <= 0 {
		return 1
	}
	return float64(physical) / float64(logical)
}

// Logical returns the resolution in logical (DPI-adjusted) pixels
func (s Screen) Logical() (width, height int) {
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	return int(float64(s.Width) / scale), int(float64(s.Height) / scale)
}

// Display is a monitor as reported by the GUI toolkit
type Display struct {
	Current        bool
	Primary        bool
	LogicalWidth   int
	LogicalHeight  int
	PhysicalWidth  int
	PhysicalHeight int
}

// Pick prefers the display the window is on, then the primary display, then
// the first one, and returns it as a Screen.
func Pick(displays []Display) (Screen, error) {
	if len(displays) == 0 {
		return Screen{}, fmt.Errorf("no displays reported")
	}

	chosen := displays[0]
	found := false
	for _, d := range displays {
		if d.Current {
			chosen, found = d, true
			break
		}
	}
	if !found {
		for _, d := range displays {
			if d.Primary {
				chosen = d
				break
			}
		}
	}

	pw, ph := chosen.PhysicalWidth, chosen.PhysicalHeight
	if pw == 0 || ph == 0 {
		pw, ph = chosen.LogicalWidth, chosen.LogicalHeight
	}
	return Screen{
		Width:  pw,
		Height: ph,
		Scale:  ScaleOf(pw, chosen.LogicalWidth),
	}, nil
}
