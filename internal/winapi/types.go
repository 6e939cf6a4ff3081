package winapi

import (
	"errors"
	"fmt"
	"strings"
)

// Handle is an opaque OS window handle. The zero value never names a window.
type Handle uintptr

// Style holds the extended window style bits
type Style uint32

// Extended window style bits
const (
	StyleTopmost     Style = 0x00000008
	StyleTransparent Style = 0x00000020
	StyleToolWindow  Style = 0x00000080
	StyleLayered     Style = 0x00080000
	StyleNoActivate  Style = 0x08000000
)

var styleNames = []struct {
	bit  Style
	name string
}{
	{StyleTopmost, "TOPMOST"},
	{StyleTransparent, "TRANSPARENT"},
	{StyleToolWindow, "TOOLWINDOW"},
	{StyleLayered, "LAYERED"},
	{StyleNoActivate, "NOACTIVATE"},
}

// Has reports whether every bit of flag is set in s
func (s Style) Has(flag Style) bool {
	return s&flag == flag
}

func (s Style) String() string {
	var names []string
	rest := s
	for _, n := range styleNames {
		if s&n.bit != 0 {
			names = append(names, n.name)
			rest &^= n.bit
		}
	}
	if rest != 0 || len(names) == 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(names, "|")
}

// Rect is a window rectangle in screen coordinates
type Rect struct {
	Left   int32 `json:"left"`
	Top    int32 `json:"top"`
	Right  int32 `json:"right"`
	Bottom int32 `json:"bottom"`
}

// Width returns the rectangle width
func (r Rect) Width() int32 { return r.Right - r.Left }

// Height returns the rectangle height
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// RGB is a 24-bit color
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// DefaultColorKey is the sentinel color rendered as fully transparent.
// Chosen to be unlikely in real content.
var DefaultColorKey = RGB{R: 130, G: 117, B: 100}

// ColorRef packs the color as a Win32 COLORREF (0x00BBGGRR)
func (c RGB) ColorRef() uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16
}

// CSS returns the color as a CSS rgb() value
func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// InsertAfter selects the z-order band for SetWindowPos
type InsertAfter int

const (
	InsertTop InsertAfter = iota
	InsertTopmost
	InsertNoTopmost
)

func (i InsertAfter) String() string {
	switch i {
	case InsertTopmost:
		return "topmost"
	case InsertNoTopmost:
		return "notopmost"
	default:
		return "top"
	}
}

// PosFlag controls which SetWindowPos arguments are honoured
type PosFlag uint32

const (
	PosNoSize     PosFlag = 0x0001
	PosNoMove     PosFlag = 0x0002
	PosNoActivate PosFlag = 0x0010
)

// LayeredFlag selects which layered attributes apply
type LayeredFlag uint32

const (
	LayeredColorKey LayeredFlag = 0x1
	LayeredAlpha    LayeredFlag = 0x2
)

// Snapshot is the window state captured when a Client attaches
type Snapshot struct {
	Style Style `json:"style"`
	Rect  Rect  `json:"rect"`
}

var (
	// ErrWindowNotFound is returned when no usable window handle could be resolved
	ErrWindowNotFound = errors.New("window not found")
	// ErrRequiresLayerMode is returned when transparency is requested without WS_EX_LAYERED
	ErrRequiresLayerMode = errors.New("requires layer mode")
	// ErrInvalidOpacity is returned for opacity values outside [0, 1]
	ErrInvalidOpacity = errors.New("opacity must be within [0, 1]")
	// ErrUnsupported is returned by backends on platforms without a native implementation
	ErrUnsupported = errors.New("window styling not supported on this platform")
)

// Backend is the native windowing surface a Client drives.
type Backend interface {
	// ActiveWindow returns the window that currently has the user's focus.
	ActiveWindow() (Handle, error)
	// FindWindow returns the top-level window with exactly this title, or 0.
	FindWindow(title string) (Handle, error)
	IsWindow(h Handle) bool
	WindowText(h Handle) (string, error)
	ExStyle(h Handle) (Style, error)
	SetExStyle(h Handle, style Style) error
	WindowRect(h Handle) (Rect, error)
	SetWindowPos(h Handle, after InsertAfter, x, y, width, height int32, flags PosFlag) error
	SetLayeredAttributes(h Handle, key RGB, alpha uint8, flags LayeredFlag) error
}
