//go:build linux

package winapi

import (
	"fmt"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	atomWmStateAbove = "_NET_WM_STATE_ABOVE"
	atomWmOpacity    = "_NET_WM_WINDOW_OPACITY"
)

// x11Backend maps extended style bits onto EWMH state, the opacity hint and
// the Shape input region. X has no extended style word, so the bits last
// written per window are remembered here.
type x11Backend struct {
	xu       *xgbutil.XUtil
	shapeErr error
	styles   map[Handle]Style
}

// NewNativeBackend connects to the X server named by $DISPLAY
func NewNativeBackend() (Backend, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	b := &x11Backend{
		xu:     xu,
		styles: make(map[Handle]Style),
	}
	if err := shape.Init(xu.Conn()); err != nil {
		b.shapeErr = fmt.Errorf("shape extension unavailable: %w", err)
	}
	return b, nil
}

func (b *x11Backend) ActiveWindow() (Handle, error) {
	win, err := ewmh.ActiveWindowGet(b.xu)
	if err != nil {
		return 0, err
	}
	return Handle(win), nil
}

func (b *x11Backend) FindWindow(title string) (Handle, error) {
	clients, err := ewmh.ClientListGet(b.xu)
	if err != nil {
		return 0, err
	}
	for _, win := range clients {
		if name, err := b.WindowText(Handle(win)); err == nil && name == title {
			return Handle(win), nil
		}
	}
	return 0, nil
}

func (b *x11Backend) IsWindow(h Handle) bool {
	if h == 0 {
		return false
	}
	_, err := xproto.GetWindowAttributes(b.xu.Conn(), xproto.Window(h)).Reply()
	return err == nil
}

func (b *x11Backend) WindowText(h Handle) (string, error) {
	name, err := ewmh.WmNameGet(b.xu, xproto.Window(h))
	if err == nil && name != "" {
		return name, nil
	}
	return icccm.WmNameGet(b.xu, xproto.Window(h))
}

func (b *x11Backend) ExStyle(h Handle) (Style, error) {
	if style, ok := b.styles[h]; ok {
		return style, nil
	}

	win := xproto.Window(h)
	var style Style
	states, err := ewmh.WmStateGet(b.xu, win)
	if err == nil {
		for _, s := range states {
			if s == atomWmStateAbove {
				style |= StyleTopmost
			}
		}
	}
	if _, err := xprop.GetProperty(b.xu, win, atomWmOpacity); err == nil {
		style |= StyleLayered
	}
	b.styles[h] = style
	return style, nil
}

func (b *x11Backend) SetExStyle(h Handle, style Style) error {
	prev, err := b.ExStyle(h)
	if err != nil {
		return err
	}
	win := xproto.Window(h)
	changed := prev ^ style

	if changed&StyleTransparent != 0 {
		if err := b.setInputPassThrough(win, style.Has(StyleTransparent)); err != nil {
			return err
		}
	}
	if changed&StyleLayered != 0 && !style.Has(StyleLayered) {
		atom, err := xprop.Atm(b.xu, atomWmOpacity)
		if err != nil {
			return err
		}
		if err := xproto.DeletePropertyChecked(b.xu.Conn(), win, atom).Check(); err != nil {
			return fmt.Errorf("failed to clear opacity: %w", err)
		}
	}
	if changed&StyleTopmost != 0 {
		if err := b.setAbove(win, style.Has(StyleTopmost)); err != nil {
			return err
		}
	}

	b.styles[h] = style
	return nil
}

// setInputPassThrough empties the window's input region so pointer events
// reach whatever is underneath, or restores the default region.
func (b *x11Backend) setInputPassThrough(win xproto.Window, enable bool) error {
	if b.shapeErr != nil {
		return b.shapeErr
	}
	conn := b.xu.Conn()
	if enable {
		return shape.RectanglesChecked(conn, shape.SoSet, shape.SkInput,
			xproto.ClipOrderingUnsorted, win, 0, 0, nil).Check()
	}
	return shape.MaskChecked(conn, shape.SoSet, shape.SkInput, win, 0, 0, xproto.PixmapNone).Check()
}

func (b *x11Backend) setAbove(win xproto.Window, above bool) error {
	action := ewmh.StateRemove
	if above {
		action = ewmh.StateAdd
	}
	return ewmh.WmStateReq(b.xu, win, action, atomWmStateAbove)
}

func (b *x11Backend) WindowRect(h Handle) (Rect, error) {
	geom, err := xwindow.New(b.xu, xproto.Window(h)).DecorGeometry()
	if err != nil {
		return Rect{}, err
	}
	return Rect{
		Left:   int32(geom.X()),
		Top:    int32(geom.Y()),
		Right:  int32(geom.X() + geom.Width()),
		Bottom: int32(geom.Y() + geom.Height()),
	}, nil
}

func (b *x11Backend) SetWindowPos(h Handle, after InsertAfter, x, y, width, height int32, flags PosFlag) error {
	win := xproto.Window(h)

	if after == InsertTopmost || after == InsertNoTopmost {
		above := after == InsertTopmost
		if err := b.setAbove(win, above); err != nil {
			return err
		}
		style, _ := b.ExStyle(h)
		if above {
			b.styles[h] = style | StyleTopmost
		} else {
			b.styles[h] = style &^ StyleTopmost
		}
	}

	if flags&PosNoMove != 0 && flags&PosNoSize != 0 {
		return nil
	}

	cur, err := b.WindowRect(h)
	if err != nil {
		return err
	}
	if flags&PosNoMove != 0 {
		x, y = cur.Left, cur.Top
	}
	if flags&PosNoSize != 0 {
		width, height = cur.Width(), cur.Height()
	}

	return withFallback(
		ewmh.MoveresizeWindow(b.xu, win, int(x), int(y), int(width), int(height)),
		func() error {
			// Not every window manager honours _NET_MOVERESIZE_WINDOW
			mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
			values := []uint32{uint32(x), uint32(y), uint32(width), uint32(height)}
			return xproto.ConfigureWindowChecked(b.xu.Conn(), win, mask, values).Check()
		},
	)
}

// withFallback runs fallback only when the primary attempt failed, and
// reports both errors if it fails too.
func withFallback(primary error, fallback func() error) error {
	if primary == nil {
		return nil
	}
	if err := fallback(); err != nil {
		return fmt.Errorf("failed to move window: %v; fallback: %w", primary, err)
	}
	return nil
}

// SetLayeredAttributes maps alpha onto the compositor opacity hint. X has no
// color-key transparency, so the key is accepted and ignored.
func (b *x11Backend) SetLayeredAttributes(h Handle, key RGB, alpha uint8, flags LayeredFlag) error {
	if flags&LayeredAlpha == 0 {
		return nil
	}
	opacity := uint(alpha) * 0x01010101
	return xprop.ChangeProp32(b.xu, xproto.Window(h), atomWmOpacity, "CARDINAL", opacity)
}
