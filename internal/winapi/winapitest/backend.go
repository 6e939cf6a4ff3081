// Package winapitest provides an in-memory winapi.Backend that follows the
// Win32 semantics the winapi package relies on.
package winapitest

import (
	"fmt"
	"sync"

	"screen-overlay/internal/winapi"
)

// Window is the recorded state of a fake window
type Window struct {
	Title        string
	Style        winapi.Style
	Rect         winapi.Rect
	ColorKey     winapi.RGB
	Alpha        uint8
	LayeredFlags winapi.LayeredFlag
}

// Call records one mutating backend call
type Call struct {
	Op     string
	Handle winapi.Handle
	After  winapi.InsertAfter
	Flags  winapi.PosFlag
}

// Backend is a fake window system. The zero value is not usable; use New.
type Backend struct {
	mu      sync.Mutex
	next    winapi.Handle
	windows map[winapi.Handle]*Window
	order   []winapi.Handle // creation order, front of the z-order first
	active  winapi.Handle
	calls   []Call

	// Err, when set, is returned from every mutating call
	Err error
}

// New returns an empty backend
func New() *Backend {
	return &Backend{
		next:    0x100,
		windows: make(map[winapi.Handle]*Window),
	}
}

// AddWindow creates a window and returns its handle. The first window added
// becomes the active window.
func (b *Backend) AddWindow(title string, rect winapi.Rect, style winapi.Style) winapi.Handle {
	b.mu.Lock()
	defer b.mu.Unlock()

	h := b.next
	b.next += 0x10
	b.windows[h] = &Window{Title: title, Rect: rect, Style: style}
	b.order = append(b.order, h)
	if b.active == 0 {
		b.active = h
	}
	return h
}

// SetActive changes the active window
func (b *Backend) SetActive(h winapi.Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = h
}

// Window returns a copy of the window state
func (b *Backend) Window(h winapi.Handle) (Window, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[h]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Calls returns the mutating calls made so far
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

func (b *Backend) lookup(h winapi.Handle) (*Window, error) {
	w, ok := b.windows[h]
	if !ok {
		return nil, fmt.Errorf("invalid window handle 0x%x", uintptr(h))
	}
	return w, nil
}

func (b *Backend) ActiveWindow() (winapi.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active, nil
}

func (b *Backend) FindWindow(title string) (winapi.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range b.order {
		if b.windows[h].Title == title {
			return h, nil
		}
	}
	return 0, nil
}

func (b *Backend) IsWindow(h winapi.Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.windows[h]
	return ok
}

func (b *Backend) WindowText(h winapi.Handle) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(h)
	if err != nil {
		return "", err
	}
	return w.Title, nil
}

func (b *Backend) ExStyle(h winapi.Handle) (winapi.Style, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(h)
	if err != nil {
		return 0, err
	}
	return w.Style, nil
}

func (b *Backend) SetExStyle(h winapi.Handle, style winapi.Style) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, Call{Op: "SetExStyle", Handle: h})
	if b.Err != nil {
		return b.Err
	}
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	// Topmost is owned by SetWindowPos
	style = style&^winapi.StyleTopmost | w.Style&winapi.StyleTopmost
	if !style.Has(winapi.StyleLayered) {
		w.Alpha, w.ColorKey, w.LayeredFlags = 0, winapi.RGB{}, 0
	}
	w.Style = style
	return nil
}

func (b *Backend) WindowRect(h winapi.Handle) (winapi.Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(h)
	if err != nil {
		return winapi.Rect{}, err
	}
	return w.Rect, nil
}

func (b *Backend) SetWindowPos(h winapi.Handle, after winapi.InsertAfter, x, y, width, height int32, flags winapi.PosFlag) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, Call{Op: "SetWindowPos", Handle: h, After: after, Flags: flags})
	if b.Err != nil {
		return b.Err
	}
	w, err := b.lookup(h)
	if err != nil {
		return err
	}

	switch after {
	case winapi.InsertTopmost:
		w.Style |= winapi.StyleTopmost
	case winapi.InsertNoTopmost:
		w.Style &^= winapi.StyleTopmost
	}
	if flags&winapi.PosNoMove == 0 {
		cw, ch := w.Rect.Width(), w.Rect.Height()
		w.Rect = winapi.Rect{Left: x, Top: y, Right: x + cw, Bottom: y + ch}
	}
	if flags&winapi.PosNoSize == 0 {
		w.Rect.Right = w.Rect.Left + width
		w.Rect.Bottom = w.Rect.Top + height
	}
	return nil
}

func (b *Backend) SetLayeredAttributes(h winapi.Handle, key winapi.RGB, alpha uint8, flags winapi.LayeredFlag) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, Call{Op: "SetLayeredAttributes", Handle: h})
	if b.Err != nil {
		return b.Err
	}
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	if !w.Style.Has(winapi.StyleLayered) {
		return fmt.Errorf("window 0x%x is not layered", uintptr(h))
	}
	w.ColorKey, w.Alpha, w.LayeredFlags = key, alpha, flags
	return nil
}
