//go:build windows

package winapi

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                         = windows.NewLazySystemDLL("user32.dll")
	kernel32                       = windows.NewLazySystemDLL("kernel32.dll")
	procSetLastError               = kernel32.NewProc("SetLastError")
	procGetForegroundWindow        = user32.NewProc("GetForegroundWindow")
	procFindWindowW                = user32.NewProc("FindWindowW")
	procIsWindow                   = user32.NewProc("IsWindow")
	procGetWindowTextW             = user32.NewProc("GetWindowTextW")
	procGetWindowLongW             = user32.NewProc("GetWindowLongW")
	procSetWindowLongW             = user32.NewProc("SetWindowLongW")
	procGetWindowRect              = user32.NewProc("GetWindowRect")
	procSetWindowPos               = user32.NewProc("SetWindowPos")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
)

// GWL_EXSTYLE is -20; kept as a variable so the conversion to uintptr sign-extends.
var gwlExStyle int32 = -20

const (
	hwndTopmost   = ^uintptr(0) // -1
	hwndNoTopmost = ^uintptr(1) // -2
)

type win32Backend struct{}

// NewNativeBackend returns the user32 backend
func NewNativeBackend() (Backend, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("failed to load user32.dll: %w", err)
	}
	return win32Backend{}, nil
}

// lastErr turns a zero return plus errno into an error. A zero return with
// ERROR_SUCCESS is a legitimate result for some calls.
func lastErr(ret uintptr, err error) error {
	if ret != 0 {
		return nil
	}
	if err == nil || errors.Is(err, windows.ERROR_SUCCESS) {
		return nil
	}
	return err
}

// callFailed describes a call whose return value already signalled failure.
// ERROR_SUCCESS carries no information there and is dropped.
func callFailed(name string, err error) error {
	if err == nil || errors.Is(err, windows.ERROR_SUCCESS) {
		return fmt.Errorf("%s failed", name)
	}
	return fmt.Errorf("%s failed: %w", name, err)
}

func (win32Backend) ActiveWindow() (Handle, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return 0, fmt.Errorf("no foreground window found")
	}
	return Handle(hwnd), nil
}

func (win32Backend) FindWindow(title string) (Handle, error) {
	ptr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, err
	}
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(ptr)))
	return Handle(hwnd), nil
}

func (win32Backend) IsWindow(h Handle) bool {
	ret, _, _ := procIsWindow.Call(uintptr(h))
	return ret != 0
}

func (win32Backend) WindowText(h Handle) (string, error) {
	buf := make([]uint16, 256)
	procSetLastError.Call(0)
	ret, _, err := procGetWindowTextW.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
	)
	if err := lastErr(ret, err); err != nil {
		return "", fmt.Errorf("failed to get window title: %w", err)
	}
	return windows.UTF16ToString(buf), nil
}

func (win32Backend) ExStyle(h Handle) (Style, error) {
	procSetLastError.Call(0)
	ret, _, err := procGetWindowLongW.Call(uintptr(h), uintptr(gwlExStyle))
	if err := lastErr(ret, err); err != nil {
		return 0, err
	}
	return Style(uint32(ret)), nil
}

func (win32Backend) SetExStyle(h Handle, style Style) error {
	// SetWindowLong returns the previous value, which may legitimately be 0
	procSetLastError.Call(0)
	ret, _, err := procSetWindowLongW.Call(uintptr(h), uintptr(gwlExStyle), uintptr(style))
	return lastErr(ret, err)
}

func (win32Backend) WindowRect(h Handle) (Rect, error) {
	var r windows.Rect
	ret, _, err := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return Rect{}, callFailed("GetWindowRect", err)
	}
	return Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}, nil
}

func (win32Backend) SetWindowPos(h Handle, after InsertAfter, x, y, width, height int32, flags PosFlag) error {
	var insert uintptr
	switch after {
	case InsertTopmost:
		insert = hwndTopmost
	case InsertNoTopmost:
		insert = hwndNoTopmost
	}
	ret, _, err := procSetWindowPos.Call(
		uintptr(h),
		insert,
		uintptr(x),
		uintptr(y),
		uintptr(width),
		uintptr(height),
		uintptr(flags),
	)
	if ret == 0 {
		return err
	}
	return nil
}

func (win32Backend) SetLayeredAttributes(h Handle, key RGB, alpha uint8, flags LayeredFlag) error {
	ret, _, err := procSetLayeredWindowAttributes.Call(
		uintptr(h),
		uintptr(key.ColorRef()),
		uintptr(alpha),
		uintptr(flags),
	)
	if ret == 0 {
		return err
	}
	return nil
}
