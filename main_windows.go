//go:build windows

package main

import "golang.org/x/sys/windows"

// Windows constants for DPI awareness
const _PROCESS_PER_MONITOR_DPI_AWARE = 2

// enableDPIAwareness makes window rects and screen sizes report physical
// pixels. Must run before any window is created.
func enableDPIAwareness() {
	shcore := windows.NewLazySystemDLL("shcore.dll")
	proc := shcore.NewProc("SetProcessDpiAwareness")
	if proc.Find() != nil {
		return // pre-8.1 Windows
	}
	proc.Call(uintptr(_PROCESS_PER_MONITOR_DPI_AWARE))
}
