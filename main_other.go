//go:build !windows

package main

// enableDPIAwareness is a no-op on non-Windows platforms
func enableDPIAwareness() {
	// No-op
}
