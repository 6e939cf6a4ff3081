//go:build windows

package winapi

import (
	"errors"
	"testing"

	"golang.org/x/sys/windows"
)

func TestCallFailed(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
		wantMsg string
	}{
		{"success errno", windows.ERROR_SUCCESS, nil, "GetWindowRect failed"},
		{"nil", nil, nil, "GetWindowRect failed"},
		{"invalid handle", windows.ERROR_INVALID_WINDOW_HANDLE, windows.ERROR_INVALID_WINDOW_HANDLE, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := callFailed("GetWindowRect", tc.err)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if errors.Is(err, windows.ERROR_SUCCESS) {
				t.Errorf("error %v wraps ERROR_SUCCESS", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error %v does not wrap %v", err, tc.wantErr)
			}
			if tc.wantMsg != "" && err.Error() != tc.wantMsg {
				t.Errorf("error = %q; want %q", err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestWindowRect_InvalidHandle(t *testing.T) {
	_, err := win32Backend{}.WindowRect(0)
	if err == nil {
		t.Fatal("Expected error for null handle")
	}
	if errors.Is(err, windows.ERROR_SUCCESS) {
		t.Errorf("error %v wraps ERROR_SUCCESS", err)
	}
}
