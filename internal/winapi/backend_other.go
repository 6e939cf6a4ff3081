//go:build !windows && !linux

package winapi

// NewNativeBackend is not available on this platform
func NewNativeBackend() (Backend, error) {
	return nil, ErrUnsupported
}
