//go:build !linux && !windows

package platform

import (
	"fmt"
	"runtime"
)

// NewBackend reports the platform as unsupported.
func NewBackend() (Backend, error) {
	return nil, fmt.Errorf("no window backend for %s", runtime.GOOS)
}
