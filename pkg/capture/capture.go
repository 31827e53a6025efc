// Package capture provides screen capture backends that write a PNG to a path.
//
// Backends are consumed by the screenshot manager through its Backend
// interface; Detect picks whichever works on the current machine.
package capture

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned when no backend can capture on this system.
var ErrUnavailable = errors.New("no screen capture backend available")

// Backend captures the screen into a PNG file.
type Backend interface {
	// Name identifies the backend in logs and config.
	Name() string

	// Available reports whether the backend can run here (display present, tool installed).
	Available() bool

	// Capture writes a PNG of the screen to dest.
	Capture(ctx context.Context, dest string) error
}

// Detect returns the first available backend, preferring in-process display capture.
func Detect() (Backend, error) {
	candidates := []Backend{NewDisplayBackend()}
	candidates = append(candidates, DefaultCommandBackends()...)
	for _, b := range candidates {
		if b.Available() {
			return b, nil
		}
	}
	return nil, ErrUnavailable
}

// ByName returns the backend with the given name, or Detect for "auto" / "".
func ByName(name string) (Backend, error) {
	switch name {
	case "", "auto":
		return Detect()
	case displayBackendName:
		return NewDisplayBackend(), nil
	}
	for _, b := range DefaultCommandBackends() {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("unknown capture backend %q", name)
}
