package capture

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	kscreen "github.com/kbinani/screenshot"
)

const displayBackendName = "display"

// DisplayBackend grabs every active display in-process and stitches them into
// one image covering their combined bounds.
type DisplayBackend struct{}

// NewDisplayBackend creates a display backend.
func NewDisplayBackend() *DisplayBackend {
	return &DisplayBackend{}
}

// Name implements Backend.
func (b *DisplayBackend) Name() string { return displayBackendName }

// Available implements Backend.
func (b *DisplayBackend) Available() bool {
	return kscreen.NumActiveDisplays() > 0
}

// Capture implements Backend.
func (b *DisplayBackend) Capture(ctx context.Context, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n := kscreen.NumActiveDisplays()
	if n == 0 {
		return fmt.Errorf("%w: no active displays", ErrUnavailable)
	}

	var bounds image.Rectangle
	for i := 0; i < n; i++ {
		bounds = bounds.Union(kscreen.GetDisplayBounds(i))
	}

	img, err := kscreen.CaptureRect(bounds)
	if err != nil {
		return fmt.Errorf("failed to capture %v: %w", bounds, err)
	}
	return writePNG(dest, img)
}

func writePNG(dest string, img image.Image) error {
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dest, err)
	}
	return nil
}

// PrimaryWidth returns the width of the first display, or 0 when there is none.
func PrimaryWidth() int {
	if kscreen.NumActiveDisplays() == 0 {
		return 0
	}
	return kscreen.GetDisplayBounds(0).Dx()
}
