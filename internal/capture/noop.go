package capture

import (
	"context"

	"booth-go/internal/booth"
)

// NoopDevice is a CaptureDevice for booths without a camera. Photos placed
// in the session directory by other means are still published.
type NoopDevice struct{}

func (NoopDevice) ImportAll(ctx context.Context, dir string) error { return nil }

func (NoopDevice) EraseAll(ctx context.Context) error { return nil }

var _ booth.CaptureDevice = NoopDevice{}
