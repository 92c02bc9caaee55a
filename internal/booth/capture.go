package booth

import "context"

// CaptureDevice controls a tethered camera.
// Implementations talk to real hardware, so the pipeline only ever reaches
// the camera through this interface.
type CaptureDevice interface {
	// ImportAll copies every file on the camera into dir, overwriting
	// same-named files.
	ImportAll(ctx context.Context, dir string) error

	// EraseAll deletes every file from the camera's storage.
	EraseAll(ctx context.Context) error
}
