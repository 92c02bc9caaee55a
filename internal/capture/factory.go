package capture

import (
	"fmt"
	"time"

	"booth-go/internal/booth"
	"booth-go/internal/config"
)

// NewDeviceFromConfig creates a CaptureDevice implementation based on the camera config type.
func NewDeviceFromConfig(cfg config.CameraConfig, runner CommandRunner, logger booth.Logger) (booth.CaptureDevice, error) {
	switch cfg.Type {
	case "gphoto2", "":
		var timeout time.Duration
		if cfg.Timeout != "" {
			d, err := time.ParseDuration(cfg.Timeout)
			if err != nil {
				return nil, fmt.Errorf("invalid camera timeout %q: %w", cfg.Timeout, err)
			}
			timeout = d
		}
		return NewGphoto2Device(runner, Gphoto2Options{
			Binary:          cfg.Binary,
			Model:           cfg.Model,
			Folder:          cfg.Folder,
			FilenamePattern: cfg.FilenamePattern,
			Timeout:         timeout,
		}, logger), nil
	case "none":
		return NoopDevice{}, nil
	default:
		return nil, fmt.Errorf("unknown camera type: %s", cfg.Type)
	}
}
