package records

import (
	"booth-go/internal/booth"
	"booth-go/internal/config"
)

// NewRecorderFromConfig returns the remote recorder, or nil when the URL or
// key is not configured.
func NewRecorderFromConfig(cfg config.RecordsConfig) booth.Recorder {
	if cfg.URL == "" || cfg.Key == "" {
		return nil
	}
	return NewRESTRecorder(cfg.URL, cfg.Key, cfg.Table, nil)
}
