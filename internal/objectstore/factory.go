package objectstore

import (
	"context"
	"fmt"

	"booth-go/internal/booth"
	"booth-go/internal/config"
)

// NewObjectStoreFromConfig creates an ObjectStore implementation based on the config type.
func NewObjectStoreFromConfig(ctx context.Context, cfg config.ObjectStoreConfig) (booth.ObjectStore, error) {
	switch cfg.Type {
	case "s3":
		store, err := NewS3ObjectStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem object store requires fs_root to be set")
		}
		store, err := NewFileSystemObjectStore(cfg.FSRoot, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		return NewMemoryObjectStore(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown object store type: %s", cfg.Type)
	}
}
