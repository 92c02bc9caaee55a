package database

import (
	"fmt"
	"os"
	"path/filepath"

	"booth-go/internal/booth"
	"booth-go/internal/config"
)

// NewDatabaseFromConfig creates a session store based on the store config type.
func NewDatabaseFromConfig(cfg config.StoreConfig, clock booth.Clock) (*SQLiteDatabase, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite store")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteDatabase(filepath.Join(cfg.DataDir, "booth.db"), clock)
	case "memory":
		return NewSQLiteDatabase(":memory:", clock)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
