package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - BOOTH_CONFIG_PATH: config file location (default: ~/.config/booth.toml)
//   - BOOTH_HOME: base directory for booth data (default: ~/.local/share/booth)
func GetDefaults() (map[string]string, error) {
	configPath, err := fromEnvOrHome("BOOTH_CONFIG_PATH", ".config", "booth.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := fromEnvOrHome("BOOTH_HOME", ".local", "share", "booth")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// fromEnvOrHome returns $key when set, otherwise the path below the home directory.
func fromEnvOrHome(key string, elem ...string) (string, error) {
	if path := os.Getenv(key); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elem...)...), nil
}
