package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads KEY=value pairs from path into the process environment.
// Variables already set in the environment win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays secrets from the environment onto cfg.
// lookup is usually os.LookupEnv; only non-empty values are applied.
//
//	R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_BUCKET, R2_ENDPOINT -> [object_store]
//	SUPABASE_URL, SUPABASE_KEY                                       -> [records]
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(&cfg.ObjectStore.AccessKeyID, "R2_ACCESS_KEY_ID")
	set(&cfg.ObjectStore.SecretAccessKey, "R2_SECRET_ACCESS_KEY")
	set(&cfg.ObjectStore.Bucket, "R2_BUCKET")
	set(&cfg.ObjectStore.Endpoint, "R2_ENDPOINT")
	set(&cfg.Records.URL, "SUPABASE_URL")
	set(&cfg.Records.Key, "SUPABASE_KEY")
}

// LoadFromEnvironment loads cfg.EnvFile and then applies the process environment.
func LoadFromEnvironment(cfg *Config) error {
	if err := LoadEnvFile(cfg.EnvFile); err != nil {
		return err
	}
	ApplyEnv(cfg, os.LookupEnv)
	return nil
}
