package encryption

import (
	"fmt"

	"booth-go/internal/booth"
	"booth-go/internal/config"
)

// NewEncryptorFromConfig creates an Encryptor based on the originals config type.
func NewEncryptorFromConfig(cfg config.OriginalsConfig) (booth.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewFakeEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown originals encryption type: %q", cfg.Type)
	}
}
