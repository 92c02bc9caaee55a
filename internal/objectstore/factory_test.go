package objectstore

import (
	"context"
	"path/filepath"
	"testing"

	"booth-go/internal/config"
)

func TestNewObjectStoreFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ObjectStoreConfig
		wantErr bool
	}{
		{
			name: "memory",
			cfg:  config.ObjectStoreConfig{Type: "memory"},
		},
		{
			name: "filesystem",
			cfg:  config.ObjectStoreConfig{Type: "filesystem", FSRoot: filepath.Join(t.TempDir(), "objects")},
		},
		{
			name:    "filesystem without root",
			cfg:     config.ObjectStoreConfig{Type: "filesystem"},
			wantErr: true,
		},
		{
			name: "s3",
			cfg: config.ObjectStoreConfig{
				Type:            "s3",
				Endpoint:        "https://r2.example.com",
				Bucket:          "photos",
				AccessKeyID:     "id",
				SecretAccessKey: "secret",
			},
		},
		{
			name:    "unknown",
			cfg:     config.ObjectStoreConfig{Type: "ftp"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewObjectStoreFromConfig(context.Background(), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewObjectStoreFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got == nil {
				t.Error("NewObjectStoreFromConfig() returned nil store")
			}
		})
	}
}
