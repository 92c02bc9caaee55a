package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default values for a freshly initialised booth.
const (
	DefaultListenAddr      = "127.0.0.1:5000"
	DefaultShortCodePrefix = "bk-formal-"
	DefaultGalleryBaseURL  = "https://bkd-photo.vercel.app/photo"
	DefaultCameraModel     = "Canon EOS 1D X"
	DefaultCameraFolder    = "/store_00010001/DCIM/100EOS1D"
	DefaultFilenamePattern = "photo_%n.%C"
	DefaultRecordsTable    = "photos"
)

// Config represents the main configuration for booth.
type Config struct {
	BaseDir    string `toml:"base_dir"`
	LogDir     string `toml:"log_dir"`
	PhotosRoot string `toml:"photos_root"`
	EnvFile    string `toml:"env_file"` // optional .env with R2_*/SUPABASE_* secrets

	Server      ServerConfig      `toml:"server"`
	Session     SessionConfig     `toml:"session"`
	Store       StoreConfig       `toml:"store"`
	Camera      CameraConfig      `toml:"camera"`
	Enhance     EnhanceConfig     `toml:"enhance"`
	ObjectStore ObjectStoreConfig `toml:"object_store"`
	Records     RecordsConfig     `toml:"records"`
	Originals   OriginalsConfig   `toml:"originals"`
}

// ServerConfig holds web surface settings.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// SessionConfig controls short codes and the gallery link they are embedded in.
type SessionConfig struct {
	ShortCodePrefix string `toml:"short_code_prefix"`
	GalleryBaseURL  string `toml:"gallery_base_url"`
	QRSize          int    `toml:"qr_size"` // pixels; defaults to 256
}

// StoreConfig represents configuration for the session store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// CameraConfig represents configuration for the capture device.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type CameraConfig struct {
	Type            string `toml:"type"` // "gphoto2" (default) or "none"
	Binary          string `toml:"binary,omitempty"`
	Model           string `toml:"model,omitempty"`
	Folder          string `toml:"folder,omitempty"`
	FilenamePattern string `toml:"filename_pattern,omitempty"`
	Timeout         string `toml:"timeout,omitempty"` // Go duration; empty means no deadline
}

// EnhanceConfig holds the fixed enhancement factors.
// A factor of 1.0 leaves the image unchanged.
type EnhanceConfig struct {
	Contrast   float64 `toml:"contrast"`
	Brightness float64 `toml:"brightness"`
	Sharpness  float64 `toml:"sharpness"`
	Quality    int     `toml:"quality"`
	OnFailure  string  `toml:"on_failure"` // "abort" (default) or "skip"
}

// ObjectStoreConfig represents configuration for the photo bucket.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ObjectStoreConfig struct {
	Type string `toml:"type"` // "s3", "filesystem" or "memory"

	// S3-specific fields (only used when Type == "s3")
	Endpoint        string `toml:"endpoint,omitempty"`
	Bucket          string `toml:"bucket,omitempty"`
	Region          string `toml:"region,omitempty"`
	AccessKeyID     string `toml:"access_key_id,omitempty"`
	SecretAccessKey string `toml:"secret_access_key,omitempty"`

	// PublicBaseURL replaces "{endpoint}/{bucket}" in public URLs when set.
	PublicBaseURL string `toml:"public_base_url,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`
}

// RecordsConfig points at the remote REST table that upload records are posted to.
// Recording is skipped when URL or Key is empty.
type RecordsConfig struct {
	URL   string `toml:"url,omitempty"`
	Key   string `toml:"key,omitempty"`
	Table string `toml:"table,omitempty"`
}

// OriginalsConfig controls the encrypted archive of unenhanced photos.
type OriginalsConfig struct {
	Encrypt        bool   `toml:"encrypt"`
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// NewConfig creates a new Config rooted at baseDir with default settings.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
		PhotosRoot: filepath.Join(baseDir, "photos", "current"),
		EnvFile:    filepath.Join(baseDir, ".env"),
		Server: ServerConfig{
			ListenAddr: DefaultListenAddr,
		},
		Session: SessionConfig{
			ShortCodePrefix: DefaultShortCodePrefix,
			GalleryBaseURL:  DefaultGalleryBaseURL,
			QRSize:          256,
		},
		Store: StoreConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Camera: CameraConfig{
			Type:            "gphoto2",
			Binary:          "gphoto2",
			Model:           DefaultCameraModel,
			Folder:          DefaultCameraFolder,
			FilenamePattern: DefaultFilenamePattern,
		},
		Enhance: EnhanceConfig{
			Contrast:   1.2,
			Brightness: 1.1,
			Sharpness:  1.5,
			Quality:    90,
			OnFailure:  "abort",
		},
		ObjectStore: ObjectStoreConfig{
			Type:   "s3",
			Region: "auto",
		},
		Records: RecordsConfig{
			Table: DefaultRecordsTable,
		},
		Originals: OriginalsConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "booth.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "booth.key"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
