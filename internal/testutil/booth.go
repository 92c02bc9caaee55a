package testutil

import (
	"path/filepath"
	"testing"

	"booth-go/internal/booth"
	"booth-go/internal/encryption"
	"booth-go/internal/fs"
	"booth-go/internal/objectstore"
	"booth-go/internal/qr"
)

// ObjectBaseURL is the public URL prefix used by test object stores.
const ObjectBaseURL = "https://r2.test/photos"

// Booth bundles a BoothService wired to fakes with handles on each fake.
type Booth struct {
	Service    *booth.BoothService
	PhotosRoot string
	Store      booth.SessionStore
	Camera     *FakeCamera
	Enhancer   *FakeEnhancer
	Objects    *objectstore.MemoryObjectStore
	Recorder   *RecordingRecorder
	Encryptor  *encryption.FakeEncryptor
	Clock      *StubClock
	Logger     *RecordingLogger
}

// BoothOption adjusts a test booth before the service is built.
type BoothOption func(*booth.Dependencies, *booth.Settings)

// WithoutRecorder leaves the recorder unset.
func WithoutRecorder() BoothOption {
	return func(d *booth.Dependencies, _ *booth.Settings) { d.Recorder = nil }
}

// WithPolicy sets the enhancement failure policy.
func WithPolicy(p booth.FailurePolicy) BoothOption {
	return func(_ *booth.Dependencies, s *booth.Settings) { s.OnEnhanceFailure = p }
}

// WithArchive enables the encrypted originals archive.
func WithArchive() BoothOption {
	return func(_ *booth.Dependencies, s *booth.Settings) { s.ArchiveOriginals = true }
}

// WithObjectStore replaces the memory object store.
func WithObjectStore(o booth.ObjectStore) BoothOption {
	return func(d *booth.Dependencies, _ *booth.Settings) { d.Objects = o }
}

// NewTestBooth builds a BoothService backed by an in-memory store, a memory
// object store, a fake camera and the real QR generator.
func NewTestBooth(t *testing.T, opts ...BoothOption) *Booth {
	t.Helper()

	b := &Booth{
		PhotosRoot: filepath.Join(t.TempDir(), "photos"),
		Camera:     NewFakeCamera(),
		Enhancer:   NewFakeEnhancer(),
		Objects:    objectstore.NewMemoryObjectStore(ObjectBaseURL),
		Recorder:   NewRecordingRecorder(),
		Encryptor:  encryption.NewFakeEncryptor(),
		Clock:      FixedClock(),
		Logger:     NewRecordingLogger(),
	}
	b.Store = NewTestStore(t, b.Clock)

	deps := booth.Dependencies{
		Store:      b.Store,
		Filesystem: fs.NewOSFilesystemManager(),
		Camera:     b.Camera,
		Enhancer:   b.Enhancer,
		Objects:    b.Objects,
		Recorder:   b.Recorder,
		QR:         NewQRGenerator(),
		Encryptor:  b.Encryptor,
		Logger:     b.Logger,
		Clock:      b.Clock,
		IDGen:      NewStubIDGenerator(),
	}
	settings := booth.Settings{
		PhotosRoot:      b.PhotosRoot,
		ShortCodePrefix: "bk-formal-",
	}
	for _, opt := range opts {
		opt(&deps, &settings)
	}

	b.Service = booth.NewBoothService(deps, settings)
	return b
}

// SessionDir returns the directory of a session in the test booth.
func (b *Booth) SessionDir(id string) string {
	return filepath.Join(b.PhotosRoot, id)
}

// NewFilesystem returns the OS-backed FilesystemManager.
func NewFilesystem() booth.FilesystemManager {
	return fs.NewOSFilesystemManager()
}

// NewQRGenerator returns a QR generator with a test gallery URL.
func NewQRGenerator() *qr.Generator {
	return qr.NewGenerator("https://gallery.test/photo", 64)
}
