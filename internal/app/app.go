package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"booth-go/internal/booth"
	"booth-go/internal/capture"
	"booth-go/internal/config"
	"booth-go/internal/database"
	"booth-go/internal/encryption"
	"booth-go/internal/enhance"
	"booth-go/internal/fs"
	"booth-go/internal/objectstore"
	"booth-go/internal/qr"
	"booth-go/internal/records"
	"booth-go/internal/web"
)

// BoothApp is the application layer between the CLI and BoothService.
// It constructs all dependencies from config and owns the store and log file
// until Close.
type BoothApp struct {
	cfg     *config.Config
	store   *database.SQLiteDatabase
	objects booth.ObjectStore
	service *booth.BoothService
	logger  booth.Logger
	logFile *os.File
}

// Options tune how a BoothApp is built.
type Options struct {
	// Command names the CLI command in every log line.
	Command string
	// Verbose enables debug logging.
	Verbose bool
	// Runner executes the capture tool. Defaults to os/exec.
	Runner capture.CommandRunner
}

// NewBoothApp creates a fully wired BoothApp from the given config.
// The caller must call Close when done.
func NewBoothApp(ctx context.Context, cfg *config.Config, opts Options) (*BoothApp, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	l, logFile, err := newLogger(cfg.LogDir, opts.Command, level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: l}

	a, err := build(ctx, cfg, opts, logger)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	a.logFile = logFile
	return a, nil
}

func build(ctx context.Context, cfg *config.Config, opts Options, logger booth.Logger) (*BoothApp, error) {
	if err := config.LoadFromEnvironment(cfg); err != nil {
		return nil, err
	}

	policy, err := booth.ParseFailurePolicy(cfg.Enhance.OnFailure)
	if err != nil {
		return nil, fmt.Errorf("enhance.on_failure: %w", err)
	}

	camera, err := capture.NewDeviceFromConfig(cfg.Camera, opts.Runner, logger)
	if err != nil {
		return nil, fmt.Errorf("creating capture device: %w", err)
	}

	objects, err := objectstore.NewObjectStoreFromConfig(ctx, cfg.ObjectStore)
	if err != nil {
		return nil, fmt.Errorf("creating object store: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Originals)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if cfg.Originals.Encrypt && !enc.IsConfigured() {
		return nil, fmt.Errorf("originals.encrypt is set but no keys exist: run `booth keys init`")
	}

	clock := booth.RealClock{}
	store, err := database.NewDatabaseFromConfig(cfg.Store, clock)
	if err != nil {
		return nil, fmt.Errorf("creating session store: %w", err)
	}
	if err := store.CheckMigrations(); err != nil {
		store.Close()
		return nil, fmt.Errorf("session store schema out of date: %w", err)
	}

	remote := records.NewRecorderFromConfig(cfg.Records)
	if remote == nil {
		logger.Info("SUPABASE_URL or SUPABASE_KEY not set, remote upload records are skipped")
	}

	svc := booth.NewBoothService(booth.Dependencies{
		Store:      store,
		Filesystem: fs.NewOSFilesystemManager(),
		Camera:     camera,
		Enhancer:   enhance.NewImagingEnhancer(cfg.Enhance),
		Objects:    objects,
		Recorder:   records.NewMultiRecorder(store, remote),
		QR:         qr.NewGenerator(cfg.Session.GalleryBaseURL, cfg.Session.QRSize),
		Encryptor:  enc,
		Logger:     logger,
		Clock:      clock,
		IDGen:      booth.UUIDGenerator{},
	}, booth.Settings{
		PhotosRoot:       cfg.PhotosRoot,
		ShortCodePrefix:  cfg.Session.ShortCodePrefix,
		OnEnhanceFailure: policy,
		ArchiveOriginals: cfg.Originals.Encrypt,
	})

	return &BoothApp{
		cfg:     cfg,
		store:   store,
		objects: objects,
		service: svc,
		logger:  logger,
	}, nil
}

// Service returns the wired BoothService.
func (a *BoothApp) Service() *booth.BoothService {
	return a.service
}

// Handler returns the web surface.
func (a *BoothApp) Handler() http.Handler {
	return web.NewRouter(a.service, a.cfg.PhotosRoot, a.logger)
}

// Serve runs the web surface on addr until ctx is cancelled.
func (a *BoothApp) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = a.cfg.Server.ListenAddr
	}
	if err := os.MkdirAll(a.cfg.PhotosRoot, 0755); err != nil {
		return fmt.Errorf("creating photos root: %w", err)
	}
	// An offline booth still serves sessions; uploads report their own failures.
	if err := a.CheckObjectStore(ctx); err != nil {
		a.logger.Warn("object store unreachable", "error", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", addr, "photos_root", a.cfg.PhotosRoot)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// SessionDetail is what `booth sessions show` prints.
type SessionDetail struct {
	ID        string
	ShortCode string
	Known     bool
	Photos    []string
	Uploads   []*database.Upload
}

// Sessions lists every session, newest first.
func (a *BoothApp) Sessions(ctx context.Context) ([]*booth.Session, error) {
	return a.service.ListSessions(ctx)
}

// ShowSession collects the stored mapping, the photos on disk and the local
// upload records of one session.
func (a *BoothApp) ShowSession(ctx context.Context, id string) (*SessionDetail, error) {
	session, err := a.store.FindSession(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &SessionDetail{ID: id, ShortCode: id}
	if session != nil {
		detail.ShortCode = session.ShortCode
		detail.Known = true
	}

	photos, err := a.service.SessionPhotos(id)
	switch {
	case errors.Is(err, booth.ErrSessionNotFound):
		if session == nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		detail.Photos = photos
	}

	detail.Uploads, err = a.store.FindUploadsByShortCode(ctx, detail.ShortCode)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Publish uploads an existing session again.
func (a *BoothApp) Publish(ctx context.Context, id string) ([]booth.PhotoResult, error) {
	return a.service.RepublishSession(ctx, id)
}

// RestoreOriginals decrypts a session's archived originals into destDir.
func (a *BoothApp) RestoreOriginals(id, passphrase, destDir string) ([]string, error) {
	return a.service.RestoreOriginals(id, passphrase, destDir)
}

// CheckObjectStore verifies the bucket is reachable.
func (a *BoothApp) CheckObjectStore(ctx context.Context) error {
	return a.objects.ValidateSetup(ctx)
}

// Close closes the session store and the log file.
func (a *BoothApp) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing session store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// InitKeys generates the originals key pair for cfg.
func InitKeys(cfg *config.Config, passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Originals)
	if err != nil {
		return err
	}
	return enc.Setup(passphrase)
}
