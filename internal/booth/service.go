package booth

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Dependencies are the collaborators a BoothService coordinates.
// Recorder and Encryptor are optional; Logger, Clock and IDGen default
// to no-op logging, the wall clock and random UUIDs.
type Dependencies struct {
	Store      SessionStore
	Filesystem FilesystemManager
	Camera     CaptureDevice
	Enhancer   Enhancer
	Objects    ObjectStore
	Recorder   Recorder
	QR         QRGenerator
	Encryptor  Encryptor
	Logger     Logger
	Clock      Clock
	IDGen      IDGenerator
}

// Settings are the fixed parameters of a booth.
type Settings struct {
	// PhotosRoot holds one directory per session ID.
	PhotosRoot string

	// ShortCodePrefix is prepended to the HHMMSS short code.
	ShortCodePrefix string

	// OnEnhanceFailure decides whether a photo that cannot be enhanced aborts the run.
	OnEnhanceFailure FailurePolicy

	// ArchiveOriginals encrypts each imported photo before enhancement overwrites it.
	ArchiveOriginals bool
}

// BoothService is the orchestration layer behind the web surface and CLI.
// It owns the session lifecycle and the capture-to-publish pipeline.
type BoothService struct {
	store     SessionStore
	fsmgr     FilesystemManager
	camera    CaptureDevice
	enhancer  Enhancer
	objects   ObjectStore
	recorder  Recorder
	qr        QRGenerator
	encryptor Encryptor
	logger    Logger
	clock     Clock
	idgen     IDGenerator

	settings Settings
	locks    *sessionLocks
}

// NewBoothService creates a BoothService from its dependencies.
func NewBoothService(deps Dependencies, settings Settings) *BoothService {
	if deps.Logger == nil {
		deps.Logger = NewNopLogger()
	}
	if deps.Clock == nil {
		deps.Clock = RealClock{}
	}
	if deps.IDGen == nil {
		deps.IDGen = UUIDGenerator{}
	}
	if settings.OnEnhanceFailure == "" {
		settings.OnEnhanceFailure = FailAbort
	}

	return &BoothService{
		store:     deps.Store,
		fsmgr:     deps.Filesystem,
		camera:    deps.Camera,
		enhancer:  deps.Enhancer,
		objects:   deps.Objects,
		recorder:  deps.Recorder,
		qr:        deps.QR,
		encryptor: deps.Encryptor,
		logger:    deps.Logger,
		clock:     deps.Clock,
		idgen:     deps.IDGen,
		settings:  settings,
		locks:     newSessionLocks(),
	}
}

// StartSession creates a session with a fresh ID and a time-based short code,
// creates the session directory and stores the mapping.
// A short code already used by another session is logged, not rejected.
func (s *BoothService) StartSession(ctx context.Context) (*Session, error) {
	now := s.clock.Now()
	session := &Session{
		ID:        s.idgen.New(),
		ShortCode: ShortCode(s.settings.ShortCodePrefix, now),
		CreatedAt: now,
	}

	existing, err := s.store.FindSessionsByShortCode(ctx, session.ShortCode)
	if err != nil {
		return nil, fmt.Errorf("checking short code: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Warn("short code collision",
			"short_code", session.ShortCode,
			"session_id", session.ID,
			"existing_session_id", existing[0].ID,
		)
	}

	dir, err := s.SessionDir(session.ID)
	if err != nil {
		return nil, err
	}
	if err := s.fsmgr.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	// The directory goes first: a stored mapping must always have a directory.
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	s.logger.Info("session started", "session_id", session.ID, "short_code", session.ShortCode)
	return session, nil
}

// ResolveShortCode returns the short code for a session ID.
// An unknown ID (for example one created before a store was wiped) falls back
// to the ID itself so the gallery link still resolves to something.
func (s *BoothService) ResolveShortCode(ctx context.Context, id string) string {
	session, err := s.store.FindSession(ctx, id)
	if err != nil {
		s.logger.Warn("resolving short code failed, using session id", "session_id", id, "error", err)
		return id
	}
	if session == nil {
		s.logger.Warn("no short code for session, using session id", "session_id", id)
		return id
	}
	return session.ShortCode
}

// ListSessions returns every known session, newest first.
func (s *BoothService) ListSessions(ctx context.Context) ([]*Session, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// SessionDir returns the directory for a session ID.
// IDs that are not a single path element are rejected with ErrSessionNotFound.
func (s *BoothService) SessionDir(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return filepath.Join(s.settings.PhotosRoot, id), nil
}

// existingSessionDir is SessionDir plus a check that the directory is on disk.
func (s *BoothService) existingSessionDir(id string) (string, error) {
	dir, err := s.SessionDir(id)
	if err != nil {
		return "", err
	}
	ok, err := s.fsmgr.IsDir(dir)
	if err != nil {
		return "", fmt.Errorf("checking session directory: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return dir, nil
}

// SessionPhotos returns the photo filenames of a session.
func (s *BoothService) SessionPhotos(id string) ([]string, error) {
	dir, err := s.existingSessionDir(id)
	if err != nil {
		return nil, err
	}
	return s.listPhotos(dir)
}

// PhotoPath returns the path of an existing photo inside a session directory.
func (s *BoothService) PhotoPath(id, filename string) (string, error) {
	dir, err := s.existingSessionDir(id)
	if err != nil {
		return "", err
	}
	if filepath.Base(filename) != filename || !IsPhoto(filename) {
		return "", fmt.Errorf("not a photo: %q", filename)
	}
	path := filepath.Join(dir, filename)
	ok, err := s.exists(path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("photo %s in session %s: %w", filename, id, fs.ErrNotExist)
	}
	return path, nil
}

func (s *BoothService) listPhotos(dir string) ([]string, error) {
	names, err := s.fsmgr.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("listing photos: %w", err)
	}
	return filterPhotos(names), nil
}
