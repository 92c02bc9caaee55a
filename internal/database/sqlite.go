package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"booth-go/internal/booth"
	"booth-go/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Upload is a locally recorded photo upload.
type Upload struct {
	ID         int64
	ShortCode  string
	URL        string
	Filename   string
	UploadedAt time.Time
}

// SQLiteDatabase implements booth.SessionStore and booth.Recorder using SQLite.
type SQLiteDatabase struct {
	db    *sql.DB
	path  string
	clock booth.Clock
}

// NewSQLiteDatabase opens the SQLite database at path and migrates it to the latest schema.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string, clock booth.Clock) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return NewSQLiteDatabaseFromDB(db, path, clock), nil
}

// NewSQLiteDatabaseFromDB wraps an existing, already migrated connection.
func NewSQLiteDatabaseFromDB(db *sql.DB, path string, clock booth.Clock) *SQLiteDatabase {
	if clock == nil {
		clock = booth.RealClock{}
	}
	return &SQLiteDatabase{db: db, path: path, clock: clock}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to ":memory:" would be a separate database,
	// and one writer is all the booth needs anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// CheckMigrations verifies the schema matches this binary.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Session operations

func (s *SQLiteDatabase) CreateSession(ctx context.Context, session *booth.Session) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, short_code, created_at) VALUES (?, ?, ?)",
		session.ID, session.ShortCode, session.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FindSession(ctx context.Context, id string) (*booth.Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, short_code, created_at FROM sessions WHERE id = ?", id)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding session: %w", err)
	}
	return session, nil
}

func (s *SQLiteDatabase) FindSessionsByShortCode(ctx context.Context, shortCode string) ([]*booth.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, short_code, created_at FROM sessions WHERE short_code = ? ORDER BY created_at", shortCode)
	if err != nil {
		return nil, fmt.Errorf("finding sessions by short code: %w", err)
	}
	return collectSessions(rows)
}

func (s *SQLiteDatabase) ListSessions(ctx context.Context) ([]*booth.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, short_code, created_at FROM sessions ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return collectSessions(rows)
}

// Upload operations

// Record stores an upload record locally. It satisfies booth.Recorder.
func (s *SQLiteDatabase) Record(ctx context.Context, rec booth.UploadRecord) (*booth.UploadRecord, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO uploads (short_code, url, filename, uploaded_at) VALUES (?, ?, ?, ?)",
		rec.SessionID, rec.URL, rec.Filename, s.clock.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting upload: %w", err)
	}
	return &rec, nil
}

// FindUploadsByShortCode returns the uploads recorded for a short code, oldest first.
func (s *SQLiteDatabase) FindUploadsByShortCode(ctx context.Context, shortCode string) ([]*Upload, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, short_code, url, filename, uploaded_at FROM uploads WHERE short_code = ? ORDER BY id", shortCode)
	if err != nil {
		return nil, fmt.Errorf("finding uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*Upload
	for rows.Next() {
		var u Upload
		if err := rows.Scan(&u.ID, &u.ShortCode, &u.URL, &u.Filename, &u.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}
		uploads = append(uploads, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating uploads: %w", err)
	}
	return uploads, nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*booth.Session, error) {
	var session booth.Session
	if err := row.Scan(&session.ID, &session.ShortCode, &session.CreatedAt); err != nil {
		return nil, err
	}
	return &session, nil
}

func collectSessions(rows *sql.Rows) ([]*booth.Session, error) {
	defer rows.Close()

	var sessions []*booth.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

var (
	_ booth.SessionStore = (*SQLiteDatabase)(nil)
	_ booth.Recorder     = (*SQLiteDatabase)(nil)
)
