package booth

import (
	"context"
	"fmt"
	"io"
)

// PhotoContentType is the content type every published photo is stored with.
const PhotoContentType = "image/jpeg"

// ObjectStore provides an interface for the bucket that hosts published photos.
// Put streams from r so photos are never loaded entirely into memory.
type ObjectStore interface {
	// Put stores size bytes read from r under key, publicly readable.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// PublicURL returns the URL a stored key is served from.
	// It is computed, not fetched, so it is valid before the upload completes.
	PublicURL(key string) string

	// ValidateSetup verifies that the store is reachable and configured.
	ValidateSetup(ctx context.Context) error
}

// UploadRecord is the database row written for each uploaded photo.
// SessionID holds the short code the photo's key is namespaced by.
type UploadRecord struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	Filename  string `json:"filename"`
}

// Recorder writes upload records somewhere durable.
// Callers treat recording as best-effort: an error never blocks later uploads.
type Recorder interface {
	// Record stores rec. It returns the stored row, or nil when the
	// recorder accepted the record without echoing it back.
	Record(ctx context.Context, rec UploadRecord) (*UploadRecord, error)
}

// Stage names the pipeline step a photo failed in.
type Stage string

const (
	StageEnhance Stage = "enhance"
	StageArchive Stage = "archive"
	StageUpload  Stage = "upload"
)

// PhotoError is the typed failure for a single photo.
type PhotoError struct {
	Stage    Stage
	Filename string
	Err      error
}

func (e *PhotoError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Filename, e.Err)
}

func (e *PhotoError) Unwrap() error { return e.Err }

// PhotoResult is the outcome of publishing one photo.
// Exactly one of URL and Err is set.
type PhotoResult struct {
	Filename string
	URL      string
	Err      *PhotoError

	// Recorded is true when the upload record was stored.
	// RecordErr holds the recorder's error; it does not make the photo failed.
	Recorded  bool
	RecordErr error
}

// OK reports whether the photo was uploaded.
func (r PhotoResult) OK() bool { return r.Err == nil }

// URLs returns the public URLs of the successfully uploaded photos, in order.
func URLs(results []PhotoResult) []string {
	var urls []string
	for _, r := range results {
		if r.OK() {
			urls = append(urls, r.URL)
		}
	}
	return urls
}

// ObjectKey returns the bucket key for a photo of a session.
func ObjectKey(shortCode, filename string) string {
	return shortCode + "/" + filename
}
