package testutil

import (
	"context"
	"sync"

	"booth-go/internal/booth"
)

// RecordingRecorder keeps every upload record it receives.
// Records whose filename is in FailFor are rejected with Err.
type RecordingRecorder struct {
	mu      sync.Mutex
	Records []booth.UploadRecord
	FailFor map[string]bool
	Err     error
}

func NewRecordingRecorder() *RecordingRecorder {
	return &RecordingRecorder{FailFor: make(map[string]bool)}
}

func (r *RecordingRecorder) Record(ctx context.Context, rec booth.UploadRecord) (*booth.UploadRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailFor[rec.Filename] {
		return nil, r.Err
	}
	r.Records = append(r.Records, rec)
	return &rec, nil
}

// All returns a copy of the recorded uploads.
func (r *RecordingRecorder) All() []booth.UploadRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]booth.UploadRecord(nil), r.Records...)
}
