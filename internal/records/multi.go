package records

import (
	"context"
	"errors"

	"booth-go/internal/booth"
)

// MultiRecorder fans a record out to several recorders. Every recorder is
// tried; the first successful result is returned along with any errors.
type MultiRecorder struct {
	recorders []booth.Recorder
}

// NewMultiRecorder returns a recorder writing to each non-nil recorder in order.
func NewMultiRecorder(recorders ...booth.Recorder) *MultiRecorder {
	m := &MultiRecorder{}
	for _, r := range recorders {
		if r != nil {
			m.recorders = append(m.recorders, r)
		}
	}
	return m
}

func (m *MultiRecorder) Record(ctx context.Context, rec booth.UploadRecord) (*booth.UploadRecord, error) {
	var (
		first *booth.UploadRecord
		errs  []error
	)
	for _, r := range m.recorders {
		got, err := r.Record(ctx, rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if first == nil {
			first = got
		}
	}
	if first == nil && len(errs) == 0 {
		first = &rec
	}
	return first, errors.Join(errs...)
}

var _ booth.Recorder = (*MultiRecorder)(nil)
