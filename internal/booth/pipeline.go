package booth

import (
	"context"
	"fmt"
	"path/filepath"
)

// FinishReport describes one run of the capture-to-publish pipeline.
type FinishReport struct {
	SessionID string
	ShortCode string

	// Imported is the number of photos in the session directory after import.
	Imported int
	// ImportErr is the capture failure, if any. It never aborts the run.
	ImportErr error
	// Erased is true when the camera storage was cleared.
	Erased bool

	// Photos holds one result per photo: enhancement failures skipped under
	// FailSkip, followed by the upload results.
	Photos []PhotoResult

	QRPath string
}

// URLs returns the public URLs of the photos published by this run.
func (r *FinishReport) URLs() []string {
	return URLs(r.Photos)
}

// Failures returns the photos that did not make it to the bucket.
func (r *FinishReport) Failures() []*PhotoError {
	var failures []*PhotoError
	for _, p := range r.Photos {
		if p.Err != nil {
			failures = append(failures, p.Err)
		}
	}
	return failures
}

// FinishSession imports photos from the camera into the session directory,
// enhances them, publishes them and writes the session's QR code.
//
// Capture and recording failures are logged and the run continues. Upload
// failures are reported per photo. Enhancement failures abort the run or are
// reported per photo, depending on Settings.OnEnhanceFailure.
// Returns ErrSessionNotFound when the session has no directory.
func (s *BoothService) FinishSession(ctx context.Context, id string) (*FinishReport, error) {
	dir, err := s.existingSessionDir(id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(id)
	defer unlock()

	report := &FinishReport{
		SessionID: id,
		ShortCode: s.ResolveShortCode(ctx, id),
	}

	s.logger.Info("finishing session", "session_id", id, "short_code", report.ShortCode)

	photos, err := s.importPhotos(ctx, dir, report)
	if err != nil {
		return nil, err
	}

	if s.settings.ArchiveOriginals {
		if err := s.archiveOriginals(dir, photos); err != nil {
			return nil, err
		}
	}

	ready, err := s.enhanceAll(dir, photos, report)
	if err != nil {
		return nil, err
	}

	report.Photos = append(report.Photos, s.publishPhotos(ctx, dir, ready, report.ShortCode)...)

	qrPath, err := s.qr.Generate(report.ShortCode, dir)
	if err != nil {
		return nil, fmt.Errorf("generating qr code: %w", err)
	}
	report.QRPath = qrPath

	s.logger.Info("session finished",
		"session_id", id,
		"imported", report.Imported,
		"published", len(report.URLs()),
		"failed", len(report.Failures()),
	)
	return report, nil
}

// importPhotos pulls the camera's files into dir and returns the photos present
// afterwards. The camera is only erased when the import succeeded and at least
// one photo is on disk, so media is never deleted without a local copy.
func (s *BoothService) importPhotos(ctx context.Context, dir string, report *FinishReport) ([]string, error) {
	s.logger.Info("starting camera import", "dir", dir)

	importErr := s.camera.ImportAll(ctx, dir)
	if importErr != nil {
		report.ImportErr = importErr
		s.logger.Error("camera import failed", "dir", dir, "error", importErr)
	}

	photos, err := s.listPhotos(dir)
	if err != nil {
		return nil, err
	}
	report.Imported = len(photos)

	switch {
	case importErr != nil:
		s.logger.Warn("skipping camera erase after failed import", "photos", len(photos))
	case len(photos) == 0:
		s.logger.Info("no photos downloaded, skipping camera erase")
	default:
		s.logger.Info("photos downloaded, erasing camera", "photos", len(photos))
		if err := s.camera.EraseAll(ctx); err != nil {
			s.logger.Error("camera erase failed", "error", err)
		} else {
			report.Erased = true
		}
	}

	s.logger.Info("camera import done", "photos", len(photos))
	return photos, nil
}

// enhanceAll enhances each photo in place and returns those ready to publish.
func (s *BoothService) enhanceAll(dir string, photos []string, report *FinishReport) ([]string, error) {
	ready := make([]string, 0, len(photos))
	for _, name := range photos {
		if err := s.enhancer.Enhance(filepath.Join(dir, name)); err != nil {
			perr := &PhotoError{Stage: StageEnhance, Filename: name, Err: err}
			if s.settings.OnEnhanceFailure == FailAbort {
				return nil, perr
			}
			s.logger.Error("enhancement failed, skipping photo", "filename", name, "error", err)
			report.Photos = append(report.Photos, PhotoResult{Filename: name, Err: perr})
			continue
		}
		s.logger.Debug("photo enhanced", "filename", name)
		ready = append(ready, name)
	}
	return ready, nil
}

// PublishSession uploads and records every photo in a session directory
// under shortCode. Individual photo failures are reported in the results.
func (s *BoothService) PublishSession(ctx context.Context, dir, shortCode string) ([]PhotoResult, error) {
	photos, err := s.listPhotos(dir)
	if err != nil {
		return nil, err
	}
	results := s.publishPhotos(ctx, dir, photos, shortCode)
	return results, nil
}

// RepublishSession publishes an existing session by ID without touching the
// camera or re-enhancing its photos.
func (s *BoothService) RepublishSession(ctx context.Context, id string) ([]PhotoResult, error) {
	dir, err := s.existingSessionDir(id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(id)
	defer unlock()

	return s.PublishSession(ctx, dir, s.ResolveShortCode(ctx, id))
}

func (s *BoothService) publishPhotos(ctx context.Context, dir string, photos []string, shortCode string) []PhotoResult {
	results := make([]PhotoResult, 0, len(photos))
	for _, name := range photos {
		results = append(results, s.publishPhoto(ctx, dir, name, shortCode))
	}
	s.logger.Info("upload complete", "short_code", shortCode, "uploaded", len(URLs(results)), "total", len(photos))
	return results
}

// publishPhoto uploads one photo and then records it.
// The record is best-effort: its failure is logged and kept on the result.
func (s *BoothService) publishPhoto(ctx context.Context, dir, name, shortCode string) PhotoResult {
	result := PhotoResult{Filename: name}
	fail := func(err error) PhotoResult {
		result.Err = &PhotoError{Stage: StageUpload, Filename: name, Err: err}
		s.logger.Error("upload failed", "filename", name, "error", err)
		return result
	}

	path := filepath.Join(dir, name)
	info, err := s.fsmgr.Stat(path)
	if err != nil {
		return fail(fmt.Errorf("stat photo: %w", err))
	}

	f, err := s.fsmgr.Open(path)
	if err != nil {
		return fail(fmt.Errorf("opening photo: %w", err))
	}
	defer f.Close()

	key := ObjectKey(shortCode, name)
	s.logger.Debug("uploading photo", "key", key)
	if err := s.objects.Put(ctx, key, f, info.Size(), PhotoContentType); err != nil {
		return fail(err)
	}
	result.URL = s.objects.PublicURL(key)
	s.logger.Info("photo uploaded", "key", key, "url", result.URL)

	if s.recorder == nil {
		return result
	}
	rec, err := s.recorder.Record(ctx, UploadRecord{SessionID: shortCode, URL: result.URL, Filename: name})
	if err != nil {
		result.RecordErr = err
		s.logger.Error("creating upload record failed", "filename", name, "error", err)
		return result
	}
	result.Recorded = rec != nil
	return result
}
