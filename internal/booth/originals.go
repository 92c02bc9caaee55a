package booth

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	// OriginalsDir is the subdirectory of a session holding encrypted originals.
	OriginalsDir = "originals"

	originalSuffix = ".age"
)

// archiveOriginals encrypts every photo into the session's originals directory
// before enhancement overwrites it. Any failure aborts the run: enhancing a
// photo whose original was not archived would lose it.
// A photo that already has an archive entry was archived by an earlier finish
// and is enhanced by now, so its entry is left as is.
func (s *BoothService) archiveOriginals(dir string, photos []string) error {
	if s.encryptor == nil {
		return fmt.Errorf("archiving originals: no encryptor configured")
	}
	if len(photos) == 0 {
		return nil
	}

	archiveDir := filepath.Join(dir, OriginalsDir)
	if err := s.fsmgr.EnsureDir(archiveDir); err != nil {
		return fmt.Errorf("creating originals directory: %w", err)
	}

	archived := 0
	for _, name := range photos {
		dst := filepath.Join(archiveDir, name+originalSuffix)
		exists, err := s.exists(dst)
		if err != nil {
			return &PhotoError{Stage: StageArchive, Filename: name, Err: err}
		}
		if exists {
			s.logger.Debug("original already archived", "filename", name)
			continue
		}
		if err := s.archiveOne(filepath.Join(dir, name), dst); err != nil {
			return &PhotoError{Stage: StageArchive, Filename: name, Err: err}
		}
		s.logger.Debug("original archived", "filename", name)
		archived++
	}

	s.logger.Info("originals archived", "count", archived, "skipped", len(photos)-archived)
	return nil
}

func (s *BoothService) exists(path string) (bool, error) {
	if _, err := s.fsmgr.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	return true, nil
}

func (s *BoothService) archiveOne(src, dst string) error {
	in, err := s.fsmgr.Open(src)
	if err != nil {
		return fmt.Errorf("opening photo: %w", err)
	}
	defer in.Close()

	out, err := s.fsmgr.Create(dst)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}

	if err := s.encryptor.Encrypt(in, out); err != nil {
		out.Close()
		return fmt.Errorf("encrypting photo: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing archive file: %w", err)
	}
	return nil
}

// RestoreOriginals decrypts the archived originals of a session into destDir.
// Returns the restored file paths.
func (s *BoothService) RestoreOriginals(id, passphrase, destDir string) ([]string, error) {
	if s.encryptor == nil {
		return nil, fmt.Errorf("no encryptor configured")
	}

	dir, err := s.existingSessionDir(id)
	if err != nil {
		return nil, err
	}
	archiveDir := filepath.Join(dir, OriginalsDir)

	ok, err := s.fsmgr.IsDir(archiveDir)
	if err != nil {
		return nil, fmt.Errorf("checking originals directory: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("session %s has no archived originals", id)
	}

	dec, err := s.encryptor.Unlock(passphrase)
	if err != nil {
		return nil, fmt.Errorf("unlocking private key: %w", err)
	}

	names, err := s.fsmgr.ListFiles(archiveDir)
	if err != nil {
		return nil, fmt.Errorf("listing originals: %w", err)
	}

	if err := s.fsmgr.EnsureDir(destDir); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}

	var restored []string
	for _, name := range names {
		if !strings.HasSuffix(name, originalSuffix) {
			continue
		}
		dst := filepath.Join(destDir, strings.TrimSuffix(name, originalSuffix))
		if err := s.restoreOne(dec, filepath.Join(archiveDir, name), dst); err != nil {
			return restored, fmt.Errorf("restoring %s: %w", name, err)
		}
		restored = append(restored, dst)
	}

	s.logger.Info("originals restored", "session_id", id, "count", len(restored), "dest", destDir)
	return restored, nil
}

func (s *BoothService) restoreOne(dec DecryptionContext, src, dst string) error {
	in, err := s.fsmgr.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := s.fsmgr.Create(dst)
	if err != nil {
		return err
	}
	if err := dec.Decrypt(in, out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
