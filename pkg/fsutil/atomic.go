package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFileMode is used for new files when no mode is given.
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic writes content to a temp file beside path and renames it into
// place. On failure the temp file is removed and path is left untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// WriteIfChanged writes content atomically unless path already holds exactly
// that content. It reports whether a write happened.
func WriteIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return false, fmt.Errorf("read existing %s: %w", path, err)
	case bytes.Equal(existing, content):
		return false, nil
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}

// Commit writes content over the file described by snap, refusing with
// ErrModified if the file changed since it was read.
func Commit(ctx context.Context, snap *Snapshot, content []byte) error {
	changed, err := snap.Changed()
	if err != nil {
		return err
	}
	if changed {
		return fmt.Errorf("%w: %s", ErrModified, snap.Path)
	}
	return WriteAtomic(ctx, snap.Path, content, snap.Mode)
}
