// Package fsutil holds the file safety primitives used when rewriting
// documents in place: snapshots for external-modification checks, atomic
// writes and sidecar backups.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Sentinel errors for errors.Is.
var (
	ErrNotFound         = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIsDirectory      = errors.New("path is a directory")
	ErrModified         = errors.New("file modified since it was read")
)

// Snapshot records a file's state at read time.
type Snapshot struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64
	Hash    [sha256.Size]byte
}

// Read returns the content of path together with a snapshot of it.
func Read(ctx context.Context, path string) ([]byte, *Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &Snapshot{
		Path:    path,
		Mode:    stat.Mode().Perm(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

// Changed reports whether the file behind snap differs from when it was read.
// A deleted file counts as changed.
func (snap *Snapshot) Changed() (bool, error) {
	stat, err := os.Stat(snap.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", snap.Path, err)
	}
	if !stat.ModTime().Equal(snap.ModTime) || stat.Size() != snap.Size {
		return true, nil
	}

	content, err := os.ReadFile(snap.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", snap.Path, err)
	}
	return sha256.Sum256(content) != snap.Hash, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}
