package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupMode selects where backups go.
type BackupMode string

const (
	// BackupModeSidecar writes <file>.domsplice.bak next to the file.
	BackupModeSidecar BackupMode = "sidecar"
	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is appended to sidecar backups.
const BackupSuffix = ".domsplice.bak"

// BackupPath returns the backup location for path, or "" when mode disables
// backups. Unknown modes fall back to sidecar.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// Backup copies path to its backup location. An existing backup is never
// overwritten, so repeated runs keep the oldest original. It reports whether
// a backup was written.
func Backup(ctx context.Context, path string, mode BackupMode) (bool, error) {
	dest := BackupPath(path, mode)
	if dest == "" {
		return false, nil
	}

	if _, err := os.Stat(dest); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat backup: %w", err)
	}

	content, snap, err := Read(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("backup: %w", err)
	}

	if err := WriteAtomic(ctx, dest, content, snap.Mode); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// Restore copies the backup of path back over it and removes the backup.
// It reports false when no backup exists.
func Restore(ctx context.Context, path string, mode BackupMode) (bool, error) {
	src := BackupPath(path, mode)
	if src == "" {
		return false, nil
	}

	content, snap, err := Read(ctx, src)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restore: %w", err)
	}

	if err := WriteAtomic(ctx, path, content, snap.Mode); err != nil {
		return false, fmt.Errorf("restore: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return true, fmt.Errorf("remove backup: %w", err)
	}
	return true, nil
}
