package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigPaths represents discovered configuration file paths.
type ConfigPaths struct {
	// User is the user-level config path (e.g., ~/.config/domsplice/config.yaml).
	User string

	// Project is the project-level config path (e.g., ./.domsplice.yml).
	Project string

	// Explicit is a config path provided via --config flag.
	Explicit string
}

// projectConfigFiles are the config file names searched for, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigFiles = []string{
	".domsplice.yml",
	".domsplice.yaml",
	"domsplice.yml",
	"domsplice.yaml",
}

// vcsRootMarkers are directories that indicate a VCS root.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds configuration files in standard locations:
//   - User config at $XDG_CONFIG_HOME/domsplice/config.{yaml,yml}
//   - Project config by searching upward from workDir, stopping at a VCS root
//
// Missing files are represented as empty strings (not errors).
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	paths := &ConfigPaths{User: findUserConfig()}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	paths.Project = project

	return paths, nil
}

// FindProjectConfig searches upward from startDir for a project config file.
// The search stops at the first directory containing a VCS marker or at the
// filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve start directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		for _, name := range projectConfigFiles {
			candidate := filepath.Join(dir, name)
			if fileExists(candidate) {
				return candidate, nil
			}
		}

		if isVCSRoot(dir) {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// findUserConfig returns the user-level config path if it exists.
func findUserConfig() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}

	for _, name := range []string{"config.yaml", "config.yml"} {
		candidate := filepath.Join(base, "domsplice", name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
