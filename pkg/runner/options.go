// Package runner applies configured replacement rules to many files.
package runner

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/domsplice/pkg/config"
	"github.com/yaklabco/domsplice/pkg/document"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are files or directories to process. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths and globs. Empty means os.Getwd().
	WorkingDir string

	// Extensions selects files when walking directories. Empty means
	// document.DefaultExtensions(). Explicitly named files are always taken.
	Extensions []string

	// ExcludeGlobs are doublestar patterns, relative to WorkingDir, for files
	// and directories to skip.
	ExcludeGlobs []string

	// FollowSymlinks traverses directory symlinks.
	FollowSymlinks bool

	// Jobs is the worker count. 0 or negative means runtime.NumCPU().
	Jobs int

	// Config is the resolved configuration.
	Config *config.Config

	// Rules overrides Config.Rules when non-nil.
	Rules []Rule

	// Logger receives per-file debug output. Nil disables it.
	Logger *log.Logger
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return document.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
