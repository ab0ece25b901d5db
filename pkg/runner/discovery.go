package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover resolves opts.Paths to a sorted, deduplicated list of absolute
// file paths. Directories are walked for files with a matching extension;
// hidden entries and anything matching ExcludeGlobs are skipped. A file named
// explicitly is taken whatever its extension, unless it is excluded.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	w := walker{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		exclude:    opts.ExcludeGlobs,
		follow:     opts.FollowSymlinks,
		seen:       make(map[string]struct{}),
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if info.IsDir() {
			if err := w.walk(path); err != nil {
				return nil, err
			}
			continue
		}
		if !w.excluded(path) {
			w.add(path)
		}
	}

	slices.Sort(w.files)
	return w.files, nil
}

type walker struct {
	ctx        context.Context
	workDir    string
	extensions []string
	exclude    []string
	follow     bool

	seen  map[string]struct{}
	files []string
}

func (w *walker) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || w.excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !w.follow {
					return nil
				}
				return w.walk(target)
			}
		}

		if w.hasExtension(path) && !w.excluded(path) {
			w.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (w *walker) add(path string) {
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, path)
}

func (w *walker) hasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.ContainsFunc(w.extensions, func(e string) bool {
		return strings.ToLower(e) == ext
	})
}

// excluded matches the path relative to the working directory, and its base
// name, against the exclude globs.
func (w *walker) excluded(path string) bool {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, glob := range w.exclude {
		glob = filepath.ToSlash(glob)
		if ok, _ := doublestar.Match(glob, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(glob, base); ok {
			return true
		}
	}
	return false
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}
