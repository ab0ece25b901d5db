package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/domsplice/internal/logging"
	"github.com/yaklabco/domsplice/pkg/config"
	"github.com/yaklabco/domsplice/pkg/document"
	"github.com/yaklabco/domsplice/pkg/fsutil"
)

// Run discovers files and applies the rules to each of them with a pool of
// workers. Per-file failures are recorded in the result and do not stop the
// run; configuration and discovery failures do.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	rules := opts.Rules
	if rules == nil {
		compiled, err := CompileRules(cfg)
		if err != nil {
			return nil, err
		}
		rules = compiled
	}
	if len(rules) == 0 {
		return nil, ErrNoRules
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ctx = logging.WithLogger(ctx, logger)
	logger.Debug("starting run", logging.FieldFiles, len(files), logging.FieldJobs, jobs)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range workCh {
				outcome := FileOutcome{Path: path}
				outcome.Result, outcome.Error = processFile(ctx, path, rules, cfg)

				select {
				case <-ctx.Done():
					return
				case outCh <- outcome:
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// processFile reads, rewrites and commits one file.
func processFile(ctx context.Context, path string, rules []Rule, cfg *config.Config) (*FileResult, error) {
	logger := logging.FromContext(ctx)

	content, snap, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	res, err := Process(ctx, path, content, rules, document.Options{GFM: cfg.GFM})
	if err != nil {
		return nil, err
	}

	if !res.Changed || cfg.DryRun || cfg.Stdout {
		return res, nil
	}

	if err := write(ctx, res, snap, cfg); err != nil {
		return res, err
	}

	logger.Debug("file written",
		logging.FieldPath, path,
		logging.FieldOutput, res.OutputPath,
		logging.FieldReplacements, res.Replacements,
		logging.FieldBackup, res.BackedUp,
	)
	return res, nil
}

func write(ctx context.Context, res *FileResult, snap *fsutil.Snapshot, cfg *config.Config) error {
	if res.OutputPath != res.Path {
		written, err := fsutil.WriteIfChanged(ctx, res.OutputPath, res.After, snap.Mode)
		res.Written = written
		return err
	}

	if cfg.Backups.Enabled && !cfg.NoBackups {
		created, err := fsutil.Backup(ctx, res.Path, fsutil.BackupMode(cfg.Backups.Mode))
		if err != nil {
			return err
		}
		res.BackedUp = created
	}

	if err := fsutil.Commit(ctx, snap, res.After); err != nil {
		if errors.Is(err, fsutil.ErrModified) {
			return fmt.Errorf("skipped: %w", err)
		}
		return err
	}
	res.Written = true
	return nil
}
