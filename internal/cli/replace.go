package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/domsplice/internal/logging"
	"github.com/yaklabco/domsplice/internal/ui/pretty"
	"github.com/yaklabco/domsplice/pkg/config"
	"github.com/yaklabco/domsplice/pkg/document"
	"github.com/yaklabco/domsplice/pkg/reporter"
	"github.com/yaklabco/domsplice/pkg/runner"
)

// stdinPath is the path argument that selects standard input.
const stdinPath = "-"

type replaceFlags struct {
	ruleFlags
	inputFormat string
	format      string
}

func newReplaceCommand(version string) *cobra.Command {
	var cfg config.Config
	flags := &replaceFlags{}

	cmd := &cobra.Command{
		Use:   "replace [paths...]",
		Short: "Replace matches in HTML and Markdown files",
		Long: `Replace every match of the given patterns in the text of HTML and
Markdown files. A match may span several elements; each fragment is
replaced in place so the surrounding markup is preserved.

Without --pattern, the rules from the configuration file are applied.
Markdown sources are rendered to HTML and written to a sibling .html file.
Use "-" as the only path to read standard input and write standard output.`,
		Example: `  domsplice replace -e '/acme corp/gi' --wrap mark site/
  domsplice replace -e colour --with color --dry-run --diff docs/
  domsplice replace -e '/v(\d+)/g' --group 1 --wrap b index.html
  cat page.html | domsplice replace -e foo --with bar -`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplace(cmd, args, &cfg, flags, version)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "compute replacements without writing files")
	cmd.Flags().BoolVar(&cfg.Diff, "diff", false, "print a unified diff for every changed file")
	cmd.Flags().BoolVar(&cfg.Stdout, "stdout", false, "print results instead of writing files")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "do not create .domsplice.bak backups")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringVar(&flags.inputFormat, "input-format", "", "format of standard input: html, markdown")
	cmd.Flags().StringVar(&flags.format, "format", "text", "report format: text, json")

	return cmd
}

func runReplace(cmd *cobra.Command, args []string, cli *config.Config, flags *replaceFlags, version string) error {
	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	flags.apply(cmd, cli)

	cfg, err := loadConfig(cmd, cli)
	if err != nil {
		return err
	}
	if format == reporter.FormatJSON && cfg.Stdout {
		return errors.New("--stdout cannot be combined with --format json")
	}

	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorFlag(cmd), cmd.OutOrStdout()))

	rules, err := runner.CompileRules(cfg)
	if err != nil {
		return err
	}

	if len(args) == 1 && args[0] == stdinPath {
		return replaceStdin(cmd, cfg, rules, document.Format(flags.inputFormat))
	}
	for _, a := range args {
		if a == stdinPath {
			return errors.New(`"-" must be the only path`)
		}
	}

	logger.Debug("starting replace run",
		logging.FieldFiles, args,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
	)

	result, err := runner.Run(ctx, runner.Options{
		Paths:        args,
		Extensions:   cfg.Extensions,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Config:       cfg,
		Rules:        rules,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("replace run failed: %w", err)
	}

	for _, f := range result.Files {
		if f.Error != nil {
			logger.Error("file failed", logging.FieldPath, f.Path, logging.FieldError, f.Error)
		}
	}

	if format == reporter.FormatJSON {
		if err := reporter.WriteJSON(cmd.OutOrStdout(), reporter.NewReplaceReport(version, cfg.DryRun, result)); err != nil {
			return err
		}
		return resultError(result)
	}

	if err := report(cmd.OutOrStdout(), styles, cfg, result); err != nil {
		return err
	}
	fmt.Fprint(cmd.ErrOrStderr(), styles.FormatSummary(result.Stats, cfg.DryRun))

	return resultError(result)
}

// report prints per-file output: the rewritten document for --stdout and a
// diff for --diff.
func report(w io.Writer, styles *pretty.Styles, cfg *config.Config, result *runner.Result) error {
	for _, f := range result.Files {
		if f.Result == nil || !f.Result.Changed {
			continue
		}

		if cfg.Stdout {
			if _, err := w.Write(f.Result.After); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			continue
		}

		if cfg.Diff {
			diff, err := styles.Diff(displayPath(f.Result.OutputPath), f.Result.Before, f.Result.After)
			if err != nil {
				return err
			}
			fmt.Fprint(w, diff)
		}
	}
	return nil
}

func replaceStdin(cmd *cobra.Command, cfg *config.Config, rules []runner.Rule, format document.Format) error {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read standard input: %w", err)
	}

	res, err := runner.Process(commandContext(cmd), "stdin", content, rules, document.Options{Format: format, GFM: cfg.GFM})
	if err != nil {
		return err
	}

	out := res.After
	if !res.Changed {
		out = content
	}
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// displayPath shortens absolute paths under the working directory.
func displayPath(path string) string {
	abs, err := filepath.Abs(".")
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(abs, path); err == nil && filepath.IsLocal(rel) {
		return filepath.ToSlash(rel)
	}
	return path
}
