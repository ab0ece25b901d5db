package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/domsplice/internal/logging"
	"github.com/yaklabco/domsplice/internal/ui/pretty"
	"github.com/yaklabco/domsplice/pkg/config"
	"github.com/yaklabco/domsplice/pkg/document"
	"github.com/yaklabco/domsplice/pkg/fsutil"
	"github.com/yaklabco/domsplice/pkg/reporter"
	"github.com/yaklabco/domsplice/pkg/runner"
)

func newMatchCommand(version string) *cobra.Command {
	var (
		cfg    config.Config
		format string
	)
	flags := &ruleFlags{}

	cmd := &cobra.Command{
		Use:   "match [paths...]",
		Short: "List matches without changing anything",
		Long: `Print every match of the given patterns, or of the configured rules,
with its offset in the document text and the number of text nodes it
spans. Exits with status 2 when nothing matches.`,
		Example: `  domsplice match -e '/acme\s+corp/gi' site/
  domsplice match --select article -e TODO`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, args, &cfg, flags, format, version)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().StringVar(&format, "format", "text", "report format: text, json")
	return cmd
}

func runMatch(cmd *cobra.Command, args []string, cli *config.Config, flags *ruleFlags, formatName, version string) error {
	format, err := reporter.ParseFormat(formatName)
	if err != nil {
		return err
	}
	flags.apply(cmd, cli)

	cfg, err := loadConfig(cmd, cli)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorFlag(cmd), out))
	width := pretty.Width(out)

	rules, err := runner.CompileRules(cfg)
	if err != nil {
		return err
	}

	files, err := runner.Discover(ctx, runner.Options{
		Paths:        args,
		Extensions:   cfg.Extensions,
		ExcludeGlobs: cfg.Ignore,
	})
	if err != nil {
		return err
	}

	report := reporter.MatchReport{Version: version, Files: []reporter.FileMatch{}}
	failed := false
	for _, path := range files {
		hits, err := scanFile(cmd, cfg, rules, path)
		report.Add(displayPath(path), hits, err)
		if err != nil {
			failed = true
			logger.Error("file failed", logging.FieldPath, path, logging.FieldError, err)
			continue
		}
		if format == reporter.FormatText {
			fmt.Fprint(out, styles.FormatHits(displayPath(path), hits, width))
		}
	}
	total := report.Total

	if format == reporter.FormatJSON {
		if err := reporter.WriteJSON(out, report); err != nil {
			return err
		}
	}

	logger.Debug("match complete", logging.FieldFiles, len(files), logging.FieldMatches, total)

	switch {
	case failed:
		return ErrFilesFailed
	case total == 0:
		return ErrNoMatch
	default:
		return nil
	}
}

func scanFile(cmd *cobra.Command, cfg *config.Config, rules []runner.Rule, path string) ([]runner.Hit, error) {
	ctx := commandContext(cmd)
	content, _, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return runner.Scan(ctx, path, content, rules, document.Options{GFM: cfg.GFM})
}
