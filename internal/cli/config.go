package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/domsplice/internal/configloader"
	"github.com/yaklabco/domsplice/internal/logging"
	"github.com/yaklabco/domsplice/pkg/config"
)

// ruleFlags are the flags that define an ad-hoc rule on the command line.
type ruleFlags struct {
	patterns []string
	with     string
	literal  bool
	wrap     string
	class    string
	group    int
	engine   string
	selector string
	exclude  []string
	ignore   []string
	gfm      bool
}

func (f *ruleFlags) register(cmd *cobra.Command, replacing bool) {
	flags := cmd.Flags()
	flags.StringArrayVarP(&f.patterns, "pattern", "e", nil, "pattern to find, /expr/flags or a bare expression (repeatable)")
	if replacing {
		flags.StringVar(&f.with, "with", "", "replacement text, spread over the matched fragments")
		flags.BoolVar(&f.literal, "literal", false, "insert --with as a single text node per match")
		flags.StringVar(&f.wrap, "wrap", "", "wrap each matched fragment in an element with this tag")
		flags.StringVar(&f.class, "class", "", "class attribute for --wrap elements")
	}
	flags.IntVar(&f.group, "group", 0, "only act on this capture group (0 = whole match)")
	flags.StringVar(&f.engine, "engine", "", "regular-expression engine: re2, ecmascript")
	flags.StringVar(&f.selector, "select", "", "CSS selector limiting matching to some subtrees")
	flags.StringSliceVar(&f.exclude, "exclude", nil, "elements whose text is never matched (default script,style)")
	flags.StringSliceVar(&f.ignore, "ignore", nil, "glob patterns for files to skip")
	flags.BoolVar(&f.gfm, "gfm", false, "use GitHub Flavored Markdown for Markdown sources")
}

// apply copies explicitly set flags into cfg. Patterns given on the command
// line replace any configured rules.
func (f *ruleFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("engine") {
		cfg.Engine = f.engine
	}
	if changed("select") {
		cfg.Select = f.selector
	}
	if changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if changed("ignore") {
		cfg.Ignore = f.ignore
	}
	cfg.GFM = f.gfm

	for _, p := range f.patterns {
		cfg.Rules = append(cfg.Rules, config.Rule{
			Name:    p,
			Pattern: p,
			Replace: f.with,
			Literal: f.literal,
			Wrap:    f.wrap,
			Class:   f.class,
			Group:   f.group,
		})
	}
}

// loadConfig resolves configuration with cli taking precedence.
func loadConfig(cmd *cobra.Command, cli *config.Config) (*config.Config, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	res, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	for _, w := range res.Warnings {
		logger.Warn(w)
	}
	if len(res.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfig, res.LoadedFrom)
	}
	return res.Config, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
