// Package cli provides the Cobra command structure for domsplice.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/domsplice/internal/logging"
	"github.com/yaklabco/domsplice/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root domsplice command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "domsplice",
		Short: "Find and replace text across HTML element boundaries",
		Long: `domsplice finds regular-expression matches in the text of HTML and
Markdown documents, even when a match is split across several elements,
and replaces or wraps the matched text while leaving the surrounding
markup intact.

Rules come from the command line or from a .domsplice.yml file. Files are
rewritten atomically, with optional backups, or previewed with --dry-run
and --diff.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "path to config file")
	rootCmd.PersistentFlags().String("color", pretty.ColorAuto, "colorize output: auto, always, never")

	rootCmd.AddCommand(newReplaceCommand(info.Version))
	rootCmd.AddCommand(newMatchCommand(info.Version))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(colorFlag(rootCmd), os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}

// colorFlag reads --color, tolerating commands built without it.
func colorFlag(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil || mode == "" {
		return pretty.ColorAuto
	}
	return mode
}
