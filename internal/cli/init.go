package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/domsplice/internal/logging"
	"github.com/yaklabco/domsplice/pkg/config"
	"github.com/yaklabco/domsplice/pkg/fsutil"
)

const defaultConfigFile = ".domsplice.yml"

func newInitCommand() *cobra.Command {
	var (
		force  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter .domsplice.yml",
		Long: `Write a commented configuration file with two example rules to the
current directory, or to the path given with --output.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, output, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().StringVarP(&output, "output", "o", defaultConfigFile, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, output string, force bool) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	path, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if !force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", output)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, output)
	}

	content, err := config.GenerateTemplate()
	if err != nil {
		return err
	}
	if err := fsutil.WriteAtomic(ctx, path, content, fsutil.DefaultFileMode); err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, output)
	return nil
}
