// Package main is the entry point for the domsplice CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaklabco/domsplice/internal/cli"
	"github.com/yaklabco/domsplice/internal/logging"
)

// Build-time variables set via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !cli.Quiet(err) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}
	return cli.ExitCode(err)
}
