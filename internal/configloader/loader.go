// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support and validation.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/domsplice/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// If set, project config discovery is skipped.
	ExplicitPath string

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (DOMSPLICE_*)
//  3. Explicit config file (opts.ExplicitPath), or else
//     project config (.domsplice.yml upward search)
//  4. User config ($XDG_CONFIG_HOME/domsplice/config.yaml)
//  5. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	if !opts.IgnoreUserConfig && paths.User != "" {
		if cfg, err = mergeFile(cfg, paths.User, result); err != nil {
			return nil, fmt.Errorf("load user config: %w", err)
		}
	}

	switch {
	case opts.ExplicitPath != "":
		if cfg, err = mergeFile(cfg, opts.ExplicitPath, result); err != nil {
			return nil, fmt.Errorf("load explicit config: %w", err)
		}
	case !opts.IgnoreProjectConfig && paths.Project != "":
		if cfg, err = mergeFile(cfg, paths.Project, result); err != nil {
			return nil, fmt.Errorf("load project config: %w", err)
		}
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		first := validation.Errors[0]
		return nil, &first
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

func mergeFile(base *config.Config, path string, result *LoadResult) (*config.Config, error) {
	fileCfg, err := loadConfigFile(path)
	if err != nil {
		return nil, err
	}
	result.LoadedFrom = append(result.LoadedFrom, path)
	return merge(base, fileCfg), nil
}

// loadConfigFile reads and parses a YAML configuration file.
func loadConfigFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg, err := config.FromYAML(data)
	if err != nil {
		return nil, &ValidationError{FilePath: path, Message: err.Error()}
	}
	return cfg, nil
}
