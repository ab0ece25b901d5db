package configloader

import "github.com/yaklabco/domsplice/pkg/config"

// merge combines two configurations, with override taking precedence over base:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Rules: a non-empty override rule list replaces the base list
//   - Booleans can only be switched on by an override
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Engine != "" {
		result.Engine = override.Engine
	}
	if override.Select != "" {
		result.Select = override.Select
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}

	result.GFM = base.GFM || override.GFM
	result.DryRun = base.DryRun || override.DryRun
	result.Diff = base.Diff || override.Diff
	result.Stdout = base.Stdout || override.Stdout
	result.NoBackups = base.NoBackups || override.NoBackups
	result.Backups.Enabled = base.Backups.Enabled || override.Backups.Enabled

	if override.Exclude != nil {
		result.Exclude = override.Exclude
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if len(override.Rules) > 0 {
		result.Rules = override.Rules
	}

	return &result
}
