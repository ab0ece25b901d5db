// Package config defines core configuration types for domsplice.
// These types are pure data structures with no dependency on how they are loaded.
package config

// BackupsConfig controls backup behavior when files are rewritten in place.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar" or "none"
}

// Engine names accepted in configuration.
const (
	EngineRE2        = "re2"
	EngineECMAScript = "ecmascript"
)

// Rule is one search-and-replace operation.
//
// Exactly one way of producing replacement content applies, checked in this
// order: Wrap wraps each matched fragment in a new element (with Class as its
// class attribute when set); Literal inserts Replace as a single text node per
// match; otherwise Replace is spread over the matched fragments as plain text.
type Rule struct {
	// Name identifies the rule in logs and summaries.
	Name string `yaml:"name"`

	// Pattern is a /expr/flags literal or a bare expression. A bare
	// expression replaces every match.
	Pattern string `yaml:"pattern"`

	Replace string `yaml:"replace,omitempty"`
	Literal bool   `yaml:"literal,omitempty"`
	Wrap    string `yaml:"wrap,omitempty"`
	Class   string `yaml:"class,omitempty"`

	// Group restricts replacement to one capture group; 0 is the whole match.
	Group int `yaml:"group,omitempty"`

	// Select limits the rule to subtrees matching a CSS selector.
	// Empty inherits Config.Select.
	Select string `yaml:"select,omitempty"`

	// Exclude lists element names whose text is never matched.
	// Nil inherits Config.Exclude.
	Exclude []string `yaml:"exclude,omitempty"`

	// Engine overrides Config.Engine for this rule.
	Engine string `yaml:"engine,omitempty"`
}

// Config is the root configuration structure for domsplice.
type Config struct {
	// Engine is the default regular-expression engine ("re2" or "ecmascript").
	Engine string `yaml:"engine"`

	// Exclude lists element names whose text is never matched.
	Exclude []string `yaml:"exclude"`

	// Select limits matching to subtrees matching a CSS selector.
	Select string `yaml:"select,omitempty"`

	// GFM enables GitHub Flavored Markdown for Markdown sources.
	GFM bool `yaml:"gfm"`

	// Rules run in order against every file.
	Rules []Rule `yaml:"rules"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	// Extensions lists the file extensions processed when walking directories.
	Extensions []string `yaml:"extensions,omitempty"`

	// Backups configures backup behavior when rewriting files.
	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// DryRun computes replacements without writing files.
	DryRun bool `yaml:"-"`

	// Diff prints a unified diff for every changed file.
	Diff bool `yaml:"-"`

	// Stdout writes results to standard output instead of the files.
	Stdout bool `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// NoBackups disables backup creation.
	NoBackups bool `yaml:"-"`
}

// DefaultExclude returns the elements excluded from matching by default.
func DefaultExclude() []string {
	return []string{"script", "style"}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Engine:  EngineRE2,
		Exclude: DefaultExclude(),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Jobs: 0, // 0 means use NumCPU
	}
}

// EffectiveExclude returns the rule's exclusions, falling back to the config's.
func (c *Config) EffectiveExclude(r Rule) []string {
	if r.Exclude != nil {
		return r.Exclude
	}
	return c.Exclude
}

// EffectiveSelect returns the rule's selector, falling back to the config's.
func (c *Config) EffectiveSelect(r Rule) string {
	if r.Select != "" {
		return r.Select
	}
	return c.Select
}

// EffectiveEngine returns the rule's engine, falling back to the config's.
func (c *Config) EffectiveEngine(r Rule) string {
	if r.Engine != "" {
		return r.Engine
	}
	if c.Engine != "" {
		return c.Engine
	}
	return EngineRE2
}
