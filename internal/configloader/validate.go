package configloader

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"

	"github.com/yaklabco/domsplice/pkg/config"
	"github.com/yaklabco/domsplice/pkg/pattern"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "rules[0].pattern").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) addError(field string, value any, msg string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: msg})
}

func (r *ValidationResult) addWarning(field string, value any, msg string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: msg})
}

// Validate checks the configuration for errors and warnings. Every rule
// pattern is compiled so that syntax errors and out-of-range capture groups
// are caught before any file is touched.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Engine != "" && !pattern.Engine(cfg.Engine).IsValid() {
		result.addError("engine", cfg.Engine, "must be one of: re2, ecmascript")
	}
	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "must be non-negative")
	}
	switch cfg.Backups.Mode {
	case "", "sidecar", "none":
	default:
		result.addError("backups.mode", cfg.Backups.Mode, "must be one of: sidecar, none")
	}
	validateSelector(result, "select", cfg.Select)

	for i, rule := range cfg.Rules {
		validateRule(result, cfg, i, rule)
	}

	return result
}

func validateRule(result *ValidationResult, cfg *config.Config, index int, rule config.Rule) {
	field := func(name string) string {
		return fmt.Sprintf("rules[%d].%s", index, name)
	}

	engine := cfg.EffectiveEngine(rule)
	if !pattern.Engine(engine).IsValid() {
		result.addError(field("engine"), engine, "must be one of: re2, ecmascript")
		return
	}

	if rule.Pattern == "" {
		result.addError(field("pattern"), rule.Pattern, "is required")
		return
	}

	compiled, err := pattern.Parse(rule.Pattern, pattern.Options{Global: true, Engine: pattern.Engine(engine)})
	if err != nil {
		result.addError(field("pattern"), rule.Pattern, err.Error())
		return
	}
	if rule.Group < 0 || rule.Group > compiled.NumGroups() {
		result.addError(field("group"), rule.Group,
			fmt.Sprintf("pattern has %d capture groups", compiled.NumGroups()))
	}

	if rule.Wrap != "" && (rule.Literal || rule.Replace != "") {
		result.addWarning(field("wrap"), rule.Wrap, "replace and literal are ignored when wrap is set")
	}
	if rule.Class != "" && rule.Wrap == "" {
		result.addWarning(field("class"), rule.Class, "class has no effect without wrap")
	}

	validateSelector(result, field("select"), rule.Select)
}

func validateSelector(result *ValidationResult, field, selector string) {
	if strings.TrimSpace(selector) == "" {
		return
	}
	if _, err := cascadia.Compile(selector); err != nil {
		result.addError(field, selector, "invalid CSS selector: "+err.Error())
	}
}
