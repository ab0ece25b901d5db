package logging

// Structured logging keys.
const (
	FieldError  = "error"
	FieldPath   = "path"
	FieldOutput = "output"
	FieldFiles  = "files"
	FieldJobs   = "jobs"
	FieldConfig = "config"

	FieldRule         = "rule"
	FieldPattern      = "pattern"
	FieldEngine       = "engine"
	FieldSelector     = "selector"
	FieldMatches      = "matches"
	FieldReplacements = "replacements"

	FieldDryRun  = "dry_run"
	FieldChanged = "changed"
	FieldBackup  = "backup"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
