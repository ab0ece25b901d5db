package runner

// FileOutcome is the result of one file in a run.
type FileOutcome struct {
	Path string

	// Result is nil when Error is set.
	Result *FileResult
	Error  error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesChanged    int
	FilesWritten    int
	FilesErrored    int
	BackupsCreated  int
	Matches         int
	Replacements    int
}

// Result is the outcome of a run, with Files in discovery order.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// HasChanges reports whether any replacement was made.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	res := outcome.Result
	r.Stats.FilesProcessed++
	r.Stats.Matches += res.Matches
	r.Stats.Replacements += res.Replacements
	if res.Changed {
		r.Stats.FilesChanged++
	}
	if res.Written {
		r.Stats.FilesWritten++
	}
	if res.BackedUp {
		r.Stats.BackupsCreated++
	}
}
