package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/domsplice/pkg/runner"
)

// ReplaceReport is the JSON document written for a replace run.
type ReplaceReport struct {
	Version string       `json:"version"`
	DryRun  bool         `json:"dryRun"`
	Files   []FileReport `json:"files"`
	Summary Summary      `json:"summary"`
}

// FileReport describes one file of a replace run.
type FileReport struct {
	Path         string       `json:"path"`
	Output       string       `json:"output,omitempty"`
	Matches      int          `json:"matches"`
	Replacements int          `json:"replacements"`
	Changed      bool         `json:"changed"`
	Written      bool         `json:"written"`
	BackedUp     bool         `json:"backedUp,omitempty"`
	Rules        []RuleReport `json:"rules,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// RuleReport is the per-rule breakdown of a file.
type RuleReport struct {
	Rule         string `json:"rule"`
	Matches      int    `json:"matches"`
	Replacements int    `json:"replacements"`
}

// Summary mirrors runner.Stats.
type Summary struct {
	FilesDiscovered int `json:"filesDiscovered"`
	FilesChanged    int `json:"filesChanged"`
	FilesWritten    int `json:"filesWritten"`
	FilesErrored    int `json:"filesErrored"`
	BackupsCreated  int `json:"backupsCreated"`
	Matches         int `json:"matches"`
	Replacements    int `json:"replacements"`
}

// MatchReport is the JSON document written for a match run.
type MatchReport struct {
	Version string      `json:"version"`
	Files   []FileMatch `json:"files"`
	Total   int         `json:"total"`
}

// FileMatch lists the hits of one file.
type FileMatch struct {
	Path  string       `json:"path"`
	Hits  []runner.Hit `json:"hits"`
	Error string       `json:"error,omitempty"`
}

// NewReplaceReport converts a run result.
func NewReplaceReport(version string, dryRun bool, result *runner.Result) ReplaceReport {
	report := ReplaceReport{
		Version: version,
		DryRun:  dryRun,
		Files:   make([]FileReport, 0, len(result.Files)),
		Summary: Summary{
			FilesDiscovered: result.Stats.FilesDiscovered,
			FilesChanged:    result.Stats.FilesChanged,
			FilesWritten:    result.Stats.FilesWritten,
			FilesErrored:    result.Stats.FilesErrored,
			BackupsCreated:  result.Stats.BackupsCreated,
			Matches:         result.Stats.Matches,
			Replacements:    result.Stats.Replacements,
		},
	}

	for _, f := range result.Files {
		fr := FileReport{Path: f.Path}
		if f.Error != nil {
			fr.Error = f.Error.Error()
		}
		if res := f.Result; res != nil {
			fr.Matches = res.Matches
			fr.Replacements = res.Replacements
			fr.Changed = res.Changed
			fr.Written = res.Written
			fr.BackedUp = res.BackedUp
			if res.OutputPath != res.Path {
				fr.Output = res.OutputPath
			}
			for _, r := range res.Rules {
				fr.Rules = append(fr.Rules, RuleReport(r))
			}
		}
		report.Files = append(report.Files, fr)
	}
	return report
}

// Add appends the hits, or the error, for one file.
func (m *MatchReport) Add(path string, hits []runner.Hit, err error) {
	fm := FileMatch{Path: path, Hits: hits}
	if fm.Hits == nil {
		fm.Hits = []runner.Hit{}
	}
	if err != nil {
		fm.Error = err.Error()
	}
	m.Files = append(m.Files, fm)
	m.Total += len(hits)
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}
