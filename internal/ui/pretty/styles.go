// Package pretty renders domsplice output for terminals with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Color modes accepted by IsColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const defaultWidth = 100

// Styles holds the renderers used for CLI output.
type Styles struct {
	FilePath lipgloss.Style
	Rule     lipgloss.Style
	Match    lipgloss.Style
	Offset   lipgloss.Style

	DiffHeader lipgloss.Style
	DiffHunk   lipgloss.Style
	DiffAdd    lipgloss.Style
	DiffRemove lipgloss.Style

	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Failure lipgloss.Style
	Dim     lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when color is disabled.
func NewStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{
			FilePath: plain, Rule: plain, Match: plain, Offset: plain,
			DiffHeader: plain, DiffHunk: plain, DiffAdd: plain, DiffRemove: plain,
			Title: plain, Success: plain, Warning: plain, Failure: plain, Dim: plain,
		}
	}

	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return &Styles{
		FilePath: lipgloss.NewStyle().Bold(true),
		Rule:     fg("8"),
		Match:    fg("11").Bold(true),
		Offset:   fg("8"),

		DiffHeader: lipgloss.NewStyle().Bold(true),
		DiffHunk:   fg("14"),
		DiffAdd:    fg("10"),
		DiffRemove: fg("9"),

		Title:   lipgloss.NewStyle().Bold(true),
		Success: fg("10").Bold(true),
		Warning: fg("11").Bold(true),
		Failure: fg("9").Bold(true),
		Dim:     fg("8"),
	}
}

// IsColorEnabled resolves a color mode for writer. In auto mode color is on
// only for terminals and only when NO_COLOR is unset.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Width returns the terminal width of writer, or a default when it is not a
// terminal.
func Width(writer io.Writer) int {
	if f, ok := writer.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}
