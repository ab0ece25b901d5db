// Package reporter writes machine-readable reports of replace and match runs.
package reporter

import "fmt"

// Format is an output format.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name. Empty means text.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", string(FormatText):
		return FormatText, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q; valid formats: text, json", name)
	}
}
