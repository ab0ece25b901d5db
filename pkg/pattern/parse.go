package pattern

import (
	"fmt"
	"strings"
)

// Parse compiles either a literal of the form /expr/flags or a bare
// expression. For a literal, the flags replace the corresponding fields of
// defaults (g, i, m, s); the engine always comes from defaults. A bare
// expression is compiled with defaults unchanged.
func Parse(text string, defaults Options) (*Pattern, error) {
	expr, flags, ok := splitLiteral(text)
	if !ok {
		return Compile(text, defaults)
	}

	opts := Options{Engine: defaults.Engine}
	for _, r := range flags {
		switch r {
		case 'g':
			opts.Global = true
		case 'i':
			opts.IgnoreCase = true
		case 'm':
			opts.Multiline = true
		case 's':
			opts.DotAll = true
		default:
			return nil, &SyntaxError{Expr: text, Message: fmt.Sprintf("unknown flag %q", r)}
		}
	}

	return Compile(expr, opts)
}

// splitLiteral splits /expr/flags. The closing slash is the last one in the
// text; escaped slashes inside expr are unescaped.
func splitLiteral(text string) (string, string, bool) {
	if len(text) < 2 || text[0] != '/' {
		return "", "", false
	}
	end := strings.LastIndexByte(text, '/')
	if end == 0 {
		return "", "", false
	}
	expr := strings.ReplaceAll(text[1:end], `\/`, "/")
	return expr, text[end+1:], true
}
