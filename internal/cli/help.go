package cli

import (
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/domsplice/internal/ui/pretty"
)

// HelpFormatter renders cobra help and usage with lipgloss styles.
type HelpFormatter struct {
	heading lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

// NewHelpFormatter returns a formatter honoring the color mode for writer.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	if !pretty.IsColorEnabled(colorMode, writer) {
		plain := lipgloss.NewStyle()
		return &HelpFormatter{heading: plain, command: plain, flag: plain, dim: plain}
	}
	return &HelpFormatter{
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

const usageTemplate = `{{heading "Usage:"}}{{if .Runnable}}
  {{command .UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]{{end}}{{if .HasExample}}

{{heading "Examples:"}}
{{dim .Example}}{{end}}{{if .HasAvailableSubCommands}}

{{heading "Commands:"}}{{range .Commands}}{{if .IsAvailableCommand}}
  {{command (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags}}{{end}}{{if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{trim .}}

{{end}}` + usageTemplate

// ApplyToCommand installs the styled help and usage functions on cmd. Cobra
// subcommands inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := template.FuncMap{
		"heading": h.heading.Render,
		"command": h.command.Render,
		"dim":     h.dim.Render,
		"flags":   h.flagUsages,
		"rpad":    rpad,
		"trim":    strings.TrimSpace,
	}
	usage := template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	help := template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate))

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return usage.Execute(c.OutOrStderr(), c)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// flagUsages styles the flag names in pflag's usage text.
func (h *HelpFormatter) flagUsages(flags interface{ FlagUsages() string }) string {
	lines := strings.Split(strings.TrimRight(flags.FlagUsages(), "\n"), "\n")
	for i, line := range lines {
		name, rest, ok := splitFlagLine(line)
		if ok {
			lines[i] = h.flag.Render(name) + rest
		}
	}
	return strings.Join(lines, "\n")
}

// splitFlagLine splits "  -e, --pattern stringArray   help" after the flag
// names, keeping the type and description in rest.
func splitFlagLine(line string) (name, rest string, ok bool) {
	trimmed := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(trimmed, "-") {
		return "", "", false
	}
	indent := line[:len(line)-len(trimmed)]

	end := strings.Index(trimmed, " ")
	if end < 0 {
		return line, "", true
	}
	if strings.HasSuffix(trimmed[:end], ",") {
		next := strings.Index(trimmed[end+1:], " ")
		if next < 0 {
			return line, "", true
		}
		end += 1 + next
	}
	return indent + trimmed[:end], trimmed[end:], true
}

func rpad(s string, padding int) string {
	if len(s) >= padding {
		return s
	}
	return s + strings.Repeat(" ", padding-len(s))
}
