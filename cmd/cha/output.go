package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"cha/internal/diag"
)

var useColor bool

// configureColor applies --color to both color libraries.
func configureColor(cmd *cobra.Command) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		mode = "auto"
	}
	useColor = mode == "on" || (mode == "auto" && isTerminal(os.Stdout))
	color.NoColor = !useColor
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func styled(style lipgloss.Style, s string) string {
	if !useColor {
		return s
	}
	return style.Render(s)
}

var severityColors = map[diag.Severity]*color.Color{
	diag.SevError:   color.New(color.FgRed, color.Bold),
	diag.SevWarning: color.New(color.FgYellow, color.Bold),
	diag.SevInfo:    color.New(color.FgCyan),
}

// printDiagnostics writes one block per diagnostic:
//
//	error[WLD2003] demo.toml:Shape: abstract class "Shape" is instantiated
//	  note: demo.toml:App: allocated here
func printDiagnostics(out io.Writer, diags []diag.Diagnostic) {
	for _, d := range diags {
		label := d.Severity.Label()
		if c, ok := severityColors[d.Severity]; ok {
			label = c.Sprint(label)
		}
		where := d.Subject.String()
		if where != "" {
			where += ": "
		}
		fmt.Fprintf(out, "%s[%s] %s%s\n", label, d.Code.ID(), where, d.Message)
		for _, n := range d.Notes {
			nw := n.Subject.String()
			if nw != "" {
				nw += ": "
			}
			fmt.Fprintf(out, "  %s %s%s\n", styled(mutedStyle, "note:"), nw, n.Msg)
		}
	}
}

// writeTable aligns rows by display width. The first row is the header.
func writeTable(out io.Writer, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for r, row := range rows {
		var sb strings.Builder
		for i, cell := range row {
			if i == len(row)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString("  ")
		}
		line := strings.TrimRight(sb.String(), " ")
		if r == 0 {
			line = styled(headerStyle, line)
		}
		fmt.Fprintln(out, line)
	}
}
