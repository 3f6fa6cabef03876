package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ironsheep/thread-pattern-mcp/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// writeReport prints the legend of a generated page. Without styling the
// report is plain text, one thread per line.
func writeReport(w io.Writer, res *pipeline.Result, out string, styled bool) error {
	fit := res.Fit
	head := fmt.Sprintf("%s  %d×%d cells on %s sheet", out, fit.Cols, fit.Rows,
		fit.Sheet.Size.Orientation().String())
	var note string
	if res.Reduction.Fallback {
		note = fmt.Sprintf("asked for %d threads, image allows %d",
			res.Reduction.Requested, res.Reduction.Possible)
	}

	lines := make([]string, 0, len(res.Legend.Records))
	for _, r := range res.Legend.Records {
		text := r.CatalogText()
		if styled {
			swatch := lipgloss.NewStyle().
				Background(lipgloss.Color(r.Thread.Hex())).
				Render("    ")
			text = swatch + " " + text
		}
		lines = append(lines, text)
	}

	if !styled {
		fmt.Fprintln(w, head)
		if note != "" {
			fmt.Fprintln(w, note)
		}
		for _, l := range lines {
			fmt.Fprintln(w, l)
		}
		return nil
	}

	parts := []string{titleStyle.Render(head)}
	if note != "" {
		parts = append(parts, mutedStyle.Render(note))
	}
	parts = append(parts, strings.Join(lines, "\n"))
	_, err := fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	return err
}
