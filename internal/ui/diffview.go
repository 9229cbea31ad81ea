package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opabravo/forescout-tools/internal/diff"
)

// RenderDiff renders a diff result as a colored box: "~" for changed
// values, "+" for added items, "-" for removed items.
func RenderDiff(r *diff.Result, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	valueWidth := width - 12

	var lines []string
	if r == nil || r.Empty() {
		lines = append(lines, InfoStyle.Render("The edited file matches the backup."))
	} else {
		lines = append(lines, WarningTitleStyle.Render("Segments differences: "+r.Summary()), "")
		for _, e := range r.Changed {
			lines = append(lines,
				DiffChangedStyle.Render("~ ")+DiffPathStyle.Render(e.Path),
				DiffRemovedStyle.Render("    old: "+compact(e.Old, valueWidth)),
				DiffAddedStyle.Render("    new: "+compact(e.New, valueWidth)),
			)
		}
		for _, e := range r.Added {
			lines = append(lines, DiffAddedStyle.Render("+ ")+DiffPathStyle.Render(e.Path),
				DiffAddedStyle.Render("    "+compact(e.New, valueWidth)))
		}
		for _, e := range r.Removed {
			lines = append(lines, DiffRemovedStyle.Render("- ")+DiffPathStyle.Render(e.Path),
				DiffRemovedStyle.Render("    "+compact(e.Old, valueWidth)))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(WarningColor).
		Width(width-2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// compact renders v as single-line JSON cut to limit runes
func compact(v any, limit int) string {
	b, err := json.Marshal(v)
	s := string(b)
	if err != nil {
		s = fmt.Sprint(v)
	}
	runes := []rune(s)
	if limit > 3 && len(runes) > limit {
		return string(runes[:limit-3]) + "..."
	}
	return s
}
