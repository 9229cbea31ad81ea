package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is one labelled line of a header
type Param struct {
	Key   string
	Value string
}

// Header is a bordered banner with a title, a subtitle and parameters
type Header struct {
	Title    string  // e.g., "FORESCOUT TOOLS"
	Subtitle string  // e.g., "Segments backup and safe update"
	Params   []Param // shown in order
	Width    int     // Terminal width for responsive rendering
}

// NewHeader creates a new header with the given values
func NewHeader(title, subtitle string, params ...Param) *Header {
	return &Header{
		Title:    title,
		Subtitle: subtitle,
		Params:   params,
		Width:    GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	titleLine := HeaderTitleStyle.Render(strings.ToUpper(h.Title))
	subtitleLine := HeaderSubtitleStyle.Render(h.Subtitle)
	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, subtitleLine)

	var paramLines []string
	for _, p := range h.Params {
		if p.Value == "" {
			continue
		}
		paramLines = append(paramLines, HeaderParamKeyStyle.Render(p.Key+":")+" "+HeaderParamValueStyle.Render(p.Value))
	}

	if len(paramLines) > 0 {
		dividerWidth := width - 6
		if dividerWidth < 10 {
			dividerWidth = 10
		}
		divider := RenderHorizontalDivider(dividerWidth, "─")
		content = lipgloss.JoinVertical(lipgloss.Left, content, divider, strings.Join(paramLines, "\n"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}

// Banner is the header shown when the tool starts
func Banner(version string, params ...Param) *Header {
	title := "Forescout Tools"
	if version != "" {
		title += " " + version
	}
	return NewHeader(title, "Forescout API - segments backup and safe update", params...)
}
