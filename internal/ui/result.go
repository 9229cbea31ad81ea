package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opabravo/forescout-tools/internal/forescout"
	"github.com/opabravo/forescout-tools/internal/workflow"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type            ResultType // Success, failure, or warning
	Title           string     // e.g., "Segments updated"
	Details         []Param    // Key-value details, shown in order
	Error           error      // Error (for failure results)
	Troubleshooting []string   // Troubleshooting tips (for failure results)
	Width           int        // Terminal width
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Param) *Result {
	return &Result{
		Type:    ResultSuccess,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	return &Result{
		Type:            ResultFailure,
		Title:           title,
		Error:           err,
		Troubleshooting: troubleshooting,
		Width:           GetTerminalWidth(),
	}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details ...Param) *Result {
	return &Result{
		Type:    ResultWarning,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail line. Empty values are skipped.
func (r *Result) AddDetail(key, value string) *Result {
	if value != "" {
		r.Details = append(r.Details, Param{Key: key, Value: value})
	}
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := r.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var (
		title lipgloss.Style
		color lipgloss.Color
		label string
	)
	switch r.Type {
	case ResultFailure:
		title, color, label = ErrorTitleStyle, ErrorColor, FailureMarker+"  FAILED"
	case ResultWarning:
		title, color, label = WarningTitleStyle, WarningColor, "⚠  WARNING"
	default:
		title, color, label = SuccessTitleStyle, SuccessColor, SuccessMarker+"  SUCCESS"
	}

	lines := []string{"", title.Render(fmt.Sprintf("   %s  ─  %s", label, r.Title)), ""}

	for _, d := range r.Details {
		keyStyled := ResultKeyStyle.Render(fmt.Sprintf("   %s:", d.Key))
		lines = append(lines, keyStyled+" "+ResultValueStyle.Render(d.Value))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	if r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Error.Error()), "")
	}

	if len(r.Troubleshooting) > 0 {
		lines = append(lines, r.renderTroubleshootingBox(width), "")
	}

	return BoxStyle(width, color).Render(strings.Join(lines, "\n"))
}

// renderTroubleshootingBox renders the inner troubleshooting box
func (r *Result) renderTroubleshootingBox(width int) string {
	lines := []string{WarningTitleStyle.Render("Troubleshooting:"), ""}
	for _, tip := range r.Troubleshooting {
		lines = append(lines, TroubleshootingItemStyle.Render("  • "+tip))
	}

	innerWidth := width - 12
	if innerWidth < 40 {
		innerWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(innerWidth).
		Padding(0, 1).
		MarginLeft(3).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}

// OutcomeResult builds the result box for a finished workflow run
func OutcomeResult(title string, o *workflow.Outcome) *Result {
	var r *Result
	switch {
	case o.Succeeded():
		r = NewSuccessResult(title)
	case o.State == workflow.Done:
		// declined by the operator or rejected by the appliance
		if o.Status == workflow.StatusCancelled {
			r = NewWarningResult(title + " cancelled")
		} else {
			r = NewFailureResult(title, o.Err, nil)
			r.AddDetail("Status", o.Status)
		}
	default:
		r = NewFailureResult(title, o.Err, troubleshooting(o))
		r.AddDetail("Reason", o.Status)
	}

	r.AddDetail("Backup", o.SnapshotPath)
	if o.Diff != nil {
		r.AddDetail("Changes", o.Diff.Summary())
	}
	if o.Response != nil {
		r.AddDetail("HTTP status", fmt.Sprintf("%d", o.Response.StatusCode))
	}
	r.AddDetail("Run ID", o.RunID)
	return r
}

// RenderOutcome renders the result box for a finished workflow run
func RenderOutcome(title string, o *workflow.Outcome) string {
	return OutcomeResult(title, o).Render()
}

func troubleshooting(o *workflow.Outcome) []string {
	if o.Status == workflow.ReasonAuthRejected {
		return []string{
			"Check the API username and password in the config file",
			"Confirm the account has API access on the appliance",
		}
	}
	if o.Err == nil {
		return nil
	}
	return hintLines(forescout.Hint(o.Err))
}

// hintLines turns a multi-line hint into troubleshooting bullets
func hintLines(hint string) []string {
	var tips []string
	for _, line := range strings.Split(hint, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "•"))
		if line == "" || line == "Troubleshooting:" {
			continue
		}
		tips = append(tips, line)
	}
	return tips
}

// RenderSuccess renders a success box with the given title and details
func RenderSuccess(title string, details ...Param) string {
	return NewSuccessResult(title, details...).Render()
}

// RenderFailure renders a failure box with the given title, error, and troubleshooting tips
func RenderFailure(title string, err error, troubleshooting []string) string {
	return NewFailureResult(title, err, troubleshooting).Render()
}

// RenderWarning renders a warning box with the given title and details
func RenderWarning(title string, details ...Param) string {
	return NewWarningResult(title, details...).Render()
}
