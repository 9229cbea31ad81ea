package workflow

import (
	"context"
	"strings"

	"github.com/opabravo/forescout-tools/internal/diff"
)

// Level classifies a console message
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Console is the operator's terminal as seen by a workflow
type Console interface {
	// Prompt shows label and returns one line of input. It returns an
	// error when input is closed or ctx is cancelled.
	Prompt(ctx context.Context, label string) (string, error)

	// Show displays a message
	Show(level Level, text string)
}

// DiffViewer is implemented by consoles that render diffs themselves.
// Other consoles get the JSON rendering through Show.
type DiffViewer interface {
	ShowDiff(r *diff.Result)
}

// IsAffirmative reports whether answer confirms a prompt ("y" or "yes",
// any case, surrounding spaces ignored).
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
