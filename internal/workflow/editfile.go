package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opabravo/forescout-tools/internal/forescout"
)

// ErrEmptyPath is returned by LoadEditedFile for blank input
var ErrEmptyPath = errors.New("please enter the path of the edited file")

// CleanPath trims whitespace and the quotes terminals add when a file is
// dragged onto the window.
func CleanPath(input string) string {
	p := strings.TrimSpace(input)
	p = strings.Trim(p, `"`)
	p = strings.Trim(p, `'`)
	return strings.TrimSpace(p)
}

// LoadEditedFile checks the operator's edited segments file and parses it.
// Every returned error is a diagnostic meant for the operator.
func LoadEditedFile(input string) (string, forescout.Document, error) {
	path := CleanPath(input)
	if path == "" {
		return "", nil, ErrEmptyPath
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return path, nil, fmt.Errorf("%s does not exist", path)
		}
		return path, nil, fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return path, nil, fmt.Errorf("%s is a directory, not a JSON file", path)
	}

	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return path, nil, fmt.Errorf("%s is not a JSON file (expected a .json extension)", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return path, nil, fmt.Errorf("file read error: %w", err)
	}

	doc, err := forescout.ParseSegments(data)
	if err != nil {
		switch {
		case forescout.IsMissingFieldError(err):
			return path, nil, fmt.Errorf("%s is not a segments file: missing %q field", path, forescout.NodeField)
		case forescout.IsMalformedError(err):
			return path, nil, fmt.Errorf("JSON format error in %s: %w", path, err)
		default:
			return path, nil, err
		}
	}
	return path, doc, nil
}
