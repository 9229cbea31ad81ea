package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that reads from YAML either as a Go
// duration string ("1500ms", "3s") or as a plain number of seconds
// ("3", "0.5", "0").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a duration such as 3 or 1500ms", node.Line)
	}

	value := strings.TrimSpace(node.Value)
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) {
			return fmt.Errorf("line %d: invalid duration %q", node.Line, node.Value)
		}
		*d = Duration(secs * float64(time.Second))
		return nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q (use seconds like 3 or a duration like 1500ms)", node.Line, node.Value)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// String implements fmt.Stringer
func (d Duration) String() string {
	return time.Duration(d).String()
}
