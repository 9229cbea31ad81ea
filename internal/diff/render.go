package diff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Render returns the result as indented JSON grouped into values_changed,
// items_added and items_removed. Empty groups are omitted; an empty result
// renders as {}.
func (r *Result) Render() (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	groups := []struct {
		name    string
		entries []Entry
		value   func(Entry) any
	}{
		{"values_changed", r.Changed, func(e Entry) any {
			return changedValue{Old: e.Old, New: e.New}
		}},
		{"items_added", r.Added, func(e Entry) any { return e.New }},
		{"items_removed", r.Removed, func(e Entry) any { return e.Old }},
	}

	first := true
	for _, g := range groups {
		if len(g.entries) == 0 {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		writeString(&buf, g.name)
		buf.WriteString(":{")
		for i, e := range g.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(&buf, e.Path)
			buf.WriteByte(':')
			if err := writeValue(&buf, g.value(e)); err != nil {
				return "", fmt.Errorf("failed to render %s: %w", e.Path, err)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return "", fmt.Errorf("failed to indent diff: %w", err)
	}
	return out.String(), nil
}

type changedValue struct {
	Old any `json:"old_value"`
	New any `json:"new_value"`
}

func writeString(buf *bytes.Buffer, s string) {
	_ = writeValue(buf, s)
}

func writeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode appends a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return naturalLess(entries[i].Path, entries[j].Path)
	})
}

// naturalLess orders paths so that root[2] sorts before root[10]
func naturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			si := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			sj := j
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na, nb := trimZeros(a[si:i]), trimZeros(b[sj:j])
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			continue
		}
		if a[i] != b[j] {
			return a[i] < b[j]
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func trimZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}
