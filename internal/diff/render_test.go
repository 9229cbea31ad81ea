package diff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Empty(t *testing.T) {
	out, err := (&Result{}).Render()
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
}

func TestRender_Groups(t *testing.T) {
	r := &Result{
		Changed: []Entry{{Path: "root['children'][1]['name']", Old: "Printers", New: "Print <new>"}},
		Added:   []Entry{{Path: "root['children'][3]", New: map[string]any{"id": json.Number("4")}}},
	}

	out, err := r.Render()
	require.NoError(t, err)

	assert.Contains(t, out, `"values_changed": {`)
	assert.Contains(t, out, `"root['children'][1]['name']": {`)
	assert.Contains(t, out, `"old_value": "Printers"`)
	assert.Contains(t, out, `"new_value": "Print <new>"`)
	assert.Contains(t, out, `"items_added": {`)
	assert.NotContains(t, out, "items_removed")

	var parsed map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Len(t, parsed, 2)
	assert.Equal(t, map[string]any{"id": float64(4)}, parsed["items_added"]["root['children'][3]"])
}

func TestNaturalLess(t *testing.T) {
	assert.True(t, naturalLess("root[2]", "root[10]"))
	assert.False(t, naturalLess("root[10]", "root[2]"))
	assert.True(t, naturalLess("root['a']", "root['b']"))
	assert.True(t, naturalLess("root[1]", "root[1]['x']"))
	assert.False(t, naturalLess("root[1]", "root[1]"))
}
