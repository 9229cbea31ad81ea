package forescout

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"object", `{"node": {"id": 1}}`, false},
		{"object without node", `{"hosts": []}`, false},
		{"empty", ``, true},
		{"whitespace", "  \n\t", true},
		{"array", `[1, 2]`, true},
		{"string", `"node"`, true},
		{"truncated", `{"node": {`, true},
		{"trailing data", `{"node": 1} {"node": 2}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsMalformedError(err) {
				t.Errorf("error should be malformed document, got %v", err)
			}
		})
	}
}

func TestParseDocument_KeepsNumbers(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"node": {"id": 9007199254740993}}`))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	node, _ := doc.Node()
	id := node.(map[string]any)["id"]
	if n, ok := id.(json.Number); !ok || n.String() != "9007199254740993" {
		t.Errorf("id = %#v, want json.Number 9007199254740993", id)
	}
}

func TestParseSegments_RequiresNode(t *testing.T) {
	_, err := ParseSegments([]byte(`{"segments": {}}`))
	if !IsMissingFieldError(err) {
		t.Errorf("ParseSegments() error = %v, want missing field", err)
	}

	doc, err := ParseSegments([]byte(`{"node": null}`))
	if err != nil {
		t.Fatalf("ParseSegments() error = %v", err)
	}
	if !doc.HasNode() {
		t.Error("a null node still counts as present")
	}
}

func TestMarshal(t *testing.T) {
	doc := Document{"node": map[string]any{"name": "Zone <A> é"}}
	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "\n    \"node\"") {
		t.Errorf("expected four-space indentation:\n%s", text)
	}
	if !strings.Contains(text, "Zone <A> é") {
		t.Errorf("expected unescaped text:\n%s", text)
	}

	back, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument() of marshalled data error = %v", err)
	}
	node, _ := back.Node()
	if node.(map[string]any)["name"] != "Zone <A> é" {
		t.Errorf("round trip changed the document: %v", back)
	}
}
