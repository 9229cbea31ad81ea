package forescout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// NodeField is the top-level key holding the segment tree in an Admin API
// segments document.
const NodeField = "node"

// Document is a configuration document as returned by the appliance.
// Apart from the "node" key it is treated as an opaque JSON object.
type Document map[string]any

// Node returns the value stored under the top-level "node" key
func (d Document) Node() (any, error) {
	node, ok := d[NodeField]
	if !ok {
		return nil, NewMissingFieldError(NodeField)
	}
	return node, nil
}

// HasNode reports whether the document carries the "node" key
func (d Document) HasNode() bool {
	_, ok := d[NodeField]
	return ok
}

// ParseDocument decodes a JSON object into a Document.
// Numbers are kept as json.Number so that identifiers survive a
// write/read round trip without float conversion.
func ParseDocument(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, NewMalformedError("empty document", nil)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, NewMalformedError("invalid JSON", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, NewMalformedError("unexpected data after JSON document", nil)
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, NewMalformedError(fmt.Sprintf("expected a JSON object, got %s", jsonKind(value)), nil)
	}
	return Document(obj), nil
}

// ParseSegments decodes a segments document and checks its "node" key
func ParseSegments(data []byte) (Document, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	if !doc.HasNode() {
		return nil, NewMissingFieldError(NodeField)
	}
	return doc, nil
}

// Marshal encodes a value the way snapshots are written: four-space
// indentation, no HTML escaping, non-ASCII text kept as is.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
