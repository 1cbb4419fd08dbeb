// Package savedoc wraps a loosely typed save document and locates the nested
// containers the editor reads and writes.
//
// The document is an untyped JSON tree: map[string]any, []any, json.Number,
// string, bool and nil. Numbers are decoded as json.Number so that 64-bit
// values the editor never touches are written back unchanged.
package savedoc

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"
	"sort"

	"github.com/KirkDiggler/witchfire-saves/internal/errors"
)

// Document is a save file held in memory
type Document struct {
	root map[string]any
}

// New returns an empty document
func New() *Document {
	return &Document{root: map[string]any{}}
}

// FromMap wraps an existing tree without copying it
func FromMap(root map[string]any) *Document {
	if root == nil {
		root = map[string]any{}
	}
	return &Document{root: root}
}

// Parse decodes a save payload. The top level must be a JSON object.
func Parse(raw []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "save payload is not valid JSON")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.InvalidArgument("save payload has trailing data")
	}

	root, ok := v.(map[string]any)
	if !ok {
		return nil, errors.InvalidArgument("save payload must be a JSON object")
	}
	return &Document{root: root}, nil
}

// Root exposes the underlying tree
func (d *Document) Root() map[string]any {
	return d.root
}

// Clone returns a deep copy; mutations on the copy never reach d
func (d *Document) Clone() *Document {
	return &Document{root: cloneValue(d.root).(map[string]any)}
}

// Marshal serializes the document compactly
func (d *Document) Marshal() ([]byte, error) {
	out, err := json.Marshal(d.root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal save document")
	}
	return out, nil
}

// Equal reports whether both documents hold the same tree. Object key order
// and formatting of the original payloads do not matter.
func (d *Document) Equal(other *Document) bool {
	return reflect.DeepEqual(d.root, other.root)
}

// SameContent compares two payloads as documents. Payloads that do not parse
// are compared byte for byte.
func SameContent(a, b []byte) bool {
	if bytes.Equal(a, b) {
		return true
	}
	da, err := Parse(a)
	if err != nil {
		return false
	}
	db, err := Parse(b)
	if err != nil {
		return false
	}
	return da.Equal(db)
}

// MarshalIndent serializes the document for humans
func (d *Document) MarshalIndent() ([]byte, error) {
	out, err := json.MarshalIndent(d.root, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal save document")
	}
	return out, nil
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = cloneValue(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = cloneValue(child)
		}
		return out
	default:
		// strings, json.Number, bool, nil and Go scalars are immutable
		return t
	}
}

// sortedKeys returns the keys of m in lexical order so traversal is
// deterministic
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
