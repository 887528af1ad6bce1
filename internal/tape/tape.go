// Package tape builds a parsed, reusable view over a JSON document so that a
// single scan of the input serves both root-field lookups and full typed
// decoding.
package tape

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/reoring/rustdocjson/internal/jsontext"
)

var (
	// ErrNotFound is returned by root lookups when the key is absent or null.
	ErrNotFound = errors.New("tape: key not found")
	// ErrTooDeep is returned by Build for documents nested deeper than the
	// tape can represent. The document may still be well-formed.
	ErrTooDeep = fmt.Errorf("tape: document nests deeper than %d levels", fastjson.MaxDepth)
)

// Tape is a parsed JSON document. It references the input buffer and must not
// outlive the call that built it.
type Tape struct {
	root *fastjson.Value
}

// Build parses data once. Encoding and syntax are both validated here; later
// lookups and Decode never rescan the raw bytes. Encoding failures are
// returned as the jsontext errors.
func Build(data []byte) (*Tape, error) {
	if err := jsontext.Validate(data); err != nil {
		return nil, err
	}
	// The parser itself skips escape and control character checks.
	if err := fastjson.ValidateBytes(data); err != nil {
		return nil, fmt.Errorf("tape: %w", err)
	}
	// A fresh parser per document: fastjson values are only valid until the
	// parser that produced them parses again.
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		// fastjson counts scalars as a level, so MaxDepth containers already
		// overflow when the innermost one holds a value.
		if jsontext.ExceedsDepth(data, fastjson.MaxDepth-1) {
			return nil, ErrTooDeep
		}
		return nil, fmt.Errorf("tape: %w", err)
	}
	return &Tape{root: v}, nil
}

// Lookup returns the value stored under key in the root object using the same
// key matching Decode applies to struct fields: exact or case-insensitive
// match, last occurrence wins.
func (t *Tape) Lookup(key string) (*fastjson.Value, error) {
	obj, err := t.root.Object()
	if err != nil {
		return nil, fmt.Errorf("tape: root is %s, not an object", t.root.Type())
	}
	var found *fastjson.Value
	obj.Visit(func(k []byte, v *fastjson.Value) {
		if string(k) == key || strings.EqualFold(string(k), key) {
			found = v
		}
	})
	if found == nil || found.Type() == fastjson.TypeNull {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return found, nil
}

// Uint32 reads a root field as an unsigned 32-bit integer.
func (t *Tape) Uint32(key string) (uint32, error) {
	v, err := t.Lookup(key)
	if err != nil {
		return 0, err
	}
	if v.Type() != fastjson.TypeNumber {
		return 0, fmt.Errorf("tape: %q is %s, not a number", key, v.Type())
	}
	n, err := v.Uint64()
	if err != nil {
		return 0, fmt.Errorf("tape: %q: %w", key, err)
	}
	if n > math.MaxUint32 {
		return 0, fmt.Errorf("tape: %q: %d overflows uint32", key, n)
	}
	return uint32(n), nil
}

// Decode binds the whole document into dst, which must be a non-nil pointer.
func (t *Tape) Decode(dst any) error {
	d := newDecoder()
	return d.decodeInto(t.root, dst)
}
