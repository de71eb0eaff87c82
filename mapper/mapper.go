// Package mapper implements declarative record-to-record converters for
// JSON-shaped data. A converter is an ordered list of field descriptors;
// each descriptor resolves one output field from the input record via a
// dotted path, an optional transform, a compute function, a constant, a
// nested converter, or a per-element converter over a sequence.
//
// Fields that resolve to nil are omitted from the output, never emitted as
// null. Traversing a missing intermediate path segment resolves to nil
// without panicking. Converters are pure: no I/O, no shared state, the same
// input always produces the same output.
package mapper

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is a JSON-shaped record: string keys mapped to values the way
// encoding/json decodes into interface{}.
type Record = map[string]any

// Transform is a pure function applied to the value resolved at a field's
// path. The value is nil when the path did not resolve; transforms that
// require a value should return a MissingFieldError instead of assuming
// the shape of their input.
type Transform func(value any) (any, error)

// Compute is a pure function of the whole input record.
type Compute func(in Record) (any, error)

// MissingFieldError reports a value that a transform or compute required
// but could not find in the input record.
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return "missing field " + e.Path
}

// Missing builds a MissingFieldError for the given input path.
func Missing(path string) error {
	return &MissingFieldError{Path: path}
}

type fieldKind int

const (
	kindPath fieldKind = iota
	kindCompute
	kindConst
	kindObject
	kindForEach
)

// Field describes how a single output field is produced.
type Field struct {
	kind      fieldKind
	name      string
	path      string
	transform Transform
	compute   Compute
	constant  any
	nested    *Converter
	element   func(element any) (any, error)
}

// Path maps the output field to the value at a dotted path in the input.
func Path(name, path string) Field {
	return Field{kind: kindPath, name: name, path: path}
}

// PathWith maps the output field to fn applied to the value at path.
func PathWith(name, path string, fn Transform) Field {
	return Field{kind: kindPath, name: name, path: path, transform: fn}
}

// Computed maps the output field to fn applied to the whole input record.
func Computed(name string, fn Compute) Field {
	return Field{kind: kindCompute, name: name, compute: fn}
}

// Const maps the output field to a fixed value.
func Const(name string, v any) Field {
	return Field{kind: kindConst, name: name, constant: v}
}

// Object maps the output field to a sub-object produced by conv. Paths
// inside conv are resolved against the root input record. The sub-object
// is omitted when none of its fields resolve.
func Object(name string, conv *Converter) Field {
	return Field{kind: kindObject, name: name, nested: conv}
}

// ForEach maps the output field to an ordered sequence built by applying
// fn to every element of the sequence at path. Elements for which fn
// returns nil are dropped. The field is omitted when the path does not
// resolve.
func ForEach(name, path string, fn func(element any) (any, error)) Field {
	return Field{kind: kindForEach, name: name, path: path, element: fn}
}

// Converter evaluates an ordered set of field descriptors.
type Converter struct {
	fields []Field
}

// New builds a converter from field descriptors. Descriptor order is the
// evaluation order, which keeps conversion deterministic.
func New(fields ...Field) *Converter {
	return &Converter{fields: fields}
}

// Apply converts the input record. Fields resolving to nil are omitted.
func (c *Converter) Apply(in Record) (Record, error) {
	out := Record{}
	for _, f := range c.fields {
		v, err := f.resolve(in)
		if err != nil {
			return nil, fmt.Errorf("mapper: field %q: %w", f.name, err)
		}
		if v == nil {
			continue
		}
		out[f.name] = v
	}
	return out, nil
}

func (f Field) resolve(in Record) (any, error) {
	switch f.kind {
	case kindPath:
		v := Lookup(in, f.path)
		if f.transform == nil {
			return v, nil
		}
		return f.transform(v)
	case kindCompute:
		return f.compute(in)
	case kindConst:
		return f.constant, nil
	case kindObject:
		sub, err := f.nested.Apply(in)
		if err != nil {
			return nil, err
		}
		if len(sub) == 0 {
			return nil, nil
		}
		return sub, nil
	case kindForEach:
		raw := Lookup(in, f.path)
		if raw == nil {
			return nil, nil
		}
		seq, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("path %q: expected sequence, got %T", f.path, raw)
		}
		out := make([]any, 0, len(seq))
		for i, el := range seq {
			v, err := f.element(el)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			if v == nil {
				continue
			}
			out = append(out, v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown field kind %d", f.kind)
}

// Lookup resolves a dotted path against a JSON-shaped value. Numeric
// segments index into sequences. A missing intermediate key or an
// out-of-range index resolves to nil.
func Lookup(in any, path string) any {
	cur := in
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[seg]
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			cur = node[idx]
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}
