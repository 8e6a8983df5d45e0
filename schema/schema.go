// Package schema provides declarative packet layouts for Currawong
// CAN frames and a pure big-endian bit codec over them.
package schema

import (
	"errors"
	"fmt"
)

// MaxLength is the CAN data field cap in bytes.
const MaxLength = 8

// Schema is the immutable layout of one packet type: an ordered list
// of bit fields over a fixed-length data buffer.
type Schema struct {
	name   string
	length int

	fields []Field
	byName map[string]int
}

// New validates the field layout and builds a Schema.
func New(name string, length int, fields ...Field) (*Schema, error) {
	if name == "" {
		return nil, errors.New("schema: name must not be empty")
	}
	if length < 1 || length > MaxLength {
		return nil, fmt.Errorf("schema %q: length %d out of range 1..%d", name, length, MaxLength)
	}

	bitLen := length * 8
	byName := make(map[string]int, len(fields))
	var used uint64

	for idx, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema %q: field %d has no name", name, idx)
		}
		if _, ok := byName[f.Name]; ok {
			return nil, fmt.Errorf("schema %q: duplicate field %q", name, f.Name)
		}
		if f.Width < 1 || f.Width > 64 {
			return nil, fmt.Errorf("schema %q: field %q width %d out of range 1..64", name, f.Name, f.Width)
		}
		if f.Shift < 0 || f.Shift+f.Width > bitLen {
			return nil, fmt.Errorf("schema %q: field %q does not fit in %d bits", name, f.Name, bitLen)
		}
		if f.bounded() && f.Min > f.Max {
			return nil, fmt.Errorf("schema %q: field %q has min %d above max %d", name, f.Name, f.Min, f.Max)
		}

		fieldBits := f.Mask() << f.Shift
		if !f.Alias {
			if used&fieldBits != 0 {
				return nil, fmt.Errorf("schema %q: field %q overlaps a sibling field", name, f.Name)
			}
			used |= fieldBits
		}

		byName[f.Name] = idx
	}

	s := &Schema{
		name:   name,
		length: length,

		fields: append([]Field(nil), fields...),
		byName: byName,
	}

	return s, nil
}

// MustNew is like [New] but panics on a malformed layout. It is meant
// for the static packet tables built at process start.
func MustNew(name string, length int, fields ...Field) *Schema {
	s, err := New(name, length, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the stable packet type identifier.
func (s *Schema) Name() string {
	return s.name
}

// Length returns the data buffer length in bytes.
func (s *Schema) Length() int {
	return s.length
}

// Fields returns the fields in declaration order.
// The returned slice must not be modified.
func (s *Schema) Fields() []Field {
	return s.fields
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for idx, f := range s.fields {
		names[idx] = f.Name
	}
	return names
}

// Field looks a field up by name.
func (s *Schema) Field(name string) (Field, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[idx], true
}

// HasField reports whether the schema declares the named field.
func (s *Schema) HasField(name string) bool {
	_, ok := s.byName[name]
	return ok
}
