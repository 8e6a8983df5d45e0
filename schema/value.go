package schema

import "maps"

// Value maps field names to their wire-integer values. All fields are
// integers at the wire level; engineering-unit scaling is applied by
// the packet tables, never by the codec.
type Value map[string]int64

// Get returns the value of the named field.
func (v Value) Get(name string) (int64, bool) {
	val, ok := v[name]
	return val, ok
}

// Clone returns a shallow copy of the value.
func (v Value) Clone() Value {
	return maps.Clone(v)
}

// Equal reports whether two values hold exactly the same fields.
func (v Value) Equal(other Value) bool {
	return maps.Equal(v, other)
}
