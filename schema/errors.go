package schema

import "fmt"

// RangeError reports a field value that does not fit in its declared
// bit width or falls outside its declared domain.
type RangeError struct {
	Schema string
	Field  string
	Value  int64
	Width  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("schema %q: value %d of field %q does not fit in %d bits", e.Schema, e.Value, e.Field, e.Width)
}

// LengthError reports a buffer whose length does not match the schema.
type LengthError struct {
	Schema string
	Want   int
	Got    int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("schema %q: buffer is %d bytes, want %d", e.Schema, e.Got, e.Want)
}

// UnknownFieldError reports a required field missing from a value on encode.
type UnknownFieldError struct {
	Schema string
	Field  string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("schema %q: value has no field %q", e.Schema, e.Field)
}
