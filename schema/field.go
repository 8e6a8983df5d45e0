package schema

// Field describes one bit field inside a packet. Shift counts from the
// least significant bit of the whole data buffer, which is interpreted
// as one big-endian unsigned integer.
type Field struct {
	Name   string
	Width  int
	Shift  int
	Signed bool

	// Alias marks a field that deliberately overlaps its siblings,
	// e.g. a status word that aliases individual flag bits.
	Alias bool

	// Optional bounded domain in engineering terms. Both zero means
	// the full range of the bit width is allowed.
	Min, Max int64
}

// Mask returns the field mask before shifting, i.e. a run of Width ones.
func (f Field) Mask() uint64 {
	if f.Width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << f.Width) - 1
}

func (f Field) bounded() bool {
	return f.Min != 0 || f.Max != 0
}

// fits reports whether v is representable in the field's bit width
// and inside its declared domain.
func (f Field) fits(v int64) bool {
	if f.Signed {
		min := -(int64(1) << (f.Width - 1))
		max := (int64(1) << (f.Width - 1)) - 1
		if f.Width == 64 {
			min, max = -1<<63, 1<<63-1
		}
		if v < min || v > max {
			return false
		}
	} else {
		if v < 0 {
			return false
		}
		if f.Width < 64 && uint64(v) > f.Mask() {
			return false
		}
	}

	if f.bounded() && (v < f.Min || v > f.Max) {
		return false
	}

	return true
}

// Uns creates an unsigned field.
func Uns(name string, width, shift int) Field {
	return Field{Name: name, Width: width, Shift: shift}
}

// Sgn creates a signed (two's complement) field.
func Sgn(name string, width, shift int) Field {
	return Field{Name: name, Width: width, Shift: shift, Signed: true}
}

// Flag creates a single-bit field.
func Flag(name string, bit int) Field {
	return Field{Name: name, Width: 1, Shift: bit}
}
