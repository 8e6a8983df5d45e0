package schema

// Encode packs a value into a big-endian buffer of the schema's length.
//
// It returns an [UnknownFieldError] if the value misses a required
// field, and a [RangeError] if a field value would be truncated by its
// bit width or falls outside its declared domain.
func Encode(v Value, s *Schema) ([]byte, error) {
	var acc uint64

	for _, f := range s.fields {
		val, ok := v[f.Name]
		if !ok {
			if f.Alias {
				// Alias fields are views over bits owned by their
				// siblings, they may be omitted on encode.
				continue
			}
			return nil, &UnknownFieldError{Schema: s.name, Field: f.Name}
		}

		if !f.fits(val) {
			return nil, &RangeError{Schema: s.name, Field: f.Name, Value: val, Width: f.Width}
		}

		acc |= (uint64(val) & f.Mask()) << f.Shift
	}

	buf := make([]byte, s.length)
	for i := range buf {
		buf[i] = byte(acc >> (8 * (s.length - 1 - i)))
	}

	return buf, nil
}

// Decode unpacks a big-endian buffer into a value holding every field
// of the schema.
//
// It returns a [LengthError] if the buffer length does not match the
// schema.
func Decode(buf []byte, s *Schema) (Value, error) {
	if len(buf) != s.length {
		return nil, &LengthError{Schema: s.name, Want: s.length, Got: len(buf)}
	}

	var acc uint64
	for _, b := range buf {
		acc = acc<<8 | uint64(b)
	}

	v := make(Value, len(s.fields))
	for _, f := range s.fields {
		raw := (acc >> f.Shift) & f.Mask()

		if f.Signed && f.Width < 64 && raw&(1<<(f.Width-1)) != 0 {
			// Sign-extend two's complement.
			v[f.Name] = int64(raw | ^f.Mask())
		} else {
			v[f.Name] = int64(raw)
		}
	}

	return v, nil
}
