package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_New_Validation(t *testing.T) {
	tests := []struct {
		name    string
		sName   string
		length  int
		fields  []Field
		wantErr bool
	}{
		{
			name:   "valid",
			sName:  "ok",
			length: 2,
			fields: []Field{Uns("a", 8, 8), Uns("b", 8, 0)},
		},
		{
			name:    "empty name",
			sName:   "",
			length:  2,
			fields:  []Field{Uns("a", 8, 0)},
			wantErr: true,
		},
		{
			name:    "length above cap",
			sName:   "long",
			length:  9,
			fields:  []Field{Uns("a", 8, 0)},
			wantErr: true,
		},
		{
			name:    "field beyond buffer",
			sName:   "overflow",
			length:  2,
			fields:  []Field{Uns("a", 16, 8)},
			wantErr: true,
		},
		{
			name:    "overlapping fields",
			sName:   "overlap",
			length:  2,
			fields:  []Field{Uns("a", 8, 4), Uns("b", 8, 0)},
			wantErr: true,
		},
		{
			name:   "alias overlap allowed",
			sName:  "alias",
			length: 2,
			fields: []Field{
				{Name: "word", Width: 16, Shift: 0, Alias: true},
				Uns("hi", 8, 8),
				Uns("lo", 8, 0),
			},
		},
		{
			name:    "duplicate name",
			sName:   "dup",
			length:  2,
			fields:  []Field{Uns("a", 8, 8), Uns("a", 8, 0)},
			wantErr: true,
		},
		{
			name:    "inverted bounds",
			sName:   "bounds",
			length:  1,
			fields:  []Field{{Name: "a", Width: 8, Shift: 0, Min: 10, Max: 5}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.sName, tt.length, tt.fields...)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.sName, s.Name())
			assert.Equal(t, tt.length, s.Length())
		})
	}
}

func Test_Schema_FieldLookup(t *testing.T) {
	assert := assert.New(t)

	s := MustNew("lookup", 2, Uns("hi", 8, 8), Uns("lo", 8, 0))

	f, ok := s.Field("hi")
	assert.True(ok)
	assert.Equal(8, f.Shift)

	_, ok = s.Field("missing")
	assert.False(ok)

	assert.True(s.HasField("lo"))
	assert.Equal([]string{"hi", "lo"}, s.FieldNames())
}
