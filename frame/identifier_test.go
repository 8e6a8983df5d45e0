package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Decompose(t *testing.T) {
	assert := assert.New(t)

	id := Decompose(0x1A2B3C)
	assert.Equal(uint8(0x00), id.Group)
	assert.Equal(uint8(0x1A), id.MessageType)
	assert.Equal(uint8(0x2B), id.DeviceType)
	assert.Equal(uint8(0x3C), id.DeviceAddress)

	id = Decompose(0x0760_0A05)
	assert.Equal(uint8(0x07), id.Group)
	assert.Equal(uint8(0x60), id.MessageType)
	assert.Equal(uint8(0x0A), id.DeviceType)
	assert.Equal(uint8(0x05), id.DeviceAddress)
}

func Test_Compose_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	composed, err := Decompose(0x1A2B3C).Compose()
	assert.NoError(err)
	assert.Equal(uint32(0x1A2B3C), composed)
}

func Test_Compose_GroupOutOfRange(t *testing.T) {
	_, err := Identifier{Group: 0x20}.Compose()

	rangeErr := &IdentifierRangeError{}
	assert.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "group", rangeErr.Field)
}

// Exhausts every field domain: decompose(compose(f)) == f for all valid
// field combinations, varying two fields at a time.
func Test_Bijection_FieldDomains(t *testing.T) {
	for group := range uint32(MaxGroup + 1) {
		for msgType := range uint32(256) {
			id := Identifier{
				Group:         uint8(group),
				MessageType:   uint8(msgType),
				DeviceType:    0xA5,
				DeviceAddress: 0x5A,
			}

			composed, err := id.Compose()
			require.NoError(t, err)
			require.Equal(t, id, Decompose(composed))
		}
	}

	for devType := range uint32(256) {
		for devAddr := range uint32(256) {
			id := Identifier{
				Group:         0x07,
				MessageType:   0x60,
				DeviceType:    uint8(devType),
				DeviceAddress: uint8(devAddr),
			}

			composed, err := id.Compose()
			require.NoError(t, err)
			require.Equal(t, id, Decompose(composed))
		}
	}
}

// compose(decompose(id)) == id over a dense sweep of the 29-bit space.
func Test_Bijection_IdentifierSweep(t *testing.T) {
	for id := uint32(0); id <= MaxExtID-101; id += 101 {
		composed, err := Decompose(id).Compose()
		require.NoError(t, err)
		require.Equal(t, id, composed)
	}

	composed, err := Decompose(MaxExtID).Compose()
	require.NoError(t, err)
	require.Equal(t, uint32(MaxExtID), composed)
}

func Test_Classify(t *testing.T) {
	devType, msgType := Classify(0x0760_0A05)

	assert.Equal(t, uint8(0x0A), devType)
	assert.Equal(t, uint8(0x60), msgType)
}
