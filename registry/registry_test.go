package registry

import (
	"testing"

	"github.com/currawonglabs/canpwm/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDevType uint8 = 0x0A
	testMsgType uint8 = 0x60
)

func Test_Lookup_OverlaySemantics(t *testing.T) {
	assert := assert.New(t)

	baseSchema := schema.MustNew("baseStatus", 2, schema.Uns("status", 16, 0))
	devSchema := schema.MustNew("deviceStatus", 4, schema.Uns("status", 16, 16), schema.Uns("extra", 16, 0))

	r := New()
	require.NoError(t, r.RegisterBase(testMsgType, baseSchema))
	require.NoError(t, r.RegisterDevice(testDevType, testMsgType, devSchema))

	// Device overlay wins when both scopes define the message type.
	s, err := r.Lookup(testDevType, testMsgType)
	assert.NoError(err)
	assert.Same(devSchema, s)

	// Other device types fall back to the base scope.
	s, err = r.Lookup(0x00, testMsgType)
	assert.NoError(err)
	assert.Same(baseSchema, s)

	// Neither scope: unknown packet type.
	_, err = r.Lookup(testDevType, 0xEE)
	unknownErr := &UnknownPacketTypeError{}
	assert.ErrorAs(err, &unknownErr)
	assert.Equal(testDevType, unknownErr.DeviceType)
	assert.Equal(uint8(0xEE), unknownErr.MessageType)
}

func Test_Register_Duplicates(t *testing.T) {
	assert := assert.New(t)

	s := schema.MustNew("dup", 1, schema.Uns("a", 8, 0))

	r := New()

	assert.NoError(r.RegisterBase(testMsgType, s))
	err := r.RegisterBase(testMsgType, s)
	dupErr := &DuplicateRegistrationError{}
	assert.ErrorAs(err, &dupErr)
	assert.Equal("base", dupErr.Scope)

	// The device scope is separate: the same message type may
	// legitimately be registered there.
	assert.NoError(r.RegisterDevice(testDevType, testMsgType, s))
	err = r.RegisterDevice(testDevType, testMsgType, s)
	assert.ErrorAs(err, &dupErr)
	assert.Equal("device", dupErr.Scope)
}

func Test_ByName(t *testing.T) {
	assert := assert.New(t)

	s := schema.MustNew("named", 1, schema.Uns("a", 8, 0))

	r := New()
	require.NoError(t, r.RegisterBase(0x01, s))

	got, ok := r.ByName("named")
	assert.True(ok)
	assert.Same(s, got)

	_, ok = r.ByName("missing")
	assert.False(ok)
}
