package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/currawonglabs/canpwm/frame"
)

func Test_Loopback_InjectReceive(t *testing.T) {
	assert := assert.New(t)

	tr := NewLoopback(16)
	defer tr.Close()

	for i := range 5 {
		f, err := frame.New(uint32(0x0710_0A00+i), []byte{byte(i)})
		require.NoError(t, err)
		tr.Inject(f)
	}

	ctx := context.Background()
	for i := range 5 {
		f, err := tr.Receive(ctx)
		assert.NoError(err)
		assert.Equal(uint32(0x0710_0A00+i), f.ID)
		assert.Equal([]byte{byte(i)}, f.Payload())
	}
}

func Test_Loopback_Responder(t *testing.T) {
	assert := assert.New(t)

	tr := NewLoopback(16)
	defer tr.Close()

	reply, err := frame.New(0x0770_0A05, []byte{0x01, 0x00, 0x12, 0x34, 0x00, 0x00, 0x00, 0x00})
	require.NoError(t, err)

	tr.SetResponder(func(f frame.Frame) []frame.Frame {
		return []frame.Frame{reply}
	})

	req, err := frame.New(0x0770_0AFF, nil)
	require.NoError(t, err)
	assert.NoError(tr.Send(context.Background(), req))

	got, err := tr.Receive(context.Background())
	assert.NoError(err)
	assert.Equal(reply, got)

	sent := tr.Sent()
	assert.Len(sent, 1)
	assert.Equal(req, sent[0])
}

func Test_Loopback_Close(t *testing.T) {
	assert := assert.New(t)

	tr := NewLoopback(16)

	f, err := frame.New(0x0760_0A01, []byte{0xFF})
	require.NoError(t, err)
	tr.Inject(f)

	assert.NoError(tr.Close())

	// Frames injected before the close still drain.
	got, err := tr.Receive(context.Background())
	assert.NoError(err)
	assert.Equal(f, got)

	_, err = tr.Receive(context.Background())
	assert.ErrorIs(err, ErrClosed)

	assert.ErrorIs(tr.Send(context.Background(), f), ErrClosed)
}

func Test_Loopback_ReceiveContext(t *testing.T) {
	assert := assert.New(t)

	tr := NewLoopback(1)
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := tr.Receive(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)
}
