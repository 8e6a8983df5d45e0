// Package transport abstracts the physical CAN bus. The pipeline core
// only ever sees [Transport]; the SocketCAN implementation and the
// in-memory loopback live behind it.
package transport

import (
	"context"
	"errors"

	"github.com/currawonglabs/canpwm/frame"
)

// ErrClosed is returned by Receive and Send after Close.
var ErrClosed = errors.New("transport: closed")

// Transport is a bidirectional CAN endpoint. Receive blocks until a
// frame arrives, the context is canceled, or the transport is closed.
// The handle may be shared: Receive by the single producer, Send by
// anyone.
type Transport interface {
	Receive(ctx context.Context) (frame.Frame, error)
	Send(ctx context.Context, f frame.Frame) error
	Close() error
}
