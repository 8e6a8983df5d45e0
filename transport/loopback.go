package transport

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/currawonglabs/canpwm/frame"
)

// Responder simulates devices on a [Loopback] bus: it maps a sent
// frame to the response frames the devices would put on the bus.
type Responder func(f frame.Frame) []frame.Frame

// Loopback is an in-memory [Transport] used by tests and replay
// tooling. Frames are injected with [Loopback.Inject] or produced by
// the responder in reaction to Send.
type Loopback struct {
	rx chan frame.Frame

	responder Responder

	mux  sync.Mutex
	sent []frame.Frame

	closed  atomic.Bool
	closeCh chan struct{}
}

func NewLoopback(rxBuffer int) *Loopback {
	return &Loopback{
		rx: make(chan frame.Frame, rxBuffer),

		closeCh: make(chan struct{}),
	}
}

// SetResponder installs the device simulation hook. Must be called
// before any Send.
func (t *Loopback) SetResponder(r Responder) {
	t.responder = r
}

// Inject queues a frame as if it had arrived from the bus.
func (t *Loopback) Inject(f frame.Frame) {
	if t.closed.Load() {
		return
	}

	t.rx <- f
}

func (t *Loopback) Receive(ctx context.Context) (frame.Frame, error) {
	select {
	case f := <-t.rx:
		return f, nil
	case <-ctx.Done():
		return frame.Frame{}, ctx.Err()
	case <-t.closeCh:
		// Drain what was injected before the close.
		select {
		case f := <-t.rx:
			return f, nil
		default:
			return frame.Frame{}, ErrClosed
		}
	}
}

func (t *Loopback) Send(_ context.Context, f frame.Frame) error {
	if t.closed.Load() {
		return ErrClosed
	}

	t.mux.Lock()
	t.sent = append(t.sent, f)
	t.mux.Unlock()

	if t.responder != nil {
		for _, resp := range t.responder(f) {
			t.Inject(resp)
		}
	}

	return nil
}

// Sent returns a snapshot of every frame sent so far.
func (t *Loopback) Sent() []frame.Frame {
	t.mux.Lock()
	defer t.mux.Unlock()

	return append([]frame.Frame(nil), t.sent...)
}

func (t *Loopback) Close() error {
	if t.closed.CompareAndSwap(false, true) {
		close(t.closeCh)
	}

	return nil
}
