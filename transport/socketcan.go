package transport

import (
	"context"
	"sync/atomic"

	"github.com/brutella/can"
	"github.com/currawonglabs/canpwm/frame"
	"github.com/currawonglabs/canpwm/internal"
)

const extendedFlag = 0x8000_0000

// SocketCAN bridges a Linux SocketCAN interface into [Transport]. The
// subscription callback of the underlying library is decoupled from
// Receive by a buffered channel, so a slow consumer backs up there
// instead of inside the driver.
type SocketCAN struct {
	l *internal.Logger

	bus *can.Bus

	rx      chan frame.Frame
	closed  atomic.Bool
	closeCh chan struct{}

	overflow atomic.Uint64
}

// NewSocketCAN opens the named interface (e.g. "can0") and starts the
// receive loop.
func NewSocketCAN(iface string, rxBuffer int) (*SocketCAN, error) {
	bus, err := can.NewBusForInterfaceWithName(iface)
	if err != nil {
		return nil, err
	}

	t := &SocketCAN{
		l: internal.NewLogger("transport", "socketcan"),

		bus: bus,

		rx:      make(chan frame.Frame, rxBuffer),
		closeCh: make(chan struct{}),
	}

	bus.SubscribeFunc(t.handleFrame)

	go func() {
		if err := bus.ConnectAndPublish(); err != nil && !t.closed.Load() {
			t.l.Error("bus receive loop failed", err, "interface", iface)
		}
	}()

	return t, nil
}

func (t *SocketCAN) handleFrame(canFrame can.Frame) {
	// Strip the EFF/RTR/ERR flag bits down to the 29-bit identifier.
	id := canFrame.ID & frame.MaxExtID

	f := frame.Frame{
		ID:       id,
		Extended: canFrame.ID&extendedFlag != 0 || id > frame.MaxStdID,
		Len:      min(canFrame.Length, 8),
	}
	copy(f.Data[:], canFrame.Data[:])

	select {
	case t.rx <- f:
	default:
		// Receive buffer full: dropping here keeps the driver
		// callback from blocking the bus.
		t.overflow.Add(1)
	}
}

func (t *SocketCAN) Receive(ctx context.Context) (frame.Frame, error) {
	select {
	case f := <-t.rx:
		return f, nil
	case <-ctx.Done():
		return frame.Frame{}, ctx.Err()
	case <-t.closeCh:
		// Drain what arrived before the close.
		select {
		case f := <-t.rx:
			return f, nil
		default:
			return frame.Frame{}, ErrClosed
		}
	}
}

func (t *SocketCAN) Send(_ context.Context, f frame.Frame) error {
	if t.closed.Load() {
		return ErrClosed
	}

	if err := f.Validate(); err != nil {
		return err
	}

	canFrame := can.Frame{
		ID:     f.ID,
		Length: f.Len,
	}
	if f.Extended {
		canFrame.ID |= extendedFlag
	}
	copy(canFrame.Data[:], f.Data[:])

	return t.bus.Publish(canFrame)
}

// Overflow returns the number of frames dropped because the receive
// buffer was full.
func (t *SocketCAN) Overflow() uint64 {
	return t.overflow.Load()
}

func (t *SocketCAN) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(t.closeCh)

	return t.bus.Disconnect()
}
