package connector

import "sync/atomic"

// Policy selects the backpressure behavior of a bounded [Channel]
// when its buffer is full.
type Policy int

const (
	// Block makes Write block the producer until space is available.
	Block Policy = iota
	// DropOldest makes Write evict the oldest queued item.
	DropOldest
)

// Channel implements a bounded [Connector] on top of a Go channel.
type Channel[T any] struct {
	buffer chan T

	policy Policy

	closed  atomic.Bool
	closeCh chan struct{}

	dropped atomic.Uint64
}

// NewChannel creates a [Channel] with the given capacity and the
// [Block] backpressure policy.
func NewChannel[T any](size int) *Channel[T] {
	return NewChannelWithPolicy[T](size, Block)
}

// NewChannelWithPolicy creates a [Channel] with the given capacity
// and backpressure policy.
func NewChannelWithPolicy[T any](size int, policy Policy) *Channel[T] {
	return &Channel[T]{
		buffer: make(chan T, size),

		policy: policy,

		closeCh: make(chan struct{}),
	}
}

func (c *Channel[T]) Write(item T) error {
	if c.closed.Load() {
		return ErrClosed
	}

	if c.policy == DropOldest {
		for {
			select {
			case c.buffer <- item:
				return nil
			default:
			}

			// Full: evict the oldest item and retry.
			select {
			case <-c.buffer:
				c.dropped.Add(1)
			default:
			}
		}
	}

	select {
	case c.buffer <- item:
		return nil
	case <-c.closeCh:
		return ErrClosed
	}
}

func (c *Channel[T]) Read() (T, error) {
	// Fast path: an item is already queued. This also drains items
	// left in the buffer after Close.
	select {
	case item := <-c.buffer:
		return item, nil
	default:
	}

	select {
	case item := <-c.buffer:
		return item, nil
	case <-c.closeCh:
		select {
		case item := <-c.buffer:
			return item, nil
		default:
			var zero T
			return zero, ErrClosed
		}
	}
}

// Dropped returns the number of items evicted under [DropOldest].
func (c *Channel[T]) Dropped() uint64 {
	return c.dropped.Load()
}

// Close marks the channel as closed. Queued items remain readable.
func (c *Channel[T]) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.closeCh)
	}
}
