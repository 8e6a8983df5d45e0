// Package connector provides the queues that link the pipeline
// stages: one single-producer/single-consumer connector per listener.
package connector

import "errors"

// ErrClosed is returned once a closed connector has been drained.
var ErrClosed = errors.New("connector: closed")

// Connector is a FIFO queue between two stages. Write blocks or drops
// according to the implementation's backpressure policy; Read blocks
// until an item is available. After Close, Read drains the remaining
// items and then returns [ErrClosed].
type Connector[T any] interface {
	Write(item T) error
	Read() (T, error)
	Close()
}
