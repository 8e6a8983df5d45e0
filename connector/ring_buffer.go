package connector

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// slot state is tracked by a sequence number: seq == pos means the
// slot is free for the writer at pos, seq == pos+1 means it holds data
// for the reader at pos.
type rbSlot[T any] struct {
	sequence atomic.Uint64
	data     T
}

// RingBuffer is a bounded MPMC [Connector] with lock-free fast paths.
// Writers and readers only fall back to a mutex/condvar pair when the
// buffer is full or empty.
type RingBuffer[T any] struct {
	capacity uint64
	capMask  uint64

	_ cpu.CacheLinePad

	enqueuePos atomic.Uint64

	_ cpu.CacheLinePad

	dequeuePos atomic.Uint64

	_ cpu.CacheLinePad

	closed atomic.Bool

	// hasWaiters flags let the fast paths skip the mutex entirely.
	emptyWaiters atomic.Bool
	fullWaiters  atomic.Bool

	mux      *sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	buffer []rbSlot[T]
}

// NewRingBuffer creates a [RingBuffer], rounding the capacity up to
// the next power of two.
func NewRingBuffer[T any](capacity uint64) *RingBuffer[T] {
	capacity--
	capacity |= capacity >> 1
	capacity |= capacity >> 2
	capacity |= capacity >> 4
	capacity |= capacity >> 8
	capacity |= capacity >> 16
	capacity |= capacity >> 32
	capacity++

	rb := &RingBuffer[T]{
		capacity: capacity,
		capMask:  capacity - 1,

		mux: &sync.Mutex{},

		buffer: make([]rbSlot[T], capacity),
	}

	rb.notEmpty = sync.NewCond(rb.mux)
	rb.notFull = sync.NewCond(rb.mux)

	for idx := range rb.buffer {
		rb.buffer[idx].sequence.Store(uint64(idx))
	}

	return rb
}

func (rb *RingBuffer[T]) push(item T) bool {
	for {
		pos := rb.enqueuePos.Load()
		slot := &rb.buffer[pos&rb.capMask]

		seq := slot.sequence.Load()
		switch {
		case seq == pos:
			// Slot is free, claim it.
			if rb.enqueuePos.CompareAndSwap(pos, pos+1) {
				slot.data = item
				slot.sequence.Store(pos + 1)
				return true
			}

		case seq < pos:
			// The reader one lap behind has not freed the slot yet.
			return false

		default:
			// Lost the race to another writer, retry.
			runtime.Gosched()
		}
	}
}

func (rb *RingBuffer[T]) pop() (T, bool) {
	for {
		pos := rb.dequeuePos.Load()
		slot := &rb.buffer[pos&rb.capMask]

		seq := slot.sequence.Load()
		switch {
		case seq == pos+1:
			// Slot holds data, claim it.
			if rb.dequeuePos.CompareAndSwap(pos, pos+1) {
				item := slot.data

				var zero T
				slot.data = zero
				slot.sequence.Store(pos + rb.capacity)

				return item, true
			}

		case seq <= pos:
			// Empty.
			var zero T
			return zero, false

		default:
			runtime.Gosched()
		}
	}
}

func (rb *RingBuffer[T]) wakeReaders() {
	if rb.emptyWaiters.Load() {
		rb.mux.Lock()
		rb.emptyWaiters.Store(false)
		rb.notEmpty.Broadcast()
		rb.mux.Unlock()
	}
}

func (rb *RingBuffer[T]) wakeWriters() {
	if rb.fullWaiters.Load() {
		rb.mux.Lock()
		rb.fullWaiters.Store(false)
		rb.notFull.Broadcast()
		rb.mux.Unlock()
	}
}

// Write adds an item, blocking while the buffer is full.
// It returns [ErrClosed] if the buffer is closed.
func (rb *RingBuffer[T]) Write(item T) error {
	for {
		if rb.closed.Load() {
			return ErrClosed
		}

		if rb.push(item) {
			rb.wakeReaders()
			return nil
		}

		runtime.Gosched()

		rb.mux.Lock()
		rb.fullWaiters.Store(true)

		// Re-check with the waiter flag visible: either a reader sees
		// the flag and broadcasts, or this push sees the free slot.
		if rb.push(item) {
			rb.fullWaiters.Store(false)
			rb.mux.Unlock()
			rb.wakeReaders()
			return nil
		}

		if rb.closed.Load() {
			rb.mux.Unlock()
			return ErrClosed
		}

		rb.notFull.Wait()
		rb.mux.Unlock()
	}
}

// Read retrieves an item, blocking while the buffer is empty. After
// Close it drains the remaining items, then returns [ErrClosed].
func (rb *RingBuffer[T]) Read() (T, error) {
	for {
		if item, ok := rb.pop(); ok {
			rb.wakeWriters()
			return item, nil
		}

		if rb.closed.Load() {
			// One final attempt for items pushed before Close won.
			if item, ok := rb.pop(); ok {
				return item, nil
			}

			var zero T
			return zero, ErrClosed
		}

		runtime.Gosched()

		rb.mux.Lock()
		rb.emptyWaiters.Store(true)

		if item, ok := rb.pop(); ok {
			rb.emptyWaiters.Store(false)
			rb.mux.Unlock()
			rb.wakeWriters()
			return item, nil
		}

		if rb.closed.Load() {
			rb.mux.Unlock()
			continue
		}

		rb.notEmpty.Wait()
		rb.mux.Unlock()
	}
}

// Close marks the buffer as closed and wakes all blocked writers and
// readers.
func (rb *RingBuffer[T]) Close() {
	if !rb.closed.CompareAndSwap(false, true) {
		return
	}

	rb.mux.Lock()
	rb.notEmpty.Broadcast()
	rb.notFull.Broadcast()
	rb.mux.Unlock()
}
