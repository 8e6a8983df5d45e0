package connector

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFIFO checks single-producer/single-consumer delivery order.
func testFIFO(t *testing.T, conn Connector[int], itemCount int) {
	t.Helper()

	done := make(chan struct{})

	go func() {
		defer close(done)

		for want := range itemCount {
			item, err := conn.Read()
			require.NoError(t, err)
			require.Equal(t, want, item)
		}
	}()

	for val := range itemCount {
		require.NoError(t, conn.Write(val))
	}

	<-done
}

func Test_Channel_FIFO(t *testing.T) {
	testFIFO(t, NewChannel[int](64), 10_000)
}

func Test_RingBuffer_FIFO(t *testing.T) {
	testFIFO(t, NewRingBuffer[int](64), 10_000)
}

func testCloseDrains(t *testing.T, conn Connector[int]) {
	t.Helper()

	require.NoError(t, conn.Write(1))
	require.NoError(t, conn.Write(2))

	conn.Close()

	item, err := conn.Read()
	assert.NoError(t, err)
	assert.Equal(t, 1, item)

	item, err = conn.Read()
	assert.NoError(t, err)
	assert.Equal(t, 2, item)

	_, err = conn.Read()
	assert.ErrorIs(t, err, ErrClosed)

	assert.ErrorIs(t, conn.Write(3), ErrClosed)
}

func Test_Channel_CloseDrains(t *testing.T) {
	testCloseDrains(t, NewChannel[int](8))
}

func Test_RingBuffer_CloseDrains(t *testing.T) {
	testCloseDrains(t, NewRingBuffer[int](8))
}

func Test_Channel_DropOldest(t *testing.T) {
	assert := assert.New(t)

	c := NewChannelWithPolicy[int](4, DropOldest)

	// Writes past the capacity must not block.
	for val := range 10 {
		assert.NoError(c.Write(val))
	}

	assert.Equal(uint64(6), c.Dropped())

	// The oldest items were evicted, the newest survive in order.
	for want := 6; want < 10; want++ {
		item, err := c.Read()
		assert.NoError(err)
		assert.Equal(want, item)
	}
}

func Test_RingBuffer_CapacityRounding(t *testing.T) {
	assert := assert.New(t)

	rb := NewRingBuffer[int](100)
	assert.Equal(uint64(128), rb.capacity)

	rb = NewRingBuffer[int](128)
	assert.Equal(uint64(128), rb.capacity)
}

func Test_RingBuffer_Concurrent(t *testing.T) {
	assert := assert.New(t)

	const (
		itemCount   = 40_000
		producerNum = 4
		consumerNum = 4
	)

	rb := NewRingBuffer[int](128)

	seen := &sync.Map{}

	consumerWg := &sync.WaitGroup{}
	consumerWg.Add(consumerNum)
	for range consumerNum {
		go func() {
			defer consumerWg.Done()

			for {
				item, err := rb.Read()
				if err != nil {
					return
				}
				seen.Store(item, true)
			}
		}()
	}

	producerWg := &sync.WaitGroup{}
	producerWg.Add(producerNum)

	perProducer := itemCount / producerNum
	for idx := range producerNum {
		go func(idx int) {
			defer producerWg.Done()

			offset := idx * perProducer
			for val := range perProducer {
				assert.NoError(rb.Write(offset + val))
			}
		}(idx)
	}

	producerWg.Wait()

	// Let the consumers drain everything, then close to stop them.
	for {
		if rb.enqueuePos.Load() == rb.dequeuePos.Load() {
			break
		}
	}
	rb.Close()
	consumerWg.Wait()

	missing := 0
	for val := range itemCount {
		if _, ok := seen.Load(val); !ok {
			missing++
		}
	}
	assert.Zero(missing)
}
