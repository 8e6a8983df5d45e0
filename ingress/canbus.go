package ingress

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/currawonglabs/canpwm/connector"
	"github.com/currawonglabs/canpwm/frame"
	"github.com/currawonglabs/canpwm/internal"
	"github.com/currawonglabs/canpwm/transport"
)

// CANBus is the producer stage of the pipeline. It reads frames from
// a [transport.Transport] and fans each one out to every registered
// listener connector in publish order.
type CANBus struct {
	tel   *internal.Telemetry
	stats *internal.Stats

	tr transport.Transport

	outputs []connector.Connector[frame.Frame]

	done chan struct{}

	received atomic.Int64
	skipped  atomic.Int64
}

func NewCANBus(name string, tr transport.Transport) *CANBus {
	tel := internal.NewTelemetry("ingress", name)

	return &CANBus{
		tel:   tel,
		stats: internal.NewStats(tel.Logger()),

		tr: tr,

		done: make(chan struct{}),
	}
}

// AddOutput registers a listener connector. Must be called before Run.
func (i *CANBus) AddOutput(out connector.Connector[frame.Frame]) {
	i.outputs = append(i.outputs, out)
}

func (i *CANBus) Init(_ context.Context) error {
	i.tel.LogInfo("initializing")
	defer i.tel.LogInfo("initialized")

	if len(i.outputs) == 0 {
		return errors.New("no output connectors registered")
	}

	i.tel.NewCounter("received_frames", i.received.Load)
	i.tel.NewCounter("skipped_frames", i.skipped.Load)

	return nil
}

func (i *CANBus) Run(ctx context.Context) {
	i.tel.LogInfo("running")

	defer func() {
		close(i.done)
		i.tel.LogInfo("stopped")
	}()

	go i.stats.RunStats(ctx)

	for {
		f, err := i.tr.Receive(ctx)
		if err != nil {
			if errors.Is(err, transport.ErrClosed) || ctx.Err() != nil {
				return
			}

			i.tel.LogError("failed to receive frame", err)
			i.skipped.Add(1)

			continue
		}

		i.received.Add(1)
		i.stats.IncrementItemCount()
		i.stats.IncrementByteCountBy(int(f.Len))

		for _, out := range i.outputs {
			if err := out.Write(f); err != nil {
				i.tel.LogWarn("failed to write into output connector", "reason", err)
				i.skipped.Add(1)
			}
		}
	}
}

// Stop closes the transport, waits for the run loop to drain it, then
// closes the output connectors so that listeners can drain and shut
// down in turn.
func (i *CANBus) Stop() {
	i.tel.LogInfo("closing")
	defer i.tel.LogInfo("closed")

	if err := i.tr.Close(); err != nil {
		i.tel.LogError("failed to close transport", err)
	}

	<-i.done

	for _, out := range i.outputs {
		out.Close()
	}
}
