// Package listener implements the consumer stage of the pipeline:
// each listener reads frames from its own connector, classifies and
// decodes them, applies the logging filter and emits the surviving
// records to its sink.
package listener

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/currawonglabs/canpwm/connector"
	"github.com/currawonglabs/canpwm/frame"
	"github.com/currawonglabs/canpwm/internal"
	"github.com/currawonglabs/canpwm/logcfg"
	"github.com/currawonglabs/canpwm/registry"
	"github.com/currawonglabs/canpwm/schema"
	"github.com/currawonglabs/canpwm/sink"
)

// Listener consumes frames in arrival order. It owns its input
// connector and its sink exclusively and runs on a single goroutine,
// so emission order matches arrival order.
type Listener struct {
	tel   *internal.Telemetry
	stats *internal.Stats

	reg *registry.Registry
	cfg logcfg.Config

	in connector.Connector[frame.Frame]
	sk sink.Sink

	state atomic.Int32
	done  chan struct{}

	processed      atomic.Int64
	decodeFailures atomic.Int64
	unclassified   atomic.Int64
	emitted        atomic.Int64
}

func New(name string, reg *registry.Registry, cfg logcfg.Config, sk sink.Sink) *Listener {
	tel := internal.NewTelemetry("listener", name)

	return &Listener{
		tel:   tel,
		stats: internal.NewStats(tel.Logger()),

		reg: reg,
		cfg: cfg,

		sk: sk,

		done: make(chan struct{}),
	}
}

// SetInput registers the input connector. Must be called before Run.
func (l *Listener) SetInput(in connector.Connector[frame.Frame]) {
	l.in = in
}

// State returns the listener's current lifecycle state.
func (l *Listener) State() State {
	return State(l.state.Load())
}

func (l *Listener) Processed() int64 {
	return l.processed.Load()
}

func (l *Listener) DecodeFailures() int64 {
	return l.decodeFailures.Load()
}

func (l *Listener) Unclassified() int64 {
	return l.unclassified.Load()
}

func (l *Listener) Emitted() int64 {
	return l.emitted.Load()
}

func (l *Listener) Init(_ context.Context) error {
	l.tel.LogInfo("initializing")
	defer l.tel.LogInfo("initialized")

	if l.in == nil {
		return errors.New("no input connector registered")
	}

	l.tel.NewCounter("processed_frames", l.processed.Load)
	l.tel.NewCounter("decode_failures", l.decodeFailures.Load)
	l.tel.NewCounter("unclassified_frames", l.unclassified.Load)
	l.tel.NewCounter("emitted_records", l.emitted.Load)

	return nil
}

func (l *Listener) Run(ctx context.Context) {
	l.state.Store(int32(StateRunning))
	l.tel.LogInfo("running")

	defer func() {
		l.state.Store(int32(StateStopped))
		close(l.done)
		l.tel.LogInfo("stopped")
	}()

	go l.stats.RunStats(ctx)

	for {
		f, err := l.in.Read()
		if err != nil {
			if !errors.Is(err, connector.ErrClosed) {
				l.tel.LogError("failed to read from input connector", err)
			}

			return
		}

		l.process(ctx, f)
	}
}

// Stop marks the listener as draining and waits for the run loop to
// consume what is left in its connector. The upstream stage must have
// closed the connector first.
func (l *Listener) Stop() {
	l.state.CompareAndSwap(int32(StateRunning), int32(StateDraining))

	l.tel.LogInfo("draining")
	<-l.done

	if err := l.sk.Close(context.Background()); err != nil {
		l.tel.LogError("failed to close sink", err)
	}
}

func (l *Listener) process(ctx context.Context, f frame.Frame) {
	l.processed.Add(1)
	l.stats.IncrementItemCount()
	l.stats.IncrementByteCountBy(int(f.Len))

	id := frame.Decompose(f.ID)

	s, err := l.reg.Lookup(id.DeviceType, id.MessageType)
	if err != nil {
		l.unclassified.Add(1)
		l.emitUnclassified(ctx, f, id)

		return
	}

	v, err := schema.Decode(f.Payload(), s)
	if err != nil {
		l.decodeFailures.Add(1)
		l.tel.LogWarn("failed to decode frame", "packet_type", s.Name(), "can_id", f.ID, "reason", err)

		return
	}

	if !l.cfg.ShouldLog(s.Name()) {
		return
	}

	rec := &sink.Record{
		Timestamp:  time.Now(),
		PacketType: s.Name(),

		CANID:         f.ID,
		DeviceAddress: id.DeviceAddress,

		Fields: l.cfg.SelectFields(s.Name(), v),
	}

	l.emit(ctx, rec)
}

func (l *Listener) emitUnclassified(ctx context.Context, f frame.Frame, id frame.Identifier) {
	if !l.cfg.ShouldLog(sink.UnclassifiedType) {
		return
	}

	l.emit(ctx, &sink.Record{
		Timestamp:  time.Now(),
		PacketType: sink.UnclassifiedType,

		CANID:         f.ID,
		DeviceAddress: id.DeviceAddress,

		Raw: f.Payload(),
	})
}

func (l *Listener) emit(ctx context.Context, rec *sink.Record) {
	if err := l.sk.Emit(ctx, rec); err != nil {
		l.tel.LogError("failed to emit record", err, "packet_type", rec.PacketType)

		return
	}

	l.emitted.Add(1)
}
