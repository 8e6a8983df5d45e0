package sink

import (
	"context"
	"fmt"
	"time"

	qdb "github.com/questdb/go-questdb-client/v3"
)

// QuestDBConfig configures the QuestDB ILP sink.
type QuestDBConfig struct {
	Address string
	Table   string
}

func NewDefaultQuestDBConfig() *QuestDBConfig {
	return &QuestDBConfig{
		Address: "localhost:9000",
		Table:   "can_packets",
	}
}

// QuestDB emits records as ILP rows: one row per record, the packet
// type and device address as symbols, every surviving field as an
// int64 column.
type QuestDB struct {
	cfg *QuestDBConfig

	senderPool *qdb.LineSenderPool
	sender     qdb.LineSender
}

func NewQuestDB(ctx context.Context, cfg *QuestDBConfig) (*QuestDB, error) {
	senderPool, err := qdb.PoolFromOptions(
		qdb.WithAddress(cfg.Address),
		qdb.WithHttp(),
		qdb.WithAutoFlushRows(75_000),
		qdb.WithRetryTimeout(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("questdb sink: %w", err)
	}

	sender, err := senderPool.Sender(ctx)
	if err != nil {
		return nil, fmt.Errorf("questdb sink: %w", err)
	}

	return &QuestDB{
		cfg: cfg,

		senderPool: senderPool,
		sender:     sender,
	}, nil
}

func (q *QuestDB) Emit(ctx context.Context, rec *Record) error {
	query := q.sender.Table(q.cfg.Table).
		Symbol("packet_type", rec.PacketType).
		Symbol("device_addr", fmt.Sprintf("%X", rec.DeviceAddress)).
		Int64Column("can_id", int64(rec.CANID))

	for name, val := range rec.Fields {
		query.Int64Column(name, val)
	}

	if rec.PacketType == UnclassifiedType {
		query.StringColumn("raw", fmt.Sprintf("%X", rec.Raw))
	}

	return query.At(ctx, rec.Timestamp)
}

func (q *QuestDB) Close(ctx context.Context) error {
	if err := q.sender.Close(ctx); err != nil {
		return err
	}

	return q.senderPool.Close(ctx)
}
