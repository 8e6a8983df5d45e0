// Package sink defines where listeners emit filtered packet records:
// CSV files, QuestDB tables, or an in-memory buffer for tests.
package sink

import (
	"context"
	"time"

	"github.com/currawonglabs/canpwm/schema"
)

// UnclassifiedType is the packet type name under which frames with no
// registered schema are emitted.
const UnclassifiedType = "unclassified"

// Record is one filtered packet emission.
type Record struct {
	Timestamp  time.Time
	PacketType string

	// CANID is the raw identifier of the source frame.
	CANID uint32
	// DeviceAddress is the node the frame came from.
	DeviceAddress uint8

	Fields schema.Value

	// Raw holds the undecoded payload of unclassified frames.
	Raw []byte
}

// Sink consumes records. Each listener owns its sink exclusively, so
// implementations are not required to be safe for concurrent use.
type Sink interface {
	Emit(ctx context.Context, rec *Record) error
	Close(ctx context.Context) error
}
