package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/currawonglabs/canpwm/logcfg"
	"github.com/currawonglabs/canpwm/registry"
)

// csvSpan is the column range one packet type occupies in the table.
type csvSpan struct {
	begin  int
	fields []string
}

// CSV writes one row per record into a fixed-layout table. Every
// enabled packet type owns a contiguous column span; rows of other
// packet types leave that span empty. Unclassified frames get a
// single raw-data column when enabled.
type CSV struct {
	w *csv.Writer

	spans    map[string]csvSpan
	tableLen int
}

// NewCSV builds the table layout from the filter configuration and
// writes the header row.
func NewCSV(w io.Writer, cfg logcfg.Config, reg *registry.Registry) (*CSV, error) {
	headers := []string{"timestamp", "can_id", "device_addr"}
	fixed := len(headers)

	spans := make(map[string]csvSpan, len(cfg))

	// Sorted for a stable column layout across runs.
	packetTypes := slices.Sorted(maps.Keys(cfg))

	begin := 0
	for _, packetType := range packetTypes {
		if !cfg.ShouldLog(packetType) {
			continue
		}

		var fields []string
		if packetType == UnclassifiedType {
			fields = []string{"raw"}
		} else {
			s, ok := reg.ByName(packetType)
			if !ok {
				// Already warned at config load.
				continue
			}
			fields = cfg.FieldOrder(packetType, s)
		}

		spans[packetType] = csvSpan{begin: begin, fields: fields}
		headers = append(headers, fields...)
		begin += len(fields)
	}

	c := &CSV{
		w: csv.NewWriter(w),

		spans:    spans,
		tableLen: len(headers) - fixed,
	}

	if err := c.w.Write(headers); err != nil {
		return nil, fmt.Errorf("csv sink: %w", err)
	}
	c.w.Flush()

	return c, nil
}

func (c *CSV) Emit(_ context.Context, rec *Record) error {
	span, ok := c.spans[rec.PacketType]
	if !ok {
		return nil
	}

	row := make([]string, 0, 3+c.tableLen)
	row = append(row,
		rec.Timestamp.Format("2006-01-02 15:04:05.000"),
		fmt.Sprintf("%X", rec.CANID),
		fmt.Sprintf("%X", rec.DeviceAddress),
	)

	for range span.begin {
		row = append(row, "")
	}
	for _, name := range span.fields {
		switch {
		case name == "raw" && rec.PacketType == UnclassifiedType:
			row = append(row, fmt.Sprintf("%X", rec.Raw))
		default:
			if val, ok := rec.Fields[name]; ok {
				row = append(row, strconv.FormatInt(val, 10))
			} else {
				row = append(row, "")
			}
		}
	}
	for len(row) < 3+c.tableLen {
		row = append(row, "")
	}

	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("csv sink: %w", err)
	}
	c.w.Flush()

	return c.w.Error()
}

func (c *CSV) Close(_ context.Context) error {
	c.w.Flush()
	return c.w.Error()
}
