package sink

import (
	"context"
	"sync"
)

// Memory buffers records in memory. Unlike file-backed sinks it is
// safe for concurrent use, so a single instance can collect from
// several listeners in tests.
type Memory struct {
	mux     sync.Mutex
	records []*Record
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Emit(_ context.Context, rec *Record) error {
	m.mux.Lock()
	defer m.mux.Unlock()

	m.records = append(m.records, rec)

	return nil
}

func (m *Memory) Close(_ context.Context) error {
	return nil
}

// Records returns a snapshot of everything emitted so far.
func (m *Memory) Records() []*Record {
	m.mux.Lock()
	defer m.mux.Unlock()

	return append([]*Record(nil), m.records...)
}

// Len returns the number of emitted records.
func (m *Memory) Len() int {
	m.mux.Lock()
	defer m.mux.Unlock()

	return len(m.records)
}
