// Package memory implements the ability to read and write the state record
// in memory.
package memory

import (
	"sync"

	"github.com/abcchain/abc/foundation/nodestate"
)

// Memory represents the serialization implementation for reading and storing
// the state record in memory. This implements the nodestate.Storage interface.
type Memory struct {
	mu       sync.RWMutex
	data     []byte
	writes   int
	writeErr error
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{}
}

// NewWithRecord constructs a Memory value holding an existing record.
func NewWithRecord(data []byte) *Memory {
	return &Memory{data: append([]byte(nil), data...)}
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Read returns a copy of the record.
func (m *Memory) Read() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.data == nil {
		return nil, nodestate.ErrNotFound
	}

	return append([]byte(nil), m.data...), nil
}

// Write replaces the record unless a write failure has been set.
func (m *Memory) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}

	m.data = append([]byte(nil), data...)
	m.writes++

	return nil
}

// FailWrites makes every following Write return err. Passing nil
// restores normal behavior.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeErr = err
}

// Writes returns the number of successful writes.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.writes
}
