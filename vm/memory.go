package vm

import (
	"github.com/wippyai/intcode/errors"
)

// DefaultMemoryLimit is the largest tape a machine grows to unless
// configured otherwise with WithMemoryLimit.
const DefaultMemoryLimit = 1 << 24

// Memory is the machine's tape: a contiguous, zero-extended slice of cells.
// Reads past the end return 0 without growing; writes past the end grow the
// tape with zero fill.
type Memory struct {
	cells []int64
	limit int
}

// NewMemory creates a tape holding a copy of values.
func NewMemory(values []int64) *Memory {
	m := &Memory{limit: DefaultMemoryLimit}
	m.Load(values)
	return m
}

// Load replaces the tape contents with a copy of values.
func (m *Memory) Load(values []int64) {
	m.cells = append(make([]int64, 0, len(values)), values...)
}

// Len returns the current tape length.
func (m *Memory) Len() int {
	return len(m.cells)
}

// Limit returns the maximum number of cells the tape may grow to.
func (m *Memory) Limit() int {
	return m.limit
}

// Read returns the cell at addr.
func (m *Memory) Read(addr int64) (int64, error) {
	if addr < 0 {
		return 0, errors.InvalidAddress(errors.PhaseMemory, addr)
	}
	if addr >= int64(len(m.cells)) {
		return 0, nil
	}
	return m.cells[addr], nil
}

// Write stores value at addr, growing the tape if needed.
func (m *Memory) Write(addr, value int64) error {
	if addr < 0 {
		return errors.InvalidAddress(errors.PhaseMemory, addr)
	}
	if addr >= int64(len(m.cells)) {
		if addr >= int64(m.limit) {
			return errors.OutOfBounds(addr, m.limit)
		}
		m.grow(int(addr) + 1)
	}
	m.cells[addr] = value
	return nil
}

// Snapshot returns a copy of the tape.
func (m *Memory) Snapshot() []int64 {
	return append([]int64(nil), m.cells...)
}

// grow extends the tape to n cells, at least doubling capacity.
func (m *Memory) grow(n int) {
	if n <= cap(m.cells) {
		m.cells = m.cells[:n]
		return
	}
	newCap := 2 * cap(m.cells)
	if newCap < n {
		newCap = n
	}
	if newCap > m.limit {
		newCap = m.limit
	}
	grown := make([]int64, n, newCap)
	copy(grown, m.cells)
	m.cells = grown
}
