package vm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/intcode/errors"
)

// Status is the outcome of a Step or Run call.
type Status int

const (
	StatusReady   Status = iota // loaded, never stepped
	StatusRunning               // executed an instruction, more to do
	StatusBlocked               // waiting on input, resumable
	StatusHalted                // executed HALT
	StatusFaulted               // stopped on an error
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusBlocked:
		return "blocked"
	case StatusHalted:
		return "halted"
	case StatusFaulted:
		return "faulted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Option configures a Machine.
type Option func(*Machine)

// WithMemoryLimit caps the tape at n cells.
func WithMemoryLimit(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.limit = n
		}
	}
}

// WithLogger sets the machine's logger. Defaults to the package Logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

// Machine is a single Intcode computer. It owns its memory and both queues
// and is not safe for concurrent use.
type Machine struct {
	log    *zap.Logger
	fault  error
	mem    *Memory
	image  []int64
	in     Queue
	out    Queue
	ip     int64
	base   int64
	steps  uint64
	limit  int
	status Status
}

// New creates a machine loaded with a copy of program.
func New(program []int64, opts ...Option) *Machine {
	m := &Machine{limit: DefaultMemoryLimit}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = Logger()
	}
	m.SetMemory(program)
	return m
}

// Load parses src and creates a machine for it.
func Load(src string, opts ...Option) (*Machine, error) {
	program, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return New(program, opts...), nil
}

// SetMemory replaces the program and resets every register and queue.
func (m *Machine) SetMemory(values []int64) {
	m.image = append(m.image[:0], values...)
	m.Reset()
}

// Reset restores the program last given to New or SetMemory and clears the
// registers and queues.
func (m *Machine) Reset() {
	m.mem = NewMemory(m.image)
	m.mem.limit = m.limit
	m.in.Reset()
	m.out.Reset()
	m.ip = 0
	m.base = 0
	m.steps = 0
	m.fault = nil
	m.status = StatusReady
}

// Clone returns an independent copy of the machine in its current state.
func (m *Machine) Clone() *Machine {
	c := *m
	c.image = append([]int64(nil), m.image...)
	c.mem = &Memory{cells: m.mem.Snapshot(), limit: m.mem.limit}
	c.in = m.in.clone()
	c.out = m.out.clone()
	return &c
}

// Input queues values for the ReadInput instruction.
func (m *Machine) Input(values ...int64) {
	m.in.Push(values...)
}

// InputString queues s one byte per value.
func (m *Machine) InputString(s string) {
	for i := 0; i < len(s); i++ {
		m.in.Push(int64(s[i]))
	}
}

// PendingInput returns the number of queued inputs.
func (m *Machine) PendingInput() int {
	return m.in.Len()
}

// ConsumeOutput pops the oldest unread output.
func (m *Machine) ConsumeOutput() (int64, bool) {
	return m.out.Pop()
}

// LastOutput returns the most recent output, whether or not it was consumed.
func (m *Machine) LastOutput() (int64, bool) {
	return m.out.Last()
}

// Outputs drains every unread output.
func (m *Machine) Outputs() []int64 {
	return m.out.Drain()
}

// PendingOutput returns the number of unread outputs.
func (m *Machine) PendingOutput() int {
	return m.out.Len()
}

// Peek reads a memory cell.
func (m *Machine) Peek(addr int64) (int64, error) {
	return m.mem.Read(addr)
}

// Poke writes a memory cell.
func (m *Machine) Poke(addr, value int64) error {
	return m.mem.Write(addr, value)
}

// Memory exposes the machine's tape.
func (m *Machine) Memory() *Memory { return m.mem }

// IP returns the instruction pointer.
func (m *Machine) IP() int64 { return m.ip }

// RelativeBase returns the relative base register.
func (m *Machine) RelativeBase() int64 { return m.base }

// Status returns the status left by the last Step.
func (m *Machine) Status() Status { return m.status }

// Err returns the fault that stopped the machine, if any.
func (m *Machine) Err() error { return m.fault }

// Steps returns the number of instructions executed since the last reset.
func (m *Machine) Steps() uint64 { return m.steps }

// Run steps until the machine halts, blocks on input or faults.
func (m *Machine) Run() (Status, error) {
	for {
		st, err := m.Step()
		if st != StatusRunning {
			return st, err
		}
	}
}

// RunFor executes at most limit instructions. It returns StatusRunning when
// the budget runs out before the machine halts, blocks or faults.
func (m *Machine) RunFor(limit int) (Status, error) {
	for i := 0; i < limit; i++ {
		st, err := m.Step()
		if st != StatusRunning {
			return st, err
		}
	}
	return m.status, m.fault
}

// RunOutput runs to completion and returns the last value output.
// A machine that blocks on input reports KindInputStarved.
func (m *Machine) RunOutput() (int64, error) {
	st, err := m.Run()
	switch st {
	case StatusFaulted:
		return 0, err
	case StatusBlocked:
		return 0, errors.InputStarved(m.ip)
	}
	v, ok := m.LastOutput()
	if !ok {
		return 0, errors.Solving("program halted after %d steps without output", m.steps)
	}
	return v, nil
}

// Step executes one instruction.
func (m *Machine) Step() (Status, error) {
	switch m.status {
	case StatusHalted:
		return StatusHalted, nil
	case StatusFaulted:
		return StatusFaulted, m.fault
	}

	if m.ip < 0 {
		return m.fail(errors.InvalidAddress(errors.PhaseExecute, m.ip))
	}
	cell, _ := m.mem.Read(m.ip)
	in, err := Decode(m.ip, cell)
	if err != nil {
		return m.fail(err)
	}

	var params [MaxOperands]int64
	for i := 0; i < in.Info.Operands; i++ {
		params[i], _ = m.mem.Read(m.ip + 1 + int64(i))
	}
	next := m.ip + int64(in.Width())

	switch in.Op {
	case OpAdd, OpMultiply, OpLessThan, OpEquals:
		a, err := m.value(in, params, 0)
		if err != nil {
			return m.fail(err)
		}
		b, err := m.value(in, params, 1)
		if err != nil {
			return m.fail(err)
		}
		var r int64
		switch in.Op {
		case OpAdd:
			var ok bool
			if r, ok = addInt64(a, b); !ok {
				return m.fail(errors.Overflow(m.ip, "add", a, b))
			}
		case OpMultiply:
			var ok bool
			if r, ok = mulInt64(a, b); !ok {
				return m.fail(errors.Overflow(m.ip, "multiply", a, b))
			}
		case OpLessThan:
			r = boolInt(a < b)
		case OpEquals:
			r = boolInt(a == b)
		}
		if err := m.store(in, params, 2, r); err != nil {
			return m.fail(err)
		}

	case OpInput:
		if m.in.Len() == 0 {
			m.status = StatusBlocked
			return StatusBlocked, nil
		}
		dst, err := m.address(in, params, 0)
		if err != nil {
			return m.fail(err)
		}
		v, _ := m.in.Peek()
		if err := m.mem.Write(dst, v); err != nil {
			return m.fail(err)
		}
		m.in.Pop()

	case OpOutput:
		v, err := m.value(in, params, 0)
		if err != nil {
			return m.fail(err)
		}
		m.out.Push(v)

	case OpJumpIfTrue, OpJumpIfFalse:
		cond, err := m.value(in, params, 0)
		if err != nil {
			return m.fail(err)
		}
		if (cond != 0) == (in.Op == OpJumpIfTrue) {
			if next, err = m.value(in, params, 1); err != nil {
				return m.fail(err)
			}
		}

	case OpAdjustBase:
		v, err := m.value(in, params, 0)
		if err != nil {
			return m.fail(err)
		}
		base, ok := addInt64(m.base, v)
		if !ok {
			return m.fail(errors.Overflow(m.ip, "adjust relative base", m.base, v))
		}
		m.base = base

	case OpHalt:
		m.steps++
		m.status = StatusHalted
		m.log.Debug("machine halted", zap.Int64("ip", m.ip), zap.Uint64("steps", m.steps))
		return StatusHalted, nil
	}

	m.ip = next
	m.steps++
	m.status = StatusRunning
	return StatusRunning, nil
}

// address resolves operand i to the cell it names.
func (m *Machine) address(in Instruction, params [MaxOperands]int64, i int) (int64, error) {
	if in.Modes[i] != ModeRelative {
		return params[i], nil
	}
	addr, ok := addInt64(m.base, params[i])
	if !ok {
		return 0, errors.Overflow(m.ip, "relative address", m.base, params[i])
	}
	return addr, nil
}

// value resolves operand i to the value it denotes.
func (m *Machine) value(in Instruction, params [MaxOperands]int64, i int) (int64, error) {
	if in.Modes[i] == ModeImmediate {
		return params[i], nil
	}
	addr, err := m.address(in, params, i)
	if err != nil {
		return 0, err
	}
	return m.mem.Read(addr)
}

func (m *Machine) store(in Instruction, params [MaxOperands]int64, i int, v int64) error {
	addr, err := m.address(in, params, i)
	if err != nil {
		return err
	}
	return m.mem.Write(addr, v)
}

func (m *Machine) fail(err error) (Status, error) {
	m.fault = err
	m.status = StatusFaulted
	m.log.Debug("machine fault",
		zap.Int64("ip", m.ip),
		zap.Int64("relative_base", m.base),
		zap.Uint64("steps", m.steps),
		zap.Error(err),
	)
	return StatusFaulted, err
}
