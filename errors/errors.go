package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // program text to cells
	PhaseDecode   Phase = "decode"   // cell to instruction
	PhaseMemory   Phase = "memory"   // tape access
	PhaseExecute  Phase = "execute"  // instruction effects
	PhaseSolve    Phase = "solve"    // puzzle drivers
	PhaseRegistry Phase = "registry" // puzzle registration and lookup
	PhaseHost     Phase = "host"     // wasm host bridge
	PhaseConfig   Phase = "config"   // configuration loading
	PhaseStore    Phase = "store"    // answer history
)

// Kind categorizes the error
type Kind string

const (
	KindParsing        Kind = "parsing"
	KindInvalidOpcode  Kind = "invalid_opcode"
	KindInvalidMode    Kind = "invalid_mode"
	KindInvalidAddress Kind = "invalid_address"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindOverflow       Kind = "overflow"
	KindInputStarved   Kind = "input_starved"
	KindSolving        Kind = "solving"
	KindNotFound       Kind = "not_found"
	KindRegistration   Kind = "registration"
	KindInvalidInput   Kind = "invalid_input"
	KindInstantiation  Kind = "instantiation"
	KindStorage        Kind = "storage"
	KindTrap           Kind = "trap"
)

// NoAddr marks an error that is not tied to a machine address.
const NoAddr int64 = -1 << 63

// Error is the structured error type used throughout the toolkit
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Addr   int64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Addr != NoAddr {
		fmt.Fprintf(&b, " at %d", e.Addr)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// An empty Phase in target matches any phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether any *Error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	return stderrors.Is(err, &Error{Kind: kind})
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
			Addr:  NoAddr,
		},
	}
}

// Addr sets the machine address the error refers to
func (b *Builder) Addr(addr int64) *Builder {
	b.err.Addr = addr
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Parsing creates an error for a malformed program token
func Parsing(index int, token string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindParsing,
		Addr:   int64(index),
		Detail: fmt.Sprintf("token %q is not an integer", token),
		Value:  token,
		Cause:  cause,
	}
}

// InvalidOpcode creates a decode error for an unrecognised opcode
func InvalidOpcode(addr, cell int64) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidOpcode,
		Addr:   addr,
		Detail: fmt.Sprintf("opcode %d (cell %d) is not recognised", cell%100, cell),
		Value:  cell,
	}
}

// InvalidMode creates a decode error for a bad parameter mode
func InvalidMode(addr, cell int64, param int, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidMode,
		Addr:   addr,
		Detail: fmt.Sprintf("parameter %d of cell %d: %s", param+1, cell, detail),
		Value:  cell,
	}
}

// InvalidAddress creates an error for a negative memory address
func InvalidAddress(phase Phase, addr int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidAddress,
		Addr:   addr,
		Detail: "negative address",
		Value:  addr,
	}
}

// OutOfBounds creates an error for a write past the memory limit
func OutOfBounds(addr int64, limit int) *Error {
	return &Error{
		Phase:  PhaseMemory,
		Kind:   KindOutOfBounds,
		Addr:   addr,
		Detail: fmt.Sprintf("address exceeds memory limit of %d cells", limit),
		Value:  addr,
	}
}

// Overflow creates an arithmetic overflow error
func Overflow(addr int64, op string, a, b int64) *Error {
	return &Error{
		Phase:  PhaseExecute,
		Kind:   KindOverflow,
		Addr:   addr,
		Detail: fmt.Sprintf("%s %d, %d overflows int64", op, a, b),
	}
}

// InputStarved creates an error for a run that blocked on empty input
func InputStarved(addr int64) *Error {
	return &Error{
		Phase:  PhaseExecute,
		Kind:   KindInputStarved,
		Addr:   addr,
		Detail: "machine is waiting for input",
	}
}

// Solving creates an error for a driver that could not reach an answer
func Solving(format string, args ...any) *Error {
	return &Error{
		Phase:  PhaseSolve,
		Kind:   KindSolving,
		Addr:   NoAddr,
		Detail: fmt.Sprintf(format, args...),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Addr:   NoAddr,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Registration creates a registration error
func Registration(phase Phase, name string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRegistration,
		Addr:   NoAddr,
		Detail: fmt.Sprintf("register %s", name),
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Addr:   NoAddr,
		Detail: detail,
	}
}

// Instantiation creates a module instantiation error
func Instantiation(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindInstantiation,
		Addr:   NoAddr,
		Detail: fmt.Sprintf("instantiate %s", what),
		Cause:  cause,
	}
}

// Storage creates an answer store error
func Storage(op string, cause error) *Error {
	return &Error{
		Phase:  PhaseStore,
		Kind:   KindStorage,
		Addr:   NoAddr,
		Detail: op,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Addr:   NoAddr,
		Detail: detail,
		Cause:  cause,
	}
}
