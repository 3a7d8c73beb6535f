// Package errors provides structured error types for the Intcode toolkit.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the faulting address, the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseExecute, errors.KindInvalidOpcode).
//		Addr(12).
//		Value(42).
//		Detail("opcode %d is not recognised", 42).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidOpcode(12, 42)
//	err := errors.InvalidAddress(errors.PhaseMemory, -1)
//
// All errors implement the standard error interface and support errors.Is/As.
// Machine faults (invalid opcode, invalid mode, invalid address, overflow) are
// terminal for the machine that raised them; InputStarved and Solving are
// reported by run-to-completion helpers and drivers, never by a single step.
package errors
