// Package vm implements the Intcode virtual machine.
//
// A Machine is a stored-program computer over a tape of int64 cells with an
// instruction pointer, a relative base register and two FIFO queues for
// input and output.
//
// # Instruction Format
//
// The low two decimal digits of a cell select the opcode; each higher digit,
// least significant first, selects the addressing mode of one parameter:
//
//	Opcode              Cell  Operands  Effect
//	─────────────────────────────────────────────────────────
//	ADD                  1    a b dst   dst = a + b
//	MUL                  2    a b dst   dst = a * b
//	IN                   3    dst       dst = next input
//	OUT                  4    a         output a
//	JNZ                  5    a t       if a != 0 { ip = t }
//	JZ                   6    a t       if a == 0 { ip = t }
//	LT                   7    a b dst   dst = a < b
//	EQ                   8    a b dst   dst = a == b
//	ARB                  9    a         relative base += a
//	HALT                99
//
//	Mode        Digit  Operand means
//	────────────────────────────────────────
//	position      0    cell at address p
//	immediate     1    the literal p
//	relative      2    cell at relative base + p
//
// Write targets are never immediate.
//
// # Memory
//
// The tape is a contiguous slice. Reading past the end yields 0; writing past
// the end grows the tape with zero fill, up to a limit (WithMemoryLimit).
// Negative addresses fault.
//
// # Execution
//
// Step executes one instruction; Run steps until the machine halts, blocks
// or faults:
//
//	m, err := vm.Load("3,0,4,0,99")
//	if err != nil {
//	    return err
//	}
//	st, _ := m.Run()        // StatusBlocked: no input queued
//	m.Input(42)
//	st, err = m.Run()       // StatusHalted
//	v, _ := m.ConsumeOutput() // 42
//
// A blocked machine leaves its instruction pointer on the IN instruction, so
// queueing input and calling Run again resumes it. Faults are terminal: the
// error is kept and returned by every later call until Reset.
//
// # Thread Safety
//
// A Machine is not safe for concurrent use. Independent machines share no
// state and may be driven from different goroutines.
package vm
