package vm

import (
	"fmt"

	"github.com/wippyai/intcode/errors"
)

// Opcode is the low two decimal digits of an instruction cell.
type Opcode int64

const (
	OpAdd         Opcode = 1
	OpMultiply    Opcode = 2
	OpInput       Opcode = 3
	OpOutput      Opcode = 4
	OpJumpIfTrue  Opcode = 5
	OpJumpIfFalse Opcode = 6
	OpLessThan    Opcode = 7
	OpEquals      Opcode = 8
	OpAdjustBase  Opcode = 9
	OpHalt        Opcode = 99
)

// Info describes a recognised opcode.
type Info struct {
	Name     string
	Operands int
	Write    int // index of the write-target operand, -1 if none
}

var table = map[Opcode]Info{
	OpAdd:         {"ADD", 3, 2},
	OpMultiply:    {"MUL", 3, 2},
	OpInput:       {"IN", 1, 0},
	OpOutput:      {"OUT", 1, -1},
	OpJumpIfTrue:  {"JNZ", 2, -1},
	OpJumpIfFalse: {"JZ", 2, -1},
	OpLessThan:    {"LT", 3, 2},
	OpEquals:      {"EQ", 3, 2},
	OpAdjustBase:  {"ARB", 1, -1},
	OpHalt:        {"HALT", 0, -1},
}

// Lookup returns the static description of op.
func Lookup(op Opcode) (Info, bool) {
	info, ok := table[op]
	return info, ok
}

func (op Opcode) String() string {
	if info, ok := table[op]; ok {
		return info.Name
	}
	return fmt.Sprintf("Opcode(%d)", int64(op))
}

// Mode is a parameter addressing mode.
type Mode int

const (
	ModePosition  Mode = 0
	ModeImmediate Mode = 1
	ModeRelative  Mode = 2
)

func (m Mode) String() string {
	switch m {
	case ModePosition:
		return "position"
	case ModeImmediate:
		return "immediate"
	case ModeRelative:
		return "relative"
	default:
		return "unknown mode"
	}
}

// MaxOperands is the widest instruction's operand count.
const MaxOperands = 3

// Instruction is a decoded cell.
type Instruction struct {
	Raw   int64
	Op    Opcode
	Modes [MaxOperands]Mode
	Info  Info
}

// Width returns the number of cells the instruction occupies.
func (in Instruction) Width() int {
	return 1 + in.Info.Operands
}

// Decode parses the cell found at addr. Parameter modes are the digits above
// the opcode, least significant first; missing digits are Position. Digits
// beyond the operand count are ignored.
func Decode(addr, cell int64) (Instruction, error) {
	if cell < 0 {
		return Instruction{}, errors.InvalidOpcode(addr, cell)
	}
	op := Opcode(cell % 100)
	info, ok := table[op]
	if !ok {
		return Instruction{}, errors.InvalidOpcode(addr, cell)
	}

	in := Instruction{Raw: cell, Op: op, Info: info}
	digits := cell / 100
	for i := 0; i < info.Operands; i++ {
		mode := Mode(digits % 10)
		digits /= 10
		switch mode {
		case ModePosition, ModeRelative:
		case ModeImmediate:
			if i == info.Write {
				return Instruction{}, errors.InvalidMode(addr, cell, i, "write target in immediate mode")
			}
		default:
			return Instruction{}, errors.InvalidMode(addr, cell, i, fmt.Sprintf("unknown mode %d", mode))
		}
		in.Modes[i] = mode
	}
	return in, nil
}
