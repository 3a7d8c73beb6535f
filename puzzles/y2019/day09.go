package y2019

import (
	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/puzzles"
	"github.com/wippyai/intcode/vm"
)

// Day09 runs the BOOST program.
type Day09 struct {
	Options []vm.Option
}

// Boost runs the program in the given mode. In test mode (1) any output
// besides the keycode names a malfunctioning opcode.
func (d Day09) Boost(program []int64, mode int64) (int64, error) {
	m := vm.New(program, d.Options...)
	m.Input(mode)
	if err := halt(m); err != nil {
		return 0, err
	}

	outs := m.Outputs()
	switch {
	case len(outs) == 0:
		return 0, errors.Solving("BOOST produced no output")
	case len(outs) > 1 && mode == 1:
		return 0, errors.Solving("BOOST reported malfunctioning opcodes %v", outs[:len(outs)-1])
	}
	return outs[len(outs)-1], nil
}

func (d Day09) Part1(input string) (string, error) {
	return d.solve(input, 1)
}

func (d Day09) Part2(input string) (string, error) {
	return d.solve(input, 2)
}

func (d Day09) solve(input string, mode int64) (string, error) {
	program, err := vm.Parse(input)
	if err != nil {
		return "", err
	}
	v, err := d.Boost(program, mode)
	if err != nil {
		return "", err
	}
	return puzzles.Int(v), nil
}
