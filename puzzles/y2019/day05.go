package y2019

import (
	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/puzzles"
	"github.com/wippyai/intcode/vm"
)

// Day05 runs the thermal environment supervision terminal diagnostics.
type Day05 struct {
	Options []vm.Option
}

// Diagnose runs the program with system id and returns the diagnostic code.
// Every output before the code is a test result and must be zero.
func (d Day05) Diagnose(program []int64, id int64) (int64, error) {
	m := vm.New(program, d.Options...)
	m.Input(id)
	if err := halt(m); err != nil {
		return 0, err
	}

	outs := m.Outputs()
	if len(outs) == 0 {
		return 0, errors.Solving("system %d produced no diagnostic code", id)
	}
	for i, v := range outs[:len(outs)-1] {
		if v != 0 {
			return 0, errors.Solving("diagnostic test %d failed with %d", i+1, v)
		}
	}
	return outs[len(outs)-1], nil
}

func (d Day05) Part1(input string) (string, error) {
	return d.solve(input, 1)
}

func (d Day05) Part2(input string) (string, error) {
	return d.solve(input, 5)
}

func (d Day05) solve(input string, id int64) (string, error) {
	program, err := vm.Parse(input)
	if err != nil {
		return "", err
	}
	v, err := d.Diagnose(program, id)
	if err != nil {
		return "", err
	}
	return puzzles.Int(v), nil
}
