package intcode

import (
	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/vm"
)

// Exec parses src, queues inputs and runs the program until it halts.
// It returns every value the program output. A program that asks for more
// input than given fails with KindInputStarved.
func Exec(src string, inputs ...int64) ([]int64, error) {
	m, err := vm.Load(src)
	if err != nil {
		return nil, err
	}
	m.Input(inputs...)

	st, err := m.Run()
	switch st {
	case vm.StatusFaulted:
		return m.Outputs(), err
	case vm.StatusBlocked:
		return m.Outputs(), errors.InputStarved(m.IP())
	}
	return m.Outputs(), nil
}
