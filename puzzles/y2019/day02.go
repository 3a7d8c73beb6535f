package y2019

import (
	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/puzzles"
	"github.com/wippyai/intcode/vm"
)

// Day02 restores the gravity assist program by patching its noun and verb.
type Day02 struct {
	Options []vm.Option
	Target  int64
}

// Run patches cells 1 and 2 with noun and verb, runs the program and returns
// cell 0.
func (d Day02) Run(program []int64, noun, verb int64) (int64, error) {
	m := vm.New(program, d.Options...)
	if err := m.Poke(1, noun); err != nil {
		return 0, err
	}
	if err := m.Poke(2, verb); err != nil {
		return 0, err
	}
	if err := halt(m); err != nil {
		return 0, err
	}
	return m.Peek(0)
}

func (d Day02) Part1(input string) (string, error) {
	program, err := vm.Parse(input)
	if err != nil {
		return "", err
	}
	v, err := d.Run(program, 12, 2)
	if err != nil {
		return "", err
	}
	return puzzles.Int(v), nil
}

// Part2 searches noun and verb in [0, 99] for the one producing Target.
func (d Day02) Part2(input string) (string, error) {
	program, err := vm.Parse(input)
	if err != nil {
		return "", err
	}
	for noun := int64(0); noun <= 99; noun++ {
		for verb := int64(0); verb <= 99; verb++ {
			v, err := d.Run(program, noun, verb)
			if err != nil {
				// Some pairs fault; keep searching.
				continue
			}
			if v == d.Target {
				return puzzles.Int(100*noun + verb), nil
			}
		}
	}
	return "", errors.Solving("no noun and verb produce %d", d.Target)
}
