// Package y2019 registers the Intcode puzzles of Advent of Code 2019.
//
// Every driver here consumes the shared vm package; none carries its own
// interpreter.
package y2019

import (
	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/puzzles"
	"github.com/wippyai/intcode/vm"
)

// Year is the event these drivers belong to.
const Year = 2019

// Register adds days 2, 5, 7, 9 and 19 to r. opts apply to every machine
// the drivers create.
func Register(r *puzzles.Registry, opts ...vm.Option) error {
	d2 := Day02{Target: 19690720, Options: opts}
	d5 := Day05{Options: opts}
	d7 := Day07{Options: opts}
	d9 := Day09{Options: opts}
	d19 := Day19{Area: 50, Square: 100, MaxRows: 10000, Options: opts}

	for _, p := range []puzzles.Puzzle{
		{Year: Year, Day: 2, Title: "1202 Program Alarm", Part1: d2.Part1, Part2: d2.Part2},
		{Year: Year, Day: 5, Title: "Sunny with a Chance of Asteroids", Part1: d5.Part1, Part2: d5.Part2},
		{Year: Year, Day: 7, Title: "Amplification Circuit", Part1: d7.Part1, Part2: d7.Part2},
		{Year: Year, Day: 9, Title: "Sensor Boost", Part1: d9.Part1, Part2: d9.Part2},
		{Year: Year, Day: 19, Title: "Tractor Beam", Part1: d19.Part1, Part2: d19.Part2},
	} {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// halt runs m to completion. A blocked machine is starved of input.
func halt(m *vm.Machine) error {
	st, err := m.Run()
	switch st {
	case vm.StatusFaulted:
		return err
	case vm.StatusBlocked:
		return errors.InputStarved(m.IP())
	}
	return nil
}
