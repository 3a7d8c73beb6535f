package y2019

import (
	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/pipeline"
	"github.com/wippyai/intcode/puzzles"
	"github.com/wippyai/intcode/vm"
)

// Day07 finds the phase settings that maximise the thruster signal.
type Day07 struct {
	Options []vm.Option
}

// MaxSignal tries every ordering of phases and returns the best signal with
// the ordering that produced it.
func (d Day07) MaxSignal(program []int64, phases []int64, feedback bool) (int64, []int64, error) {
	var (
		best    int64
		bestSeq []int64
	)
	for _, seq := range pipeline.Permutations(phases) {
		c := pipeline.NewChain(program, seq, d.Options...)
		var (
			v   int64
			err error
		)
		if feedback {
			v, err = c.RunFeedback(0)
		} else {
			v, err = c.RunSerial(0)
		}
		if err != nil {
			return 0, nil, err
		}
		if bestSeq == nil || v > best {
			best, bestSeq = v, seq
		}
	}
	if bestSeq == nil {
		return 0, nil, errors.Solving("no phase settings")
	}
	return best, bestSeq, nil
}

func (d Day07) Part1(input string) (string, error) {
	return d.solve(input, pipeline.Range(0, 4), false)
}

func (d Day07) Part2(input string) (string, error) {
	return d.solve(input, pipeline.Range(5, 9), true)
}

func (d Day07) solve(input string, phases []int64, feedback bool) (string, error) {
	program, err := vm.Parse(input)
	if err != nil {
		return "", err
	}
	v, _, err := d.MaxSignal(program, phases, feedback)
	if err != nil {
		return "", err
	}
	return puzzles.Int(v), nil
}
