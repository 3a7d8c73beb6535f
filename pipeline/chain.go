// Package pipeline connects Intcode machines into amplifier chains.
//
// A Chain holds one machine per phase setting, each loaded with its own copy
// of the program and with its phase queued as the first input. RunSerial
// passes a signal through the chain once; RunFeedback loops the last
// machine's output back into the first until the last machine halts.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/vm"
)

// Chain is a sequence of machines, each feeding the next.
type Chain struct {
	log      *zap.Logger
	machines []*vm.Machine
}

// NewChain builds one machine per phase. The machines share no state.
func NewChain(program []int64, phases []int64, opts ...vm.Option) *Chain {
	c := &Chain{
		log:      Logger(),
		machines: make([]*vm.Machine, len(phases)),
	}
	for i, phase := range phases {
		m := vm.New(program, opts...)
		m.Input(phase)
		c.machines[i] = m
	}
	return c
}

// Len returns the number of machines in the chain.
func (c *Chain) Len() int {
	return len(c.machines)
}

// Machine returns the i-th machine.
func (c *Chain) Machine(i int) *vm.Machine {
	return c.machines[i]
}

// RunSerial feeds signal to the first machine and each machine's last
// output to the next, once. It returns the last machine's output.
func (c *Chain) RunSerial(signal int64) (int64, error) {
	if len(c.machines) == 0 {
		return 0, errors.Solving("empty chain")
	}
	for i, m := range c.machines {
		m.Input(signal)
		out, err := m.RunOutput()
		if err != nil {
			return 0, errors.Wrap(errors.PhaseSolve, errors.KindSolving, err,
				"amplifier "+stage(i))
		}
		signal = out
	}
	return signal, nil
}

// RunFeedback runs the machines round-robin, delivering each one's outputs
// to the next and the last one's back to the first, until the last machine
// halts. It returns the last machine's final output. A round in which no
// machine executes an instruction is a deadlock.
func (c *Chain) RunFeedback(signal int64) (int64, error) {
	n := len(c.machines)
	if n == 0 {
		return 0, errors.Solving("empty chain")
	}
	c.machines[0].Input(signal)
	last := c.machines[n-1]

	for round := 1; ; round++ {
		var progressed bool
		for i, m := range c.machines {
			before := m.Steps()
			st, err := m.Run()
			if st == vm.StatusFaulted {
				return 0, errors.Wrap(errors.PhaseSolve, errors.KindSolving, err,
					"amplifier "+stage(i))
			}
			if m.Steps() != before {
				progressed = true
			}
			if outs := m.Outputs(); len(outs) > 0 {
				c.machines[(i+1)%n].Input(outs...)
			}
		}

		if last.Status() == vm.StatusHalted {
			v, ok := last.LastOutput()
			if !ok {
				return 0, errors.Solving("last amplifier halted without output")
			}
			c.log.Debug("feedback loop settled", zap.Int("rounds", round), zap.Int64("signal", v))
			return v, nil
		}
		if !progressed {
			return 0, errors.Solving("feedback loop deadlocked after %d rounds", round)
		}
	}
}

func stage(i int) string {
	return string(rune('A' + i%26))
}
