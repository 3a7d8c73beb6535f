package y2019

import (
	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/puzzles"
	"github.com/wippyai/intcode/vm"
)

// Day19 maps the tractor beam with the drone program.
type Day19 struct {
	Options []vm.Option
	Area    int64 // side of the scanned area
	Square  int64 // side of the ship
	MaxRows int64 // search limit for the ship
}

// Beam answers whether coordinates are pulled. Each probe runs a fresh copy
// of the loaded drone program.
type Beam struct {
	base   *vm.Machine
	probes int
}

// NewBeam loads program for probing.
func (d Day19) NewBeam(program []int64) *Beam {
	return &Beam{base: vm.New(program, d.Options...)}
}

// Pulled deploys a drone at (x, y).
func (b *Beam) Pulled(x, y int64) (bool, error) {
	b.probes++
	m := b.base.Clone()
	m.Input(x, y)
	v, err := m.RunOutput()
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

// Probes returns the number of drones deployed.
func (b *Beam) Probes() int {
	return b.probes
}

// Count returns the number of pulled points in the Area×Area region at the
// origin.
func (d Day19) Count(b *Beam) (int64, error) {
	var n int64
	for y := int64(0); y < d.Area; y++ {
		for x := int64(0); x < d.Area; x++ {
			ok, err := b.Pulled(x, y)
			if err != nil {
				return 0, err
			}
			if ok {
				n++
			}
		}
	}
	return n, nil
}

// Fit returns the top-left corner of the Square×Square region closest to the
// emitter that lies entirely in the beam. It walks the left edge of the beam
// row by row and checks the opposite corner.
func (d Day19) Fit(b *Beam) (x, y int64, err error) {
	var left int64
	for row := d.Square - 1; row < d.MaxRows; row++ {
		found := false
		for cx := left; cx <= left+row+d.Square; cx++ {
			ok, err := b.Pulled(cx, row)
			if err != nil {
				return 0, 0, err
			}
			if ok {
				left, found = cx, true
				break
			}
		}
		if !found {
			continue
		}

		top := row - d.Square + 1
		ok, err := b.Pulled(left+d.Square-1, top)
		if err != nil {
			return 0, 0, err
		}
		if ok {
			return left, top, nil
		}
	}
	return 0, 0, errors.Solving("no %dx%d square within %d rows", d.Square, d.Square, d.MaxRows)
}

func (d Day19) Part1(input string) (string, error) {
	program, err := vm.Parse(input)
	if err != nil {
		return "", err
	}
	n, err := d.Count(d.NewBeam(program))
	if err != nil {
		return "", err
	}
	return puzzles.Int(n), nil
}

func (d Day19) Part2(input string) (string, error) {
	program, err := vm.Parse(input)
	if err != nil {
		return "", err
	}
	x, y, err := d.Fit(d.NewBeam(program))
	if err != nil {
		return "", err
	}
	return puzzles.Int(x*10000 + y), nil
}
