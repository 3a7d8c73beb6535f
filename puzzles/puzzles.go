// Package puzzles is the registry mapping (year, day) to puzzle solvers.
//
// Solvers register themselves with a Registry, typically from a per-year
// package such as puzzles/y2019; the runner and the CLI look them up by key.
package puzzles

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/wippyai/intcode/errors"
)

// DefaultYear is assumed by ParseKey when a key names only a day.
const DefaultYear = 2019

// Part solves one half of a puzzle from its raw input text.
type Part func(input string) (string, error)

// Puzzle is a registered day.
type Puzzle struct {
	Part1 Part
	Part2 Part
	Title string
	Year  int
	Day   int
}

// Key returns the canonical "year/day" key.
func (p Puzzle) Key() string {
	return Key(p.Year, p.Day)
}

// Parts returns the non-nil parts in order, keyed by part number.
func (p Puzzle) Parts() map[int]Part {
	parts := make(map[int]Part, 2)
	if p.Part1 != nil {
		parts[1] = p.Part1
	}
	if p.Part2 != nil {
		parts[2] = p.Part2
	}
	return parts
}

// Key formats year and day as "year/day".
func Key(year, day int) string {
	return fmt.Sprintf("%d/%d", year, day)
}

// ParseKey accepts "2019/7", "2019-07" or a bare day "7".
func ParseKey(s string) (year, day int, err error) {
	s = strings.TrimSpace(s)
	sep := strings.IndexAny(s, "/-")

	year = DefaultYear
	dayText := s
	if sep >= 0 {
		if year, err = strconv.Atoi(s[:sep]); err != nil {
			return 0, 0, errors.InvalidInput(errors.PhaseRegistry, fmt.Sprintf("bad year in key %q", s))
		}
		dayText = s[sep+1:]
	}
	if day, err = strconv.Atoi(dayText); err != nil {
		return 0, 0, errors.InvalidInput(errors.PhaseRegistry, fmt.Sprintf("bad day in key %q", s))
	}
	if day < 1 || day > 25 {
		return 0, 0, errors.InvalidInput(errors.PhaseRegistry, fmt.Sprintf("day %d out of range in key %q", day, s))
	}
	return year, day, nil
}

// Int formats a numeric answer.
func Int(v int64) string {
	return strconv.FormatInt(v, 10)
}

// Registry holds registered puzzles. It is safe for concurrent use.
type Registry struct {
	puzzles map[string]Puzzle
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{puzzles: make(map[string]Puzzle)}
}

// Register adds p. Registering the same day twice is an error.
func (r *Registry) Register(p Puzzle) error {
	key := p.Key()
	if p.Day < 1 || p.Day > 25 {
		return errors.Registration(errors.PhaseRegistry, key,
			fmt.Errorf("day %d out of range", p.Day))
	}
	if p.Part1 == nil && p.Part2 == nil {
		return errors.Registration(errors.PhaseRegistry, key,
			fmt.Errorf("puzzle has no parts"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.puzzles[key]; ok {
		return errors.Registration(errors.PhaseRegistry, key,
			fmt.Errorf("already registered"))
	}
	r.puzzles[key] = p
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(puzzles ...Puzzle) {
	for _, p := range puzzles {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the puzzle for year and day.
func (r *Registry) Lookup(year, day int) (Puzzle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.puzzles[Key(year, day)]
	if !ok {
		return Puzzle{}, errors.NotFound(errors.PhaseRegistry, "puzzle", Key(year, day))
	}
	return p, nil
}

// LookupKey parses key and looks it up.
func (r *Registry) LookupKey(key string) (Puzzle, error) {
	year, day, err := ParseKey(key)
	if err != nil {
		return Puzzle{}, err
	}
	return r.Lookup(year, day)
}

// All returns every puzzle sorted by year and day.
func (r *Registry) All() []Puzzle {
	r.mu.RLock()
	out := make([]Puzzle, 0, len(r.puzzles))
	for _, p := range r.puzzles {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Day < out[j].Day
	})
	return out
}

// Year returns the puzzles registered for year, sorted by day.
func (r *Registry) Year(year int) []Puzzle {
	var out []Puzzle
	for _, p := range r.All() {
		if p.Year == year {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of registered puzzles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.puzzles)
}
