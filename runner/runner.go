// Package runner solves registered puzzles against their input files.
//
// Parts run concurrently up to a limit. A failing or panicking part is
// reported in its Result and never stops the rest of the batch; only
// cancelling the context does.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/intcode/answers"
	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/puzzles"
)

// Store records answers. *answers.Store implements it.
type Store interface {
	Record(ctx context.Context, e answers.Entry) error
	Latest(ctx context.Context, year, day, part int) (answers.Entry, bool, error)
}

// Result is the outcome of one puzzle part.
type Result struct {
	Err      error
	Answer   string
	Previous string // last recorded answer when Changed
	RunID    string
	Year     int
	Day      int
	Part     int
	Duration time.Duration
	Changed  bool
}

// OK reports whether the part produced an answer.
func (r Result) OK() bool {
	return r.Err == nil
}

// Key returns "year/day".
func (r Result) Key() string {
	return puzzles.Key(r.Year, r.Day)
}

// Option configures a Runner.
type Option func(*Runner)

// WithInputs sets the input directory.
func WithInputs(dir string) Option {
	return func(r *Runner) { r.Inputs = dir }
}

// WithStore records every result in s.
func WithStore(s Store) Option {
	return func(r *Runner) { r.Store = s }
}

// WithParallel bounds the number of parts running at once.
func WithParallel(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.Parallel = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.Logger = l
		}
	}
}

// Runner solves puzzles from a registry.
type Runner struct {
	Registry *puzzles.Registry
	Store    Store
	Logger   *zap.Logger
	Inputs   string
	Parallel int

	storeMu sync.Mutex
}

// New creates a runner over reg.
func New(reg *puzzles.Registry, opts ...Option) *Runner {
	r := &Runner{
		Registry: reg,
		Inputs:   "inputs",
		Parallel: 1,
		Logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// InputPath returns <inputs>/<year>/dayDD.txt.
func (r *Runner) InputPath(year, day int) string {
	return filepath.Join(r.Inputs, strconv.Itoa(year), fmt.Sprintf("day%02d.txt", day))
}

// Select resolves keys to puzzles. With no keys it returns every puzzle of
// year, or every registered puzzle when year is 0.
func (r *Runner) Select(year int, keys ...string) ([]puzzles.Puzzle, error) {
	if len(keys) == 0 {
		if year == 0 {
			return r.Registry.All(), nil
		}
		return r.Registry.Year(year), nil
	}

	out := make([]puzzles.Puzzle, 0, len(keys))
	for _, k := range keys {
		p, err := r.Registry.LookupKey(k)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Run solves every part of ps. Results are sorted by year, day and part.
// The returned error is non-nil only when ctx ends the batch early.
func (r *Runner) Run(ctx context.Context, ps []puzzles.Puzzle) ([]Result, error) {
	runID := uuid.NewString()
	log := r.Logger.With(zap.String("run_id", runID))

	var (
		mu      sync.Mutex
		results []Result
	)
	add := func(res Result) {
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Parallel)

	for _, p := range ps {
		input, err := r.readInput(p.Year, p.Day)
		if err != nil {
			log.Warn("input unavailable", zap.String("puzzle", p.Key()), zap.Error(err))
			for n := range p.Parts() {
				add(Result{RunID: runID, Year: p.Year, Day: p.Day, Part: n, Err: err})
			}
			continue
		}

		for n, part := range p.Parts() {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				add(r.runPart(gctx, log, runID, p, n, part, input))
				return nil
			})
		}
	}

	err := g.Wait()
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Part < b.Part
	})
	return results, err
}

func (r *Runner) readInput(year, day int) (string, error) {
	path := r.InputPath(year, day)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", errors.Wrap(errors.PhaseSolve, errors.KindNotFound, err, "input "+path)
	}
	if err != nil {
		return "", errors.Wrap(errors.PhaseSolve, errors.KindInvalidInput, err, "input "+path)
	}
	return string(data), nil
}

func (r *Runner) runPart(ctx context.Context, log *zap.Logger, runID string, p puzzles.Puzzle, n int, part puzzles.Part, input string) Result {
	res := Result{RunID: runID, Year: p.Year, Day: p.Day, Part: n}
	fields := []zap.Field{zap.String("puzzle", p.Key()), zap.Int("part", n)}

	start := time.Now()
	res.Answer, res.Err = call(part, input)
	res.Duration = time.Since(start)
	fields = append(fields, zap.Duration("duration", res.Duration))

	if res.Err != nil {
		log.Warn("part failed", append(fields, zap.Error(res.Err))...)
	} else {
		log.Info("part solved", append(fields, zap.String("answer", res.Answer))...)
	}

	if r.Store != nil {
		r.record(ctx, log, &res)
	}
	return res
}

func (r *Runner) record(ctx context.Context, log *zap.Logger, res *Result) {
	r.storeMu.Lock()
	defer r.storeMu.Unlock()

	prev, ok, err := r.Store.Latest(ctx, res.Year, res.Day, res.Part)
	if err != nil {
		log.Error("answer lookup failed", zap.Error(err))
	}
	if res.Err == nil && ok && prev.Answer != res.Answer {
		res.Changed = true
		res.Previous = prev.Answer
		log.Warn("answer changed",
			zap.String("puzzle", res.Key()),
			zap.Int("part", res.Part),
			zap.String("previous", prev.Answer),
			zap.String("answer", res.Answer),
		)
	}

	e := answers.Entry{
		RunID:    res.RunID,
		Year:     res.Year,
		Day:      res.Day,
		Part:     res.Part,
		Answer:   res.Answer,
		Duration: res.Duration,
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	if err := r.Store.Record(ctx, e); err != nil {
		log.Error("answer not recorded", zap.Error(err))
	}
}

func call(part puzzles.Part, input string) (answer string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Solving("part panicked: %v", p)
		}
	}()
	return part(input)
}
