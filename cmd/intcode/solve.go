package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/wippyai/intcode/answers"
	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/puzzles"
	"github.com/wippyai/intcode/puzzles/y2019"
	"github.com/wippyai/intcode/runner"
)

func (a *app) registry() (*puzzles.Registry, error) {
	reg := puzzles.NewRegistry()
	if err := y2019.Register(reg, a.machineOptions()...); err != nil {
		return nil, err
	}
	return reg, nil
}

// openStore opens the answer history, or returns nil when it is disabled.
func (a *app) openStore(ctx context.Context) (*answers.Store, error) {
	if a.cfg.Database == "" {
		return nil, nil
	}
	return answers.Open(ctx, a.cfg.Database)
}

func (a *app) solveCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "solve [KEY...]",
		Short: "Solve registered puzzle days",
		Long: `Solves the given days, or every registered day when no key is given.
Keys are "2019/7", "2019-07" or a bare day number.

Inputs are read from <inputs>/<year>/dayDD.txt. Failed parts are reported
and the batch continues; the command exits non-zero if any part failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			reg, err := a.registry()
			if err != nil {
				return err
			}

			opts := []runner.Option{
				runner.WithInputs(a.cfg.Inputs),
				runner.WithParallel(a.cfg.Parallel),
				runner.WithLogger(a.log.Named("runner")),
			}
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
				opts = append(opts, runner.WithStore(store))
			}

			r := runner.New(reg, opts...)
			ps, err := r.Select(year, args...)
			if err != nil {
				return err
			}
			if len(ps) == 0 {
				return errors.NotFound(errors.PhaseRegistry, "puzzles for year", strconv.Itoa(year))
			}

			results, err := r.Run(ctx, ps)
			out := cmd.OutOrStdout()
			failed := 0
			for _, res := range results {
				if !res.OK() {
					failed++
					fmt.Fprintf(out, "%s part %d: error: %v\n", res.Key(), res.Part, res.Err)
					continue
				}
				line := fmt.Sprintf("%s part %d: %s (%s)", res.Key(), res.Part, res.Answer, res.Duration.Round(time.Microsecond))
				if res.Changed {
					line += fmt.Sprintf(" [was %s]", res.Previous)
				}
				fmt.Fprintln(out, line)
			}
			if err != nil {
				return err
			}
			if failed > 0 {
				return errors.Solving("%d of %d parts failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "limit to one year when no key is given")
	return cmd
}

func (a *app) answersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answers YEAR/DAY",
		Short: "Show the recorded answer history of a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			year, day, err := puzzles.ParseKey(args[0])
			if err != nil {
				return err
			}
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if store == nil {
				return errors.InvalidInput(errors.PhaseConfig, "answer history is disabled")
			}
			defer store.Close()

			history, err := store.History(ctx, year, day)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No answers recorded for %s.\n", puzzles.Key(year, day))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), historyTable(history))
			return nil
		},
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func historyTable(history []answers.Entry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("RECORDED", "PART", "ANSWER", "DURATION", "RUN").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, e := range history {
		answer := e.Answer
		if !e.OK() {
			answer = "error: " + e.Error
		}
		t.Row(
			e.RecordedAt.Format(time.DateTime),
			strconv.Itoa(e.Part),
			answer,
			e.Duration.Round(time.Microsecond).String(),
			e.RunID,
		)
	}
	return t.String()
}
