package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/vm"
)

func (a *app) runCmd() *cobra.Command {
	var (
		inputs string
		ascii  string
		render bool
	)

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a program and print its outputs",
		Long: `Runs the program in FILE to completion. Inputs are queued from --input
(comma-separated integers) followed by the bytes of --ascii, each ASCII
text followed by a newline.

Outputs are printed one per line, or as text with --render. A fault or a
program starved of input exits non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readProgram(args[0])
			if err != nil {
				return err
			}
			m, err := vm.Load(src, a.machineOptions()...)
			if err != nil {
				return err
			}

			values, err := parseInputs(inputs)
			if err != nil {
				return err
			}
			m.Input(values...)
			if ascii != "" {
				m.InputString(ascii + "\n")
			}

			st, runErr := m.Run()
			out := cmd.OutOrStdout()
			if render {
				renderASCII(out, m.Outputs())
			} else {
				for _, v := range m.Outputs() {
					fmt.Fprintln(out, v)
				}
			}

			a.log.Debug("program finished",
				zap.String("file", args[0]),
				zap.Stringer("status", st),
				zap.Uint64("steps", m.Steps()),
			)

			switch st {
			case vm.StatusFaulted:
				return runErr
			case vm.StatusBlocked:
				return errors.InputStarved(m.IP())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputs, "input", "i", "", "comma-separated input values")
	cmd.Flags().StringVar(&ascii, "ascii", "", "queue text as ASCII input, newline terminated")
	cmd.Flags().BoolVar(&render, "render", false, "print ASCII outputs as text")
	return cmd
}

func (a *app) disasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm FILE",
		Short: "Print a disassembly listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readProgram(args[0])
			if err != nil {
				return err
			}
			program, err := vm.Parse(src)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), vm.Listing(vm.Disassemble(program)))
			return nil
		},
	}
}

func parseInputs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var values []int64
	for _, tok := range strings.Split(s, ",") {
		v, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			return nil, errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("bad input value %q", tok))
		}
		values = append(values, v)
	}
	return values, nil
}

// renderASCII writes values as text. Values outside 7-bit ASCII are printed
// as decimal numbers on their own line.
func renderASCII(w io.Writer, values []int64) {
	var b strings.Builder
	for _, v := range values {
		if v >= 0 && v < 128 {
			b.WriteByte(byte(v))
			continue
		}
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.FormatInt(v, 10))
		b.WriteByte('\n')
	}
	io.WriteString(w, b.String())
}
