package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/intcode/guest"
	"github.com/wippyai/intcode/wasmhost"
)

func (a *app) packCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pack FILE",
		Short: "Package a program as a WebAssembly guest",
		Long: `Encodes FILE as a core WebAssembly module that imports the "intcode"
host module and exports solve(input i64) -> i64.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readProgram(args[0])
			if err != nil {
				return err
			}
			wasm, err := guest.Build(strings.TrimSpace(src))
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], ".txt") + ".wasm"
			}
			if err := os.WriteFile(output, wasm, 0o644); err != nil {
				return fmt.Errorf("write guest: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(wasm))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default FILE with .wasm)")
	return cmd
}

func (a *app) hostCmd() *cobra.Command {
	var (
		fn  string
		arg int64
	)

	cmd := &cobra.Command{
		Use:   "host GUEST.wasm",
		Short: "Run a WebAssembly guest against the intcode host module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read guest: %w", err)
			}

			h := wasmhost.New(
				wasmhost.WithMachineOptions(a.machineOptions()...),
				wasmhost.WithLogger(a.log.Named("wasmhost")),
			)
			defer h.Close()

			res, err := h.Run(ctx, data, fn, api.EncodeI64(arg))
			if err != nil {
				return err
			}
			if herr := h.LastError(); herr != nil {
				a.log.Warn("host reported a failure", zap.Error(herr))
			}
			for _, v := range res {
				fmt.Fprintln(cmd.OutOrStdout(), int64(v))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&fn, "func", "f", guest.SolveFunc, "exported function to call")
	cmd.Flags().Int64VarP(&arg, "arg", "a", 0, "i64 argument")
	return cmd
}
