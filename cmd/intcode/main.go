// Command intcode runs, inspects and packages Intcode programs and solves
// registered puzzles.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/intcode/config"
	"github.com/wippyai/intcode/pipeline"
	"github.com/wippyai/intcode/vm"
	"github.com/wippyai/intcode/wasmhost"
)

// app holds state shared by every subcommand.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "intcode",
		Short: "Intcode virtual machine toolkit",
		Long: `intcode runs Intcode programs, disassembles and debugs them, packages
them as WebAssembly guests and solves the registered puzzle days.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.runCmd(),
		a.disasmCmd(),
		a.debugCmd(),
		a.solveCmd(),
		a.answersCmd(),
		a.packCmd(),
		a.hostCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logging.Level = zapcore.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := cfg.Logging.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.log = log
	vm.SetLogger(log.Named("vm"))
	pipeline.SetLogger(log.Named("pipeline"))
	wasmhost.SetLogger(log.Named("wasmhost"))
	return nil
}

// machineOptions returns the configured options for new machines.
func (a *app) machineOptions() []vm.Option {
	return a.cfg.VM.Options()
}

func readProgram(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read program: %w", err)
	}
	return string(data), nil
}
