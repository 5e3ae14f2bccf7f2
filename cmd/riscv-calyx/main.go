// Command riscv-calyx moves RISC-V programs in and out of Calyx data files:
// it assembles source into an instruction memory and renders simulator
// output as an instruction listing and register dump.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"zombiezen.com/go/bass/sigterm"
	"zombiezen.com/go/log"

	"github.com/calyxir/calyx-riscv/config"
	"github.com/calyxir/calyx-riscv/insts"
)

type globalConfig struct {
	*config.Config
}

// load merges the default config file, the explicit config files and the
// environment, in that order.
func (g *globalConfig) load(ctx context.Context, explicit []string) error {
	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, "riscv-calyx", "config.jwcc")
		read, err := g.MergeFiles(path)
		if err != nil {
			return err
		}
		for _, path := range read {
			log.Debugf(ctx, "Read config %s", path)
		}
	}
	for _, path := range explicit {
		if err := g.MergeFile(path); err != nil {
			return err
		}
		log.Debugf(ctx, "Read config %s", path)
	}
	g.MergeEnvironment()
	return g.Validate()
}

// formatter builds an instruction formatter from the config, with flags
// able to turn options on.
func (g *globalConfig) formatter(abiNames, signed bool) *insts.Formatter {
	var opts []insts.FormatterOption
	if abiNames || g.ABINames {
		opts = append(opts, insts.WithABINames())
	}
	if signed || g.SignedImmediates {
		opts = append(opts, insts.WithSignedImmediates())
	}
	return insts.NewFormatter(opts...)
}

// newRootCommand builds the command tree. showDebug receives the --debug
// flag so that main can log a final error at the requested level.
func newRootCommand(showDebug *bool) *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "riscv-calyx",
		Short:         "translate between RISC-V programs and Calyx data files",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	g := &globalConfig{Config: config.Default()}
	configPaths := rootCommand.PersistentFlags().StringArray("config", nil, "read configuration from `path` (repeatable)")
	rootCommand.PersistentFlags().BoolVar(showDebug, "debug", false, "show debugging output")

	rootCommand.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		initLogging(*showDebug)
		return g.load(cmd.Context(), *configPaths)
	}

	rootCommand.AddCommand(
		newEncodeCommand(g),
		newDecodeCommand(g),
		newDisasmCommand(g),
	)
	return rootCommand
}

func main() {
	showDebug := new(bool)
	rootCommand := newRootCommand(showDebug)

	ctx, cancel := signal.NotifyContext(context.Background(), sigterm.Signals()...)
	err := rootCommand.ExecuteContext(ctx)
	cancel()
	if err != nil {
		initLogging(*showDebug)
		log.Errorf(context.Background(), "%v", err)
		os.Exit(1)
	}
}

var initLogOnce sync.Once

func initLogging(showDebug bool) {
	initLogOnce.Do(func() {
		minLogLevel := log.Info
		if showDebug {
			minLogLevel = log.Debug
		}
		log.SetDefault(&log.LevelFilter{
			Min:    minLogLevel,
			Output: log.New(os.Stderr, "riscv-calyx: ", log.StdFlags, nil),
		})
	})
}
