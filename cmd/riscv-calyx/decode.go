package main

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"zombiezen.com/go/log"

	"github.com/calyxir/calyx-riscv/calyx"
	"github.com/calyxir/calyx-riscv/report"
)

type decodeOptions struct {
	input    string
	abiNames bool
	signed   bool
}

func newDecodeCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:                   "decode [options] [FILE.json]",
		Short:                 "render Calyx simulator output as a listing",
		DisableFlagsInUseLine: true,
		Args:                  cobra.MaximumNArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := new(decodeOptions)
	c.Flags().BoolVar(&opts.abiNames, "abi", false, "print registers by calling-convention name")
	c.Flags().BoolVar(&opts.signed, "signed", false, "print immediates sign-extended")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			opts.input = args[0]
		}
		return runDecode(cmd.Context(), g, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
	}
	return c
}

func runDecode(ctx context.Context, g *globalConfig, stdin io.Reader, stdout io.Writer, opts *decodeOptions) error {
	in := stdin
	if opts.input != "" {
		f, err := os.Open(opts.input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	} else {
		log.Debugf(ctx, "Reading simulator output from stdin")
	}

	out, err := calyx.ReadSimOutput(in)
	if err != nil {
		return err
	}

	r := report.New(g.formatter(opts.abiNames, opts.signed))
	r.InstructionMemory = g.InstructionMemory
	r.RegisterMemory = g.RegisterMemory

	w := bufio.NewWriter(stdout)
	if err := r.Write(w, out); err != nil {
		_ = w.Flush()
		return err
	}
	return w.Flush()
}
