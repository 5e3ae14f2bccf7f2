package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"zombiezen.com/go/log"

	"github.com/calyxir/calyx-riscv/asm"
	"github.com/calyxir/calyx-riscv/calyx"
)

type encodeOptions struct {
	src       string
	name      string
	assembler string
	data      calyx.MemorySpecs
	output    string
}

func newEncodeCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:                   "encode [options] FILE.s",
		Short:                 "assemble a RISC-V source file into a Calyx data file",
		DisableFlagsInUseLine: true,
		Args:                  cobra.ExactArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := new(encodeOptions)
	addEncodeFlags(c.Flags(), opts)
	c.RunE = func(cmd *cobra.Command, args []string) error {
		opts.src = args[0]
		return runEncode(cmd.Context(), g, cmd.OutOrStdout(), opts)
	}
	return c
}

func addEncodeFlags(fs *pflag.FlagSet, opts *encodeOptions) {
	fs.StringVarP(&opts.name, "name", "n", "", "name of the instruction `memory` (default from config, \"insts\")")
	fs.StringVarP(&opts.assembler, "assembler", "a", "", "RISC-V assembler `program` (default from config)")
	fs.Var(&opts.data, "data", "add a zero- or fill-initialized memory (repeatable)")
	fs.StringVarP(&opts.output, "output", "o", "", "write the data file to `path` instead of stdout")
}

func runEncode(ctx context.Context, g *globalConfig, stdout io.Writer, opts *encodeOptions) error {
	name := opts.name
	if name == "" {
		name = g.InstructionMemory
	}
	assembler := opts.assembler
	if assembler == "" {
		assembler = g.Assembler
	}

	a := asm.New(assembler)
	log.Debugf(ctx, "Assembling %s with %v", opts.src, a)
	prog, err := a.Assemble(ctx, opts.src)
	if err != nil {
		return err
	}
	words, err := prog.Words()
	if err != nil {
		return fmt.Errorf("%s: %w", opts.src, err)
	}
	log.Debugf(ctx, "Read %d instructions from .text", len(words))

	df, err := calyx.NewDataFile(name, words, opts.data)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := df.WriteTo(stdout)
		return err
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	if _, err := df.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	return f.Close()
}
