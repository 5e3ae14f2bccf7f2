package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"zombiezen.com/go/log"

	"github.com/calyxir/calyx-riscv/insts"
	"github.com/calyxir/calyx-riscv/loader"
)

type disasmOptions struct {
	path     string
	raw      bool
	abiNames bool
	signed   bool
}

func newDisasmCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:                   "disasm [options] FILE",
		Short:                 "list the .text section of a RISC-V object file",
		DisableFlagsInUseLine: true,
		Args:                  cobra.ExactArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := new(disasmOptions)
	c.Flags().BoolVar(&opts.raw, "raw", false, "read FILE as raw little-endian words instead of ELF")
	c.Flags().BoolVar(&opts.abiNames, "abi", false, "print registers by calling-convention name")
	c.Flags().BoolVar(&opts.signed, "signed", false, "print immediates sign-extended")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		opts.path = args[0]
		return runDisasm(cmd.Context(), g, cmd.OutOrStdout(), opts)
	}
	return c
}

func runDisasm(ctx context.Context, g *globalConfig, stdout io.Writer, opts *disasmOptions) error {
	base, words, err := readText(opts)
	if err != nil {
		return err
	}
	log.Debugf(ctx, "Listing %d words from 0x%x", len(words), base)

	d := insts.NewDecoder()
	f := g.formatter(opts.abiNames, opts.signed)
	for i, w := range words {
		addr := base + uint64(i)*loader.WordSize
		text := ".word"
		inst, err := d.Decode(w)
		switch {
		case errors.Is(err, insts.ErrUnknownOpcode):
			log.Debugf(ctx, "0x%x: %v", addr, err)
		case err != nil:
			return err
		default:
			text = f.Render(inst)
		}
		if _, err := fmt.Fprintf(stdout, "%08x: %08x  %s\n", addr, w, text); err != nil {
			return err
		}
	}
	return nil
}

func readText(opts *disasmOptions) (base uint64, words []uint32, err error) {
	if opts.raw {
		f, err := os.Open(opts.path)
		if err != nil {
			return 0, nil, err
		}
		defer f.Close()
		words, err = loader.ReadWords(f)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: %w", opts.path, err)
		}
		return 0, words, nil
	}

	prog, err := loader.Load(opts.path)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", opts.path, err)
	}
	words, err = prog.Words()
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", opts.path, err)
	}
	return prog.TextAddr, words, nil
}
