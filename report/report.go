// Package report renders Calyx simulator output for humans: a numbered
// listing of the instruction memory and a dump of the register file.
package report

import (
	"fmt"
	"io"

	"github.com/calyxir/calyx-riscv/calyx"
	"github.com/calyxir/calyx-riscv/insts"
)

// DefaultRegisterMemory is the conventional name of the register file
// memory.
const DefaultRegisterMemory = "reg_file"

// Report writes simulator output. The zero value is not usable; use New.
type Report struct {
	// Decoder decodes instruction memory cells.
	Decoder *insts.Decoder
	// Formatter renders decoded instructions.
	Formatter *insts.Formatter
	// InstructionMemory names the memory holding instruction words.
	InstructionMemory string
	// RegisterMemory names the memory holding the register file.
	RegisterMemory string
}

// New returns a Report with the default decoder and memory names.
func New(f *insts.Formatter) *Report {
	if f == nil {
		f = insts.NewFormatter()
	}
	return &Report{
		Decoder:           insts.NewDecoder(),
		Formatter:         f,
		InstructionMemory: calyx.DefaultInstructionMemory,
		RegisterMemory:    DefaultRegisterMemory,
	}
}

// Write prints the cycle count, the instruction listing and the register
// dump. It stops at the first instruction word with an unknown opcode.
func (r *Report) Write(w io.Writer, out *calyx.SimOutput) error {
	ew := &errWriter{w: w}

	ew.printf("Took %d cycles\n", out.Cycles)

	ew.printf("\n== instructions ==\n")
	if cells, ok := out.Memories[r.InstructionMemory]; ok {
		if err := r.writeInstructions(ew, cells); err != nil {
			return err
		}
	}

	ew.printf("\n== registers ==\n")
	if cells, ok := out.Memories[r.RegisterMemory]; ok {
		r.writeRegisters(ew, cells)
	}

	return ew.err
}

// WriteInstructions prints one "%3d: <mnemonic>" line per numeric cell,
// numbered by slot. String cells are skipped.
func (r *Report) WriteInstructions(w io.Writer, cells []calyx.Value) error {
	ew := &errWriter{w: w}
	if err := r.writeInstructions(ew, cells); err != nil {
		return err
	}
	return ew.err
}

// WriteRegisters prints one "x<n> <abi>: <value>" line per cell.
func (r *Report) WriteRegisters(w io.Writer, cells []calyx.Value) error {
	ew := &errWriter{w: w}
	r.writeRegisters(ew, cells)
	return ew.err
}

func (r *Report) writeInstructions(ew *errWriter, cells []calyx.Value) error {
	for idx, cell := range cells {
		if !cell.IsNum() {
			continue
		}
		inst, err := r.Decoder.Decode(cell.Num())
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", r.InstructionMemory, idx, err)
		}
		ew.printf("%3d: %s\n", idx, r.Formatter.Render(inst))
	}
	return nil
}

func (r *Report) writeRegisters(ew *errWriter, cells []calyx.Value) {
	for id, cell := range cells {
		name, ok := insts.ABIName(uint8(id))
		if !ok || id >= insts.NumRegisters {
			name = "?"
		}
		ew.printf("x%d %5s: %v\n", id, name, cell)
	}
}

// errWriter remembers the first write error and drops later output.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
