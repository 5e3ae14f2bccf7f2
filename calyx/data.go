// Package calyx reads and writes the JSON data files exchanged with the
// Calyx simulator.
package calyx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// DefaultInstructionMemory is the conventional name of the instruction
// memory.
const DefaultInstructionMemory = "insts"

// NumericFormat describes how the simulator interprets memory cells.
type NumericFormat struct {
	NumericType string `json:"numeric_type"`
	IsSigned    bool   `json:"is_signed"`
	Width       int    `json:"width"`
}

// BitNum returns the unsigned bit-vector format of the given width.
func BitNum(width int) NumericFormat {
	return NumericFormat{
		NumericType: "bitnum",
		IsSigned:    false,
		Width:       width,
	}
}

// Memory is one named memory of a data file.
type Memory struct {
	Data   []uint32      `json:"data"`
	Format NumericFormat `json:"format"`
}

// DataFile maps memory names to their initial contents.
type DataFile map[string]Memory

// NewDataFile builds a data file with an instruction memory named name
// holding insts, plus one memory per extra spec.
func NewDataFile(name string, insts []uint32, extra []MemorySpec) (DataFile, error) {
	if insts == nil {
		insts = []uint32{}
	}
	df := DataFile{
		name: {Data: insts, Format: BitNum(32)},
	}

	for _, spec := range extra {
		if _, dup := df[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate memory %q", spec.Name)
		}
		df[spec.Name] = spec.Memory()
	}

	return df, nil
}

// WriteTo writes df as indented JSON with sorted keys.
func (df DataFile) WriteTo(w io.Writer) (int64, error) {
	data, err := jsonv2.Marshal(df, jsonv2.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return 0, fmt.Errorf("failed to serialize data file: %w", err)
	}
	data = append(data, '\n')

	n, err := w.Write(data)
	return int64(n), err
}

// MemorySpec describes an extra memory to add to a data file:
// name:size:width[:fill].
type MemorySpec struct {
	Name    string
	Size    int
	Width   int
	Fill    uint32
	HasFill bool
}

// ParseMemorySpec parses "name:size:width" or "name:size:width:fill".
// All numbers are decimal.
func ParseMemorySpec(s string) (MemorySpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return MemorySpec{}, fmt.Errorf("memory %q: want name:size:width[:fill]", s)
	}
	if parts[0] == "" {
		return MemorySpec{}, fmt.Errorf("memory %q: empty name", s)
	}

	spec := MemorySpec{Name: parts[0]}
	var err error
	if spec.Size, err = strconv.Atoi(parts[1]); err != nil || spec.Size < 0 {
		return MemorySpec{}, fmt.Errorf("memory %q: invalid size %q", s, parts[1])
	}
	if spec.Width, err = strconv.Atoi(parts[2]); err != nil || spec.Width <= 0 || spec.Width > 32 {
		return MemorySpec{}, fmt.Errorf("memory %q: invalid width %q", s, parts[2])
	}
	if len(parts) == 4 {
		fill, err := strconv.ParseUint(parts[3], 10, 32)
		if err != nil {
			return MemorySpec{}, fmt.Errorf("memory %q: invalid fill value %q", s, parts[3])
		}
		spec.Fill = uint32(fill)
		spec.HasFill = true
	}

	return spec, nil
}

// String formats spec in the syntax accepted by ParseMemorySpec.
func (spec MemorySpec) String() string {
	s := fmt.Sprintf("%s:%d:%d", spec.Name, spec.Size, spec.Width)
	if spec.HasFill {
		s += ":" + strconv.FormatUint(uint64(spec.Fill), 10)
	}
	return s
}

// Memory returns the memory described by spec: Size cells of Fill (or 0).
func (spec MemorySpec) Memory() Memory {
	data := make([]uint32, spec.Size)
	for i := range data {
		data[i] = spec.Fill
	}
	return Memory{Data: data, Format: BitNum(spec.Width)}
}

// MemorySpecs is a repeatable command-line flag of memory specs.
type MemorySpecs []MemorySpec

// String returns the specs joined by commas.
func (specs *MemorySpecs) String() string {
	parts := make([]string, len(*specs))
	for i, spec := range *specs {
		parts[i] = spec.String()
	}
	return strings.Join(parts, ",")
}

// Set parses and appends one spec.
func (specs *MemorySpecs) Set(s string) error {
	spec, err := ParseMemorySpec(s)
	if err != nil {
		return err
	}
	*specs = append(*specs, spec)
	return nil
}

// Type names the flag value type.
func (specs *MemorySpecs) Type() string {
	return "name:size:width[:fill]"
}
