// Package loader provides ELF object loading for RISC-V code.
package loader

import (
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/akita/v4/mem/mem"
)

// TextSection is the name of the section holding instructions.
const TextSection = ".text"

// WordSize is the size of an instruction word in bytes.
const WordSize = 4

// ImageCapacity is the size of the program memory image: the full 32-bit
// address space. Storage is allocated lazily, so only touched pages cost
// memory.
const ImageCapacity = 1 << 32

var (
	// ErrNotRISCV is returned for ELF files built for another machine.
	ErrNotRISCV = errors.New("not a RISC-V ELF file")
	// ErrNoText is returned when the ELF file has no .text section.
	ErrNoText = errors.New("no .text section")
)

// Program is the code extracted from a RISC-V ELF file, staged in a
// program memory image at its link address.
type Program struct {
	// EntryPoint is the ELF entry address (0 for relocatable objects).
	EntryPoint uint64
	// Class is the ELF class, 32 or 64 bit.
	Class elf.Class
	// TextAddr is the address of the .text section in Image.
	TextAddr uint64
	// TextSize is the size of the .text section in bytes.
	TextSize uint64
	// Image holds the .text bytes at TextAddr.
	Image *mem.Storage
}

// Load parses a RISC-V ELF object or executable and stages its .text
// section in a program memory image.
func Load(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return load(f)
}

// LoadFile is like Load but reads the ELF file from r.
func LoadFile(r io.ReaderAt) (*Program, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ELF file: %w", err)
	}

	return load(f)
}

func load(f *elf.File) (*Program, error) {
	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("%w (machine type: %v)", ErrNotRISCV, f.Machine)
	}
	if f.Data != elf.ELFDATA2LSB {
		return nil, fmt.Errorf("unsupported byte order %v", f.Data)
	}

	text := f.Section(TextSection)
	if text == nil || text.Type == elf.SHT_NOBITS {
		return nil, ErrNoText
	}

	data, err := text.Data()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TextSection, err)
	}
	if uint64(len(data)) != text.Size {
		return nil, fmt.Errorf("short read for %s: got %d bytes, expected %d",
			TextSection, len(data), text.Size)
	}
	if text.Addr+text.Size > ImageCapacity {
		return nil, fmt.Errorf("%s at 0x%x does not fit in a 32-bit address space",
			TextSection, text.Addr)
	}

	prog := &Program{
		EntryPoint: f.Entry,
		Class:      f.Class,
		TextAddr:   text.Addr,
		TextSize:   text.Size,
		Image:      mem.NewStorage(ImageCapacity),
	}

	if len(data) > 0 {
		if err := prog.Image.Write(text.Addr, data); err != nil {
			return nil, fmt.Errorf("failed to stage %s at 0x%x: %w", TextSection, text.Addr, err)
		}
	}

	return prog, nil
}

// WordAt reads the little-endian instruction word at addr.
func (p *Program) WordAt(addr uint64) (uint32, error) {
	b, err := p.Image.Read(addr, WordSize)
	if err != nil {
		return 0, fmt.Errorf("failed to read word at 0x%x: %w", addr, err)
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Words returns the .text section as little-endian instruction words.
func (p *Program) Words() ([]uint32, error) {
	if p.TextSize%WordSize != 0 {
		return nil, fmt.Errorf("%s size %d is not a multiple of %d",
			TextSection, p.TextSize, WordSize)
	}

	words := make([]uint32, 0, p.TextSize/WordSize)
	for addr := p.TextAddr; addr < p.TextAddr+p.TextSize; addr += WordSize {
		w, err := p.WordAt(addr)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}

	return words, nil
}
