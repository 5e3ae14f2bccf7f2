package insts

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnknownOpcode is matched by every *UnknownOpcodeError.
var ErrUnknownOpcode = errors.New("unknown opcode")

// UnknownOpcodeError reports an instruction word whose bits [6:0] match
// none of the recognized major opcodes.
type UnknownOpcodeError struct {
	Opcode uint8
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0b%07b", e.Opcode)
}

// Is reports whether target is ErrUnknownOpcode.
func (e *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}

// Decoder decodes RV32I machine code into instructions.
// The zero value is ready to use and safe for concurrent use.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

var defaultDecoder Decoder

// Decode decodes word with a zero Decoder.
func Decode(word uint32) (Instruction, error) {
	return defaultDecoder.Decode(word)
}

// Decode decodes a 32-bit instruction word. The format is chosen by the
// major opcode alone; an unrecognized opcode yields *UnknownOpcodeError.
func (d *Decoder) Decode(word uint32) (Instruction, error) {
	opcode := Extract[uint8](word, 0, 6)

	switch opcode {
	case OpcodeOp:
		return d.decodeR(word), nil
	case OpcodeOpImm, OpcodeLoad, OpcodeJALR, OpcodeSystem:
		return d.decodeI(word), nil
	case OpcodeStore:
		return d.decodeS(word), nil
	case OpcodeBranch:
		return d.decodeB(word), nil
	case OpcodeLUI:
		return d.decodeU(word), nil
	case OpcodeJAL:
		return d.decodeJ(word), nil
	default:
		return nil, &UnknownOpcodeError{Opcode: opcode}
	}
}

// DecodeBytes decodes a little-endian stream of instruction words. The
// first word with an unknown opcode stops decoding.
func (d *Decoder) DecodeBytes(b []byte) ([]Instruction, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("instruction stream length %d is not a multiple of 4", len(b))
	}

	out := make([]Instruction, 0, len(b)/4)
	for i := 0; i < len(b); i += 4 {
		inst, err := d.Decode(binary.LittleEndian.Uint32(b[i:]))
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i/4, err)
		}
		out = append(out, inst)
	}

	return out, nil
}

// decodeR decodes a register-register instruction.
// Format: funct7 | rs2 | rs1 | funct3 | rd | opcode
func (d *Decoder) decodeR(word uint32) *RInst {
	return &RInst{
		Op:     Extract[uint8](word, 0, 6),
		Rd:     Extract[uint8](word, 7, 11),
		Funct3: Extract[uint8](word, 12, 14),
		Rs1:    Extract[uint8](word, 15, 19),
		Rs2:    Extract[uint8](word, 20, 24),
		Funct7: Extract[uint8](word, 25, 31),
	}
}

// decodeI decodes immediate, load, jalr and system instructions.
// Format: imm[11:0] | rs1 | funct3 | rd | opcode
func (d *Decoder) decodeI(word uint32) *IInst {
	return &IInst{
		Op:     Extract[uint8](word, 0, 6),
		Rd:     Extract[uint8](word, 7, 11),
		Funct3: Extract[uint8](word, 12, 14),
		Rs1:    Extract[uint8](word, 15, 19),
		Imm:    Extract[uint16](word, 20, 31),
	}
}

// decodeS decodes store instructions.
// Format: imm[11] | imm[10:5] | rs2 | rs1 | funct3 | imm[4:0] | opcode
func (d *Decoder) decodeS(word uint32) *SInst {
	return &SInst{
		Op:     Extract[uint8](word, 0, 6),
		ImmLo:  Extract[uint8](word, 7, 11),
		Funct3: Extract[uint8](word, 12, 14),
		Rs1:    Extract[uint8](word, 15, 19),
		Rs2:    Extract[uint8](word, 20, 24),
		ImmHi:  Extract[uint8](word, 25, 30),
		Sign:   Extract[uint8](word, 31, 31),
	}
}

// decodeB decodes conditional branches.
// Format: imm[12|10:5] | rs2 | rs1 | funct3 | imm[4:1|11] | opcode
func (d *Decoder) decodeB(word uint32) *BInst {
	return &BInst{
		Op:     Extract[uint8](word, 0, 6),
		ImmLo:  Extract[uint8](word, 7, 11),
		Funct3: Extract[uint8](word, 12, 14),
		Rs1:    Extract[uint8](word, 15, 19),
		Rs2:    Extract[uint8](word, 20, 24),
		ImmHi:  Extract[uint8](word, 25, 31),
	}
}

// decodeU decodes upper-immediate instructions.
// Format: imm[31:12] | rd | opcode
func (d *Decoder) decodeU(word uint32) *UInst {
	return &UInst{
		Op:  Extract[uint8](word, 0, 6),
		Rd:  Extract[uint8](word, 7, 11),
		Imm: Extract[uint32](word, 12, 31),
	}
}

// decodeJ decodes jal.
// Format: imm[20|10:1|11|19:12] | rd | opcode
func (d *Decoder) decodeJ(word uint32) *JInst {
	return &JInst{
		Op:  Extract[uint8](word, 0, 6),
		Rd:  Extract[uint8](word, 7, 11),
		Imm: Extract[uint32](word, 12, 31),
	}
}
