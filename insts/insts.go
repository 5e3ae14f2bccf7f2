// Package insts provides RV32I instruction definitions, decoding and
// mnemonic rendering.
package insts

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // Register-register
	FormatI              // Immediate, load, jalr and system
	FormatS              // Store
	FormatB              // Branch
	FormatU              // Upper immediate
	FormatJ              // Jump
)

var formatNames = [...]string{
	FormatUnknown: "?",
	FormatR:       "R",
	FormatI:       "I",
	FormatS:       "S",
	FormatB:       "B",
	FormatU:       "U",
	FormatJ:       "J",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return formatNames[FormatUnknown]
}

// Major opcodes, bits [6:0] of every instruction word.
const (
	OpcodeLoad   uint8 = 0b0000011
	OpcodeOpImm  uint8 = 0b0010011
	OpcodeAUIPC  uint8 = 0b0010111 // rendered, but not accepted by Decode
	OpcodeStore  uint8 = 0b0100011
	OpcodeOp     uint8 = 0b0110011
	OpcodeLUI    uint8 = 0b0110111
	OpcodeBranch uint8 = 0b1100011
	OpcodeJALR   uint8 = 0b1100111
	OpcodeJAL    uint8 = 0b1101111
	OpcodeSystem uint8 = 0b1110011
)

// Instruction is a decoded instruction word. It is implemented only by the
// six format types of this package: *RInst, *IInst, *SInst, *BInst, *UInst
// and *JInst.
type Instruction interface {
	// Type reports the encoding format.
	Type() Format
	// Opcode returns bits [6:0].
	Opcode() uint8
	// String renders the instruction with the default formatter.
	String() string

	sealed()
}

// RInst is a register-register instruction.
type RInst struct {
	Op     uint8 // bits [6:0]
	Rd     uint8 // bits [11:7]
	Funct3 uint8 // bits [14:12]
	Rs1    uint8 // bits [19:15]
	Rs2    uint8 // bits [24:20]
	Funct7 uint8 // bits [31:25]
}

// IInst is an immediate, load, jalr or system instruction.
type IInst struct {
	Op     uint8  // bits [6:0]
	Rd     uint8  // bits [11:7]
	Funct3 uint8  // bits [14:12]
	Rs1    uint8  // bits [19:15]
	Imm    uint16 // bits [31:20], not sign-extended
}

// SInst is a store instruction.
//
// ImmHi holds bits [30:25] only; the top immediate bit lives in Sign.
type SInst struct {
	Op     uint8 // bits [6:0]
	ImmLo  uint8 // bits [11:7]
	Funct3 uint8 // bits [14:12]
	Rs1    uint8 // bits [19:15]
	Rs2    uint8 // bits [24:20]
	ImmHi  uint8 // bits [30:25]
	Sign   uint8 // bit 31
}

// BInst is a conditional branch. ImmLo and ImmHi are the raw encoded
// fields; use Offset for the branch displacement.
type BInst struct {
	Op     uint8 // bits [6:0]
	ImmLo  uint8 // bits [11:7]
	Funct3 uint8 // bits [14:12]
	Rs1    uint8 // bits [19:15]
	Rs2    uint8 // bits [24:20]
	ImmHi  uint8 // bits [31:25]
}

// UInst is an upper-immediate instruction.
type UInst struct {
	Op  uint8  // bits [6:0]
	Rd  uint8  // bits [11:7]
	Imm uint32 // bits [31:12]
}

// JInst is an unconditional jump. Imm is the raw encoded field; use Offset
// for the jump displacement.
type JInst struct {
	Op  uint8  // bits [6:0]
	Rd  uint8  // bits [11:7]
	Imm uint32 // bits [31:12]
}

func (*RInst) Type() Format { return FormatR }
func (*IInst) Type() Format { return FormatI }
func (*SInst) Type() Format { return FormatS }
func (*BInst) Type() Format { return FormatB }
func (*UInst) Type() Format { return FormatU }
func (*JInst) Type() Format { return FormatJ }

func (i *RInst) Opcode() uint8 { return i.Op }
func (i *IInst) Opcode() uint8 { return i.Op }
func (i *SInst) Opcode() uint8 { return i.Op }
func (i *BInst) Opcode() uint8 { return i.Op }
func (i *UInst) Opcode() uint8 { return i.Op }
func (i *JInst) Opcode() uint8 { return i.Op }

func (i *RInst) String() string { return defaultFormatter.Render(i) }
func (i *IInst) String() string { return defaultFormatter.Render(i) }
func (i *SInst) String() string { return defaultFormatter.Render(i) }
func (i *BInst) String() string { return defaultFormatter.Render(i) }
func (i *UInst) String() string { return defaultFormatter.Render(i) }
func (i *JInst) String() string { return defaultFormatter.Render(i) }

func (*RInst) sealed() {}
func (*IInst) sealed() {}
func (*SInst) sealed() {}
func (*BInst) sealed() {}
func (*UInst) sealed() {}
func (*JInst) sealed() {}

// Offset returns the reassembled 12-bit store displacement.
func (i *SInst) Offset() Immediate { return StoreImm(i.ImmLo, i.ImmHi, i.Sign) }

// Offset returns the reassembled 13-bit branch displacement.
func (i *BInst) Offset() Immediate { return BranchImm(i.ImmLo, i.ImmHi) }

// Offset returns the reassembled 21-bit jump displacement.
func (i *JInst) Offset() Immediate { return JumpImm(i.Imm) }
