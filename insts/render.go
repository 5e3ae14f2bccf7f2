package insts

import (
	"fmt"
	"strconv"
)

// operandForm selects how an I-type instruction lays out its operands.
type operandForm uint8

const (
	formRegImm  operandForm = iota // rd, rs1, imm
	formMemory                     // rd, imm(rs1)
	formNoArgs                     // no operands
	formShiftRA                    // rd, rs1, shamt with funct7 0b0100000
)

type rKey struct{ funct3, funct7 uint8 }

type iKey struct{ opcode, funct3 uint8 }

type iEntry struct {
	mnemonic string
	form     operandForm
}

var rMnemonics = map[rKey]string{
	{0x0, 0x00}: "add",
	{0x0, 0x20}: "sub",
	{0x4, 0x00}: "xor",
	{0x6, 0x00}: "or",
	{0x7, 0x00}: "and",
	{0x1, 0x00}: "sll",
	{0x5, 0x00}: "srl",
	{0x5, 0x20}: "sra",
	{0x2, 0x00}: "slt",
	{0x3, 0x00}: "sltu",
}

var iMnemonics = map[iKey]iEntry{
	{OpcodeOpImm, 0x0}: {"addi", formRegImm},
	{OpcodeOpImm, 0x4}: {"xori", formRegImm},
	{OpcodeOpImm, 0x6}: {"ori", formRegImm},
	{OpcodeOpImm, 0x7}: {"andi", formRegImm},
	{OpcodeOpImm, 0x1}: {"slli", formRegImm},
	{OpcodeOpImm, 0x5}: {"srli", formRegImm},
	{OpcodeOpImm, 0x2}: {"slti", formRegImm},
	{OpcodeOpImm, 0x3}: {"sltiu", formRegImm},

	{OpcodeLoad, 0x0}: {"lb", formMemory},
	{OpcodeLoad, 0x1}: {"lh", formMemory},
	{OpcodeLoad, 0x2}: {"lw", formMemory},
	{OpcodeLoad, 0x4}: {"lbu", formMemory},
	{OpcodeLoad, 0x5}: {"lhu", formMemory},

	{OpcodeJALR, 0x0}: {"jalr", formMemory},

	{OpcodeSystem, 0x0}: {"", formNoArgs},
}

// srai shares funct3 with srli and is told apart by imm[11:5].
var sraiEntry = iEntry{"srai", formShiftRA}

var systemMnemonics = map[uint16]string{
	0x000: "ecall",
	0x001: "ebreak",
}

var sMnemonics = map[uint8]string{
	0x0: "sb",
	0x1: "sh",
	0x2: "sw",
}

var bMnemonics = map[uint8]string{
	0x0: "beq",
	0x1: "bne",
	0x4: "blt",
	0x5: "bge",
	0x6: "bltu",
	0x7: "bgeu",
}

var uMnemonics = map[uint8]string{
	OpcodeLUI:   "lui",
	OpcodeAUIPC: "auipc",
}

var jMnemonics = map[uint8]string{
	OpcodeJAL: "jal",
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithABINames prints registers by calling-convention name (zero, ra, sp,
// ...) instead of x<n>.
func WithABINames() FormatterOption {
	return func(f *Formatter) {
		f.abiNames = true
	}
}

// WithSignedImmediates prints I, S, B and J immediates sign-extended.
// By default the raw reassembled bit pattern is printed as an unsigned
// decimal number.
func WithSignedImmediates() FormatterOption {
	return func(f *Formatter) {
		f.signed = true
	}
}

// Formatter renders instructions as assembly text. It is immutable after
// construction and safe for concurrent use.
type Formatter struct {
	abiNames bool
	signed   bool
}

// NewFormatter creates a Formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var defaultFormatter = NewFormatter()

// Render renders inst with the default formatter.
func Render(inst Instruction) string {
	return defaultFormatter.Render(inst)
}

// Render renders inst as assembly text. Encodings without a mnemonic are
// rendered as a dump of their raw fields, e.g. "S{Op:35 ImmLo:0 ...}".
func (f *Formatter) Render(inst Instruction) string {
	switch i := inst.(type) {
	case *RInst:
		return f.renderR(i)
	case *IInst:
		return f.renderI(i)
	case *SInst:
		return f.renderS(i)
	case *BInst:
		return f.renderB(i)
	case *UInst:
		return f.renderU(i)
	case *JInst:
		return f.renderJ(i)
	default:
		return fmt.Sprintf("%v", inst)
	}
}

func (f *Formatter) renderR(i *RInst) string {
	m, ok := rMnemonics[rKey{i.Funct3, i.Funct7}]
	if !ok {
		return dump(i.Type(), *i)
	}
	return fmt.Sprintf("%s %s, %s, %s", m, f.reg(i.Rd), f.reg(i.Rs1), f.reg(i.Rs2))
}

func (f *Formatter) renderI(i *IInst) string {
	e, ok := iMnemonics[iKey{i.Op, i.Funct3}]
	if !ok {
		return dump(i.Type(), *i)
	}

	imm := IImm(i.Imm)
	if e.mnemonic == "srli" && imm.Bits>>5 == 0b0100000 {
		e = sraiEntry
	}

	switch e.form {
	case formRegImm:
		return fmt.Sprintf("%s %s, %s, %s", e.mnemonic, f.reg(i.Rd), f.reg(i.Rs1), f.imm(imm))
	case formShiftRA:
		return fmt.Sprintf("%s %s, %s, %d", e.mnemonic, f.reg(i.Rd), f.reg(i.Rs1), imm.Bits&0x1F)
	case formMemory:
		return fmt.Sprintf("%s %s, %s(%s)", e.mnemonic, f.reg(i.Rd), f.imm(imm), f.reg(i.Rs1))
	case formNoArgs:
		if m, ok := systemMnemonics[i.Imm]; ok && i.Rd == 0 && i.Rs1 == 0 {
			return m
		}
	}
	return dump(i.Type(), *i)
}

func (f *Formatter) renderS(i *SInst) string {
	m, ok := sMnemonics[i.Funct3]
	if !ok {
		return dump(i.Type(), *i)
	}
	return fmt.Sprintf("%s %s, %s(%s)", m, f.reg(i.Rs2), f.imm(i.Offset()), f.reg(i.Rs1))
}

func (f *Formatter) renderB(i *BInst) string {
	m, ok := bMnemonics[i.Funct3]
	if !ok {
		return dump(i.Type(), *i)
	}
	return fmt.Sprintf("%s %s, %s, %s", m, f.reg(i.Rs1), f.reg(i.Rs2), f.imm(i.Offset()))
}

func (f *Formatter) renderU(i *UInst) string {
	m, ok := uMnemonics[i.Op]
	if !ok {
		return dump(i.Type(), *i)
	}
	// Upper immediates are a bit pattern, never sign-extended.
	return fmt.Sprintf("%s %s, %d", m, f.reg(i.Rd), UImm(i.Imm).Uint())
}

func (f *Formatter) renderJ(i *JInst) string {
	m, ok := jMnemonics[i.Op]
	if !ok {
		return dump(i.Type(), *i)
	}
	return fmt.Sprintf("%s %s, %s", m, f.reg(i.Rd), f.imm(i.Offset()))
}

func (f *Formatter) reg(r uint8) string {
	if f.abiNames {
		if name, ok := ABIName(r); ok {
			return name
		}
	}
	return RegisterName(r)
}

func (f *Formatter) imm(imm Immediate) string {
	if f.signed {
		return strconv.FormatInt(int64(imm.Int()), 10)
	}
	return strconv.FormatUint(uint64(imm.Uint()), 10)
}

// dump prints the raw fields of v prefixed by the format letter. v must be
// a struct value, not a pointer, so that fmt does not call String.
func dump(format Format, v any) string {
	return fmt.Sprintf("%s%+v", format, v)
}
