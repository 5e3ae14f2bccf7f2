package insts

// Immediate is an immediate value reassembled from its encoded fields.
// Bits holds the value right-aligned in Width bits, with the sign in bit
// Width-1.
type Immediate struct {
	Bits  uint32
	Width uint
}

// SignBit returns the position of the sign bit.
func (imm Immediate) SignBit() uint {
	return imm.Width - 1
}

// Uint returns the raw reassembled bit pattern.
func (imm Immediate) Uint() uint32 {
	return imm.Bits
}

// Int returns the value sign-extended from bit SignBit.
func (imm Immediate) Int() int32 {
	shift := 32 - imm.Width
	return int32(imm.Bits<<shift) >> shift
}

// IImm wraps the contiguous 12-bit I-type immediate.
func IImm(imm uint16) Immediate {
	return Immediate{Bits: uint32(imm) & 0xFFF, Width: 12}
}

// UImm wraps the contiguous 20-bit U-type immediate.
func UImm(imm uint32) Immediate {
	return Immediate{Bits: imm & 0xFFFFF, Width: 20}
}

// StoreImm reassembles the S-type displacement.
//
//	imm[4:0]  = immLo[4:0]  (inst[11:7])
//	imm[10:5] = immHi[5:0]  (inst[30:25])
//	imm[11]   = sign        (inst[31])
func StoreImm(immLo, immHi, sign uint8) Immediate {
	v := uint32(immLo)&0x1F |
		(uint32(immHi)&0x3F)<<5 |
		(uint32(sign)&1)<<11
	return Immediate{Bits: v, Width: 12}
}

// BranchImm reassembles the B-type displacement from the two raw fields.
// Branch targets are always even, so bit 0 is zero.
//
//	imm[4:1]  = immLo[4:1]  (inst[11:8])
//	imm[10:5] = immHi[5:0]  (inst[30:25])
//	imm[11]   = immLo[0]    (inst[7])
//	imm[12]   = immHi[6]    (inst[31])
func BranchImm(immLo, immHi uint8) Immediate {
	lo, hi := uint32(immLo), uint32(immHi)
	v := (lo>>1&0xF)<<1 |
		(hi&0x3F)<<5 |
		bit(lo, 0)<<11 |
		bit(hi, 6)<<12
	return Immediate{Bits: v, Width: 13}
}

// JumpImm reassembles the J-type displacement from the raw 20-bit field
// taken from inst[31:12]. Jump targets are always even, so bit 0 is zero.
//
//	imm[10:1]  = raw[18:9]  (inst[30:21])
//	imm[11]    = raw[8]     (inst[20])
//	imm[19:12] = raw[7:0]   (inst[19:12])
//	imm[20]    = raw[19]    (inst[31])
func JumpImm(raw uint32) Immediate {
	v := (raw>>9&0x3FF)<<1 |
		bit(raw, 8)<<11 |
		(raw&0xFF)<<12 |
		bit(raw, 19)<<20
	return Immediate{Bits: v, Width: 21}
}
