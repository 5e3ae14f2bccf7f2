package insts

import "strconv"

// NumRegisters is the number of integer registers.
const NumRegisters = 32

var abiNames = [NumRegisters]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"fp", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// ABIName returns the calling-convention name of register reg. Register 8
// is reported as "fp" rather than "s0". ok is false for reg >= 32.
func ABIName(reg uint8) (name string, ok bool) {
	if int(reg) >= NumRegisters {
		return "", false
	}
	return abiNames[reg], true
}

// RegisterName returns the architectural name "x<reg>".
func RegisterName(reg uint8) string {
	return "x" + strconv.Itoa(int(reg))
}
