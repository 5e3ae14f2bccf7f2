package insts_test

import (
	"errors"
	"sync"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/calyxir/calyx-riscv/insts"
)

var recognized = map[uint8]insts.Format{
	0b0110011: insts.FormatR,
	0b0010011: insts.FormatI,
	0b0000011: insts.FormatI,
	0b0100011: insts.FormatS,
	0b1100011: insts.FormatB,
	0b1101111: insts.FormatJ,
	0b1100111: insts.FormatI,
	0b0110111: insts.FormatU,
	0b1110011: insts.FormatI,
}

// highBits are settings of bits [31:7] used to sweep the opcode table.
var highBits = []uint32{
	0x00000000, 0xFFFFFF80, 0x12345680, 0xDEADBE80, 0x80000000, 0x00000080,
}

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("R-type", func() {
		// add x1, x2, x3     -> 0x003100B3
		// Encoding: funct7=0, rs2=3, rs1=2, funct3=0, rd=1, opcode=0110011
		It("should decode add x1, x2, x3", func() {
			inst, err := decoder.Decode(0x003100B3)

			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.Diff(&insts.RInst{
				Op: 0b0110011, Rd: 1, Funct3: 0, Rs1: 2, Rs2: 3, Funct7: 0,
			}, inst)).To(BeEmpty())
		})

		// sra x10, x11, x12  -> 0x40C5D533
		// Encoding: funct7=0100000, rs2=12, rs1=11, funct3=5, rd=10
		It("should decode sra x10, x11, x12", func() {
			inst, err := decoder.Decode(0x40C5D533)

			Expect(err).NotTo(HaveOccurred())
			r := inst.(*insts.RInst)
			Expect(r.Type()).To(Equal(insts.FormatR))
			Expect(r.Rd).To(Equal(uint8(10)))
			Expect(r.Rs1).To(Equal(uint8(11)))
			Expect(r.Rs2).To(Equal(uint8(12)))
			Expect(r.Funct3).To(Equal(uint8(5)))
			Expect(r.Funct7).To(Equal(uint8(0x20)))
		})

		It("should decode the all-zero R word", func() {
			inst, err := decoder.Decode(0x00000033)

			Expect(err).NotTo(HaveOccurred())
			r := inst.(*insts.RInst)
			Expect(r.Funct3).To(BeZero())
			Expect(r.Funct7).To(BeZero())
		})
	})

	Describe("I-type", func() {
		// addi x1, x2, -1    -> 0xFFF10093
		// Encoding: imm=0xFFF, rs1=2, funct3=0, rd=1, opcode=0010011
		It("should keep the raw 12-bit immediate", func() {
			inst, err := decoder.Decode(0xFFF10093)

			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.Diff(&insts.IInst{
				Op: 0b0010011, Rd: 1, Funct3: 0, Rs1: 2, Imm: 0xFFF,
			}, inst)).To(BeEmpty())
		})

		// lw x5, 8(x2)       -> 0x00812283
		It("should decode loads as I-type", func() {
			inst, err := decoder.Decode(0x00812283)

			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.Diff(&insts.IInst{
				Op: 0b0000011, Rd: 5, Funct3: 2, Rs1: 2, Imm: 8,
			}, inst)).To(BeEmpty())
		})

		// jalr x0, 0(x1)     -> 0x00008067
		It("should decode jalr as I-type", func() {
			inst, err := decoder.Decode(0x00008067)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Type()).To(Equal(insts.FormatI))
			Expect(inst.Opcode()).To(Equal(insts.OpcodeJALR))
		})

		// ebreak             -> 0x00100073
		It("should decode system instructions as I-type", func() {
			inst, err := decoder.Decode(0x00100073)

			Expect(err).NotTo(HaveOccurred())
			i := inst.(*insts.IInst)
			Expect(i.Op).To(Equal(insts.OpcodeSystem))
			Expect(i.Imm).To(Equal(uint16(1)))
		})
	})

	Describe("S-type", func() {
		// sb x5, -4(x10)     -> 0xFE550E23
		// Encoding: imm[11:5]=1111111, rs2=5, rs1=10, funct3=0, imm[4:0]=11100
		It("should split the immediate into ImmLo, ImmHi and Sign", func() {
			inst, err := decoder.Decode(0xFE550E23)

			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.Diff(&insts.SInst{
				Op: 0b0100011, ImmLo: 0b11100, Funct3: 0, Rs1: 10, Rs2: 5,
				ImmHi: 0b111111, Sign: 1,
			}, inst)).To(BeEmpty())
		})
	})

	Describe("B-type", func() {
		// beq x0, x0, 8      -> 0x00000463
		// Encoding: imm[12|10:5]=0, rs2=0, rs1=0, funct3=0, imm[4:1|11]=01000
		It("should keep the raw split fields", func() {
			inst, err := decoder.Decode(0x00000463)

			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.Diff(&insts.BInst{
				Op: 0b1100011, ImmLo: 0b01000, Funct3: 0, Rs1: 0, Rs2: 0, ImmHi: 0,
			}, inst)).To(BeEmpty())
			Expect(inst.(*insts.BInst).Offset().Uint()).To(Equal(uint32(8)))
		})

		// bne x1, x2, -4     -> 0xFE209EE3
		It("should reassemble a backward branch", func() {
			inst, err := decoder.Decode(0xFE209EE3)

			Expect(err).NotTo(HaveOccurred())
			b := inst.(*insts.BInst)
			Expect(b.ImmHi).To(Equal(uint8(0x7F)))
			Expect(b.ImmLo).To(Equal(uint8(0x1D)))
			Expect(b.Offset().Int()).To(Equal(int32(-4)))
		})
	})

	Describe("U-type", func() {
		// lui x5, 0x12345    -> 0x123452B7
		It("should decode lui", func() {
			inst, err := decoder.Decode(0x123452B7)

			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.Diff(&insts.UInst{Op: 0b0110111, Rd: 5, Imm: 0x12345}, inst)).To(BeEmpty())
		})
	})

	Describe("J-type", func() {
		// jal x0, -8         -> 0xFF9FF06F
		It("should keep the raw immediate field", func() {
			inst, err := decoder.Decode(0xFF9FF06F)

			Expect(err).NotTo(HaveOccurred())
			j := inst.(*insts.JInst)
			Expect(j.Rd).To(BeZero())
			Expect(j.Imm).To(Equal(uint32(0xFF9FF)))
			Expect(j.Offset().Int()).To(Equal(int32(-8)))
		})
	})

	Describe("Unknown opcodes", func() {
		It("should reject 0xFFFFFFFF", func() {
			inst, err := decoder.Decode(0xFFFFFFFF)

			Expect(inst).To(BeNil())
			Expect(err).To(MatchError(insts.ErrUnknownOpcode))

			var opErr *insts.UnknownOpcodeError
			Expect(errors.As(err, &opErr)).To(BeTrue())
			Expect(opErr.Opcode).To(Equal(uint8(0x7F)))
			Expect(err.Error()).To(Equal("unknown opcode 0b1111111"))
		})

		// auipc x1, 0        -> 0x00000097
		It("should reject auipc", func() {
			_, err := decoder.Decode(0x00000097)
			Expect(err).To(MatchError(insts.ErrUnknownOpcode))
		})
	})

	Describe("Opcode table", func() {
		It("should classify every opcode for every setting of the other bits", func() {
			for op := uint32(0); op < 128; op++ {
				for _, hi := range highBits {
					word := hi | op
					inst, err := decoder.Decode(word)

					format, ok := recognized[uint8(op)]
					if !ok {
						var opErr *insts.UnknownOpcodeError
						Expect(errors.As(err, &opErr)).To(BeTrue(), "opcode %07b", op)
						Expect(opErr.Opcode).To(Equal(uint8(op)))
						continue
					}

					Expect(err).NotTo(HaveOccurred(), "opcode %07b", op)
					Expect(inst.Type()).To(Equal(format), "opcode %07b", op)
					Expect(inst.Opcode()).To(Equal(uint8(op)))
				}
			}
		})

		It("should extract fields at their documented positions", func() {
			for _, hi := range highBits {
				word := hi | uint32(insts.OpcodeOp)
				inst, err := decoder.Decode(word)
				Expect(err).NotTo(HaveOccurred())

				r := inst.(*insts.RInst)
				Expect(r.Rd).To(Equal(uint8(word >> 7 & 0x1F)))
				Expect(r.Funct3).To(Equal(uint8(word >> 12 & 0x7)))
				Expect(r.Rs1).To(Equal(uint8(word >> 15 & 0x1F)))
				Expect(r.Rs2).To(Equal(uint8(word >> 20 & 0x1F)))
				Expect(r.Funct7).To(Equal(uint8(word >> 25)))

				word = hi | uint32(insts.OpcodeStore)
				inst, err = decoder.Decode(word)
				Expect(err).NotTo(HaveOccurred())

				s := inst.(*insts.SInst)
				Expect(s.ImmLo).To(Equal(uint8(word >> 7 & 0x1F)))
				Expect(s.ImmHi).To(Equal(uint8(word >> 25 & 0x3F)))
				Expect(s.Sign).To(Equal(uint8(word >> 31)))

				word = hi | uint32(insts.OpcodeJAL)
				inst, err = decoder.Decode(word)
				Expect(err).NotTo(HaveOccurred())
				Expect(inst.(*insts.JInst).Imm).To(Equal(word >> 12))
			}
		})
	})

	Describe("DecodeBytes", func() {
		It("should decode a little-endian stream", func() {
			out, err := decoder.DecodeBytes([]byte{
				0x33, 0x00, 0x00, 0x00, // add x0, x0, x0
				0x13, 0x00, 0x00, 0x00, // addi x0, x0, 0
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(2))
			Expect(out[0].Type()).To(Equal(insts.FormatR))
			Expect(out[1].Type()).To(Equal(insts.FormatI))
		})

		It("should reject a partial word", func() {
			_, err := decoder.DecodeBytes([]byte{0x33, 0x00, 0x00})
			Expect(err).To(HaveOccurred())
		})

		It("should name the word with an unknown opcode", func() {
			_, err := decoder.DecodeBytes([]byte{
				0x33, 0x00, 0x00, 0x00,
				0xFF, 0xFF, 0xFF, 0xFF,
			})

			Expect(err).To(MatchError(insts.ErrUnknownOpcode))
			Expect(err.Error()).To(ContainSubstring("word 1"))
		})
	})

	It("should be safe for concurrent use", func() {
		var wg sync.WaitGroup
		results := make([]string, 16)
		for n := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				inst, err := decoder.Decode(0x00000463)
				if err == nil {
					results[n] = inst.String()
				}
			}()
		}
		wg.Wait()

		for _, got := range results {
			Expect(got).To(Equal("beq x0, x0, 8"))
		}
	})
})
