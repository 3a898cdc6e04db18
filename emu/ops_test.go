package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/emu"
)

// opCase describes one instruction executed at 0x200 from a prepared state.
type opCase struct {
	setup func(e *emu.Emulator)
	check func(e *emu.Emulator)
}

var _ = Describe("Instruction semantics", func() {
	var e *emu.Emulator

	BeforeEach(func() {
		e = emu.NewEmulator(emu.WithRandSource(fixedSource(0xAB << 32)))
	})

	run := func(word uint16, c opCase) {
		Expect(e.LoadProgram(program(word, 0x0000, 0x0000))).To(Succeed())
		if c.setup != nil {
			c.setup(e)
		}
		result := e.Step()
		Expect(result.Err).NotTo(HaveOccurred())
		c.check(e)
	}

	regs := func(e *emu.Emulator) *emu.RegFile { return e.RegFile() }

	DescribeTable("post-state",
		run,
		Entry("00EE RET pops the return address", uint16(0x00EE), opCase{
			setup: func(e *emu.Emulator) { e.Stack().Push(0x2A4) },
			check: func(e *emu.Emulator) {
				Expect(regs(e).PC).To(Equal(uint16(0x2A4)))
				Expect(e.Stack().Depth()).To(Equal(0))
			},
		}),
		Entry("1NNN JP", uint16(0x1ABC), opCase{
			check: func(e *emu.Emulator) { Expect(regs(e).PC).To(Equal(uint16(0xABC))) },
		}),
		Entry("2NNN CALL pushes the next address", uint16(0x2ABC), opCase{
			check: func(e *emu.Emulator) {
				Expect(regs(e).PC).To(Equal(uint16(0xABC)))
				Expect(e.Stack().Frames()).To(Equal([]uint16{0x202}))
			},
		}),
		Entry("3XKK SE skips when equal", uint16(0x3342), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[3] = 0x42 },
			check: func(e *emu.Emulator) { Expect(regs(e).PC).To(Equal(uint16(0x204))) },
		}),
		Entry("3XKK SE falls through when different", uint16(0x3342), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[3] = 0x41 },
			check: func(e *emu.Emulator) { Expect(regs(e).PC).To(Equal(uint16(0x202))) },
		}),
		Entry("4XKK SNE skips when different", uint16(0x4342), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[3] = 0x41 },
			check: func(e *emu.Emulator) { Expect(regs(e).PC).To(Equal(uint16(0x204))) },
		}),
		Entry("4XKK SNE falls through when equal", uint16(0x4342), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[3] = 0x42 },
			check: func(e *emu.Emulator) { Expect(regs(e).PC).To(Equal(uint16(0x202))) },
		}),
		Entry("5XY0 SE skips when registers match", uint16(0x5120), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2] = 7, 7 },
			check: func(e *emu.Emulator) { Expect(regs(e).PC).To(Equal(uint16(0x204))) },
		}),
		Entry("9XY0 SNE skips when registers differ", uint16(0x9120), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2] = 7, 8 },
			check: func(e *emu.Emulator) { Expect(regs(e).PC).To(Equal(uint16(0x204))) },
		}),
		Entry("9XY0 SNE falls through when registers match", uint16(0x9120), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2] = 7, 7 },
			check: func(e *emu.Emulator) { Expect(regs(e).PC).To(Equal(uint16(0x202))) },
		}),
		Entry("6XKK LD", uint16(0x6A2F), opCase{
			check: func(e *emu.Emulator) { Expect(regs(e).V[0xA]).To(Equal(uint8(0x2F))) },
		}),
		Entry("7XKK ADD wraps without touching VF", uint16(0x7102), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[0xF] = 0xFF, 0x55 },
			check: func(e *emu.Emulator) {
				Expect(regs(e).V[1]).To(Equal(uint8(0x01)))
				Expect(regs(e).V[0xF]).To(Equal(uint8(0x55)))
			},
		}),
		Entry("8XY0 LD", uint16(0x8120), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[2] = 0x99 },
			check: func(e *emu.Emulator) { Expect(regs(e).V[1]).To(Equal(uint8(0x99))) },
		}),
		Entry("8XY1 OR leaves VF", uint16(0x8121), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2], regs(e).V[0xF] = 0xF0, 0x0C, 0x77 },
			check: func(e *emu.Emulator) {
				Expect(regs(e).V[1]).To(Equal(uint8(0xFC)))
				Expect(regs(e).V[0xF]).To(Equal(uint8(0x77)))
			},
		}),
		Entry("8XY2 AND", uint16(0x8122), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2] = 0xF0, 0x3C },
			check: func(e *emu.Emulator) { Expect(regs(e).V[1]).To(Equal(uint8(0x30))) },
		}),
		Entry("8XY3 XOR", uint16(0x8123), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2] = 0xF0, 0x3C },
			check: func(e *emu.Emulator) { Expect(regs(e).V[1]).To(Equal(uint8(0xCC))) },
		}),
		Entry("8XY4 ADD sets carry", uint16(0x8124), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2] = 0xF0, 0x20 },
			check: func(e *emu.Emulator) {
				Expect(regs(e).V[1]).To(Equal(uint8(0x10)))
				Expect(regs(e).V[0xF]).To(Equal(uint8(1)))
			},
		}),
		Entry("8XY5 SUB without borrow sets VF", uint16(0x8125), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2] = 0x30, 0x10 },
			check: func(e *emu.Emulator) {
				Expect(regs(e).V[1]).To(Equal(uint8(0x20)))
				Expect(regs(e).V[0xF]).To(Equal(uint8(1)))
			},
		}),
		Entry("8XY5 SUB with borrow clears VF and wraps", uint16(0x8125), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2] = 0x10, 0x30 },
			check: func(e *emu.Emulator) {
				Expect(regs(e).V[1]).To(Equal(uint8(0xE0)))
				Expect(regs(e).V[0xF]).To(Equal(uint8(0)))
			},
		}),
		Entry("8XY5 SUB of equal values sets VF", uint16(0x8125), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2] = 0x10, 0x10 },
			check: func(e *emu.Emulator) {
				Expect(regs(e).V[1]).To(Equal(uint8(0)))
				Expect(regs(e).V[0xF]).To(Equal(uint8(1)))
			},
		}),
		Entry("8XY7 SUBN without borrow sets VF", uint16(0x8127), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2] = 0x10, 0x30 },
			check: func(e *emu.Emulator) {
				Expect(regs(e).V[1]).To(Equal(uint8(0x20)))
				Expect(regs(e).V[0xF]).To(Equal(uint8(1)))
			},
		}),
		Entry("8XY7 SUBN with borrow clears VF", uint16(0x8127), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2] = 0x30, 0x10 },
			check: func(e *emu.Emulator) {
				Expect(regs(e).V[1]).To(Equal(uint8(0xE0)))
				Expect(regs(e).V[0xF]).To(Equal(uint8(0)))
			},
		}),
		Entry("8XY6 SHR shifts VX in place and ignores VY", uint16(0x8126), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2] = 0x05, 0xF0 },
			check: func(e *emu.Emulator) {
				Expect(regs(e).V[1]).To(Equal(uint8(0x02)))
				Expect(regs(e).V[2]).To(Equal(uint8(0xF0)))
				Expect(regs(e).V[0xF]).To(Equal(uint8(1)))
			},
		}),
		Entry("8XYE SHL shifts VX in place and ignores VY", uint16(0x812E), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[1], regs(e).V[2] = 0x81, 0x01 },
			check: func(e *emu.Emulator) {
				Expect(regs(e).V[1]).To(Equal(uint8(0x02)))
				Expect(regs(e).V[0xF]).To(Equal(uint8(1)))
			},
		}),
		Entry("8FY4 ADD into VF keeps the carry", uint16(0x8F14), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[0xF], regs(e).V[1] = 0x01, 0x02 },
			check: func(e *emu.Emulator) { Expect(regs(e).V[0xF]).To(Equal(uint8(0))) },
		}),
		Entry("ANNN LD I", uint16(0xA123), opCase{
			check: func(e *emu.Emulator) { Expect(regs(e).I).To(Equal(uint16(0x123))) },
		}),
		Entry("BNNN JP V0 adds V0", uint16(0xB300), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[0] = 0x10 },
			check: func(e *emu.Emulator) { Expect(regs(e).PC).To(Equal(uint16(0x310))) },
		}),
		Entry("CXKK RND masks the random byte", uint16(0xC30F), opCase{
			check: func(e *emu.Emulator) { Expect(regs(e).V[3]).To(Equal(uint8(0x0B))) },
		}),
		Entry("EX9E SKP skips when the key is held", uint16(0xE49E), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[4] = 0xA; e.Keypad().Press(0xA) },
			check: func(e *emu.Emulator) { Expect(regs(e).PC).To(Equal(uint16(0x204))) },
		}),
		Entry("EX9E SKP uses the low nibble of VX", uint16(0xE49E), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[4] = 0x1A; e.Keypad().Press(0xA) },
			check: func(e *emu.Emulator) { Expect(regs(e).PC).To(Equal(uint16(0x204))) },
		}),
		Entry("EXA1 SKNP skips when the key is up", uint16(0xE4A1), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[4] = 0xA },
			check: func(e *emu.Emulator) { Expect(regs(e).PC).To(Equal(uint16(0x204))) },
		}),
		Entry("EXA1 SKNP falls through when the key is held", uint16(0xE4A1), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[4] = 0xA; e.Keypad().Press(0xA) },
			check: func(e *emu.Emulator) { Expect(regs(e).PC).To(Equal(uint16(0x202))) },
		}),
		Entry("FX15 then FX07 round-trips the delay timer", uint16(0xF215), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[2] = 0x33 },
			check: func(e *emu.Emulator) {
				Expect(e.Timers().Delay()).To(Equal(uint8(0x33)))
				e.TickTimers()
				e.Memory().Write16(0x202, 0xF307)
				Expect(e.Step().Err).NotTo(HaveOccurred())
				Expect(regs(e).V[3]).To(Equal(uint8(0x32)))
			},
		}),
		Entry("FX18 LD ST", uint16(0xF218), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[2] = 0x09 },
			check: func(e *emu.Emulator) { Expect(e.Timers().Sound()).To(Equal(uint8(0x09))) },
		}),
		Entry("FX1E ADD I leaves VF alone past 0xFFF", uint16(0xF21E), opCase{
			setup: func(e *emu.Emulator) { regs(e).I, regs(e).V[2], regs(e).V[0xF] = 0xFFF, 0x02, 0x00 },
			check: func(e *emu.Emulator) {
				Expect(regs(e).I).To(Equal(uint16(0x1001)))
				Expect(regs(e).V[0xF]).To(Equal(uint8(0)))
			},
		}),
		Entry("FX29 LD F points at the digit sprite", uint16(0xF229), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[2] = 0xA },
			check: func(e *emu.Emulator) { Expect(regs(e).I).To(Equal(uint16(emu.FontBase + 0xA*5))) },
		}),
		Entry("FX29 LD F uses the low nibble", uint16(0xF229), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[2] = 0x3A },
			check: func(e *emu.Emulator) { Expect(regs(e).I).To(Equal(uint16(emu.FontBase + 0xA*5))) },
		}),
		Entry("FX33 LD B stores decimal digits", uint16(0xF233), opCase{
			setup: func(e *emu.Emulator) { regs(e).V[2], regs(e).I = 254, 0x300 },
			check: func(e *emu.Emulator) {
				Expect(e.Memory().Slice(0x300, 3)).To(Equal([]byte{2, 5, 4}))
				Expect(regs(e).I).To(Equal(uint16(0x300)))
			},
		}),
		Entry("FX55 stores V0..VX and advances I", uint16(0xF255), opCase{
			setup: func(e *emu.Emulator) {
				regs(e).I = 0x300
				regs(e).V[0], regs(e).V[1], regs(e).V[2], regs(e).V[3] = 1, 2, 3, 4
			},
			check: func(e *emu.Emulator) {
				Expect(e.Memory().Slice(0x300, 4)).To(Equal([]byte{1, 2, 3, 0}))
				Expect(regs(e).I).To(Equal(uint16(0x303)))
			},
		}),
		Entry("FX65 loads V0..VX and advances I", uint16(0xF165), opCase{
			setup: func(e *emu.Emulator) {
				regs(e).I = 0x300
				e.Memory().Write16(0x300, 0x0A0B)
				e.Memory().Write8(0x302, 0x0C)
			},
			check: func(e *emu.Emulator) {
				Expect(regs(e).V[0]).To(Equal(uint8(0x0A)))
				Expect(regs(e).V[1]).To(Equal(uint8(0x0B)))
				Expect(regs(e).V[2]).To(Equal(uint8(0)))
				Expect(regs(e).I).To(Equal(uint16(0x302)))
			},
		}),
		Entry("FX65 may read the font area", uint16(0xF065), opCase{
			setup: func(e *emu.Emulator) { regs(e).I = emu.FontBase },
			check: func(e *emu.Emulator) { Expect(regs(e).V[0]).To(Equal(uint8(0xF0))) },
		}),
	)

	Describe("DXYN", func() {
		drawAt := func(x, y uint8, rows ...byte) {
			image := program(0xD010|uint16(len(rows)), 0x0000)
			image = append(image, rows...)
			Expect(e.LoadProgram(image)).To(Succeed())
			regs(e).V[0], regs(e).V[1] = x, y
			regs(e).I = 0x204
		}

		It("should draw a font digit and report no collision", func() {
			Expect(e.LoadProgram(program(0xF029, 0xD015))).To(Succeed())
			regs(e).V[0] = 0
			Expect(e.Step().Err).NotTo(HaveOccurred())

			result := e.Step()
			Expect(result.Redraw).To(BeTrue())
			frame := e.Display().Snapshot()
			Expect(frame[0][0:4]).To(Equal([]bool{true, true, true, true}))
			Expect(frame[1][0:4]).To(Equal([]bool{true, false, false, true}))
			Expect(regs(e).V[0xF]).To(Equal(uint8(0)))
		})

		It("should report a collision when a set pixel is cleared", func() {
			drawAt(10, 5, 0x80)
			e.Display().DrawSprite(10, 5, []byte{0x80})

			Expect(e.Step().Err).NotTo(HaveOccurred())
			Expect(e.Display().Pixel(10, 5)).To(BeFalse())
			Expect(regs(e).V[0xF]).To(Equal(uint8(1)))
		})

		It("should wrap the origin modulo the display size", func() {
			drawAt(64+3, 32+2, 0x80)

			Expect(e.Step().Err).NotTo(HaveOccurred())
			Expect(e.Display().Pixel(3, 2)).To(BeTrue())
		})

		It("should clip rows at the bottom edge", func() {
			drawAt(0, 30, 0x80, 0x80, 0x80, 0x80)

			Expect(e.Step().Err).NotTo(HaveOccurred())
			frame := e.Display().Snapshot()
			Expect(frame.Lit()).To(Equal(2))
			Expect(frame[0][0]).To(BeFalse())
		})
	})
})
