// Package emu provides functional CHIP-8 emulation.
package emu

// RegFile represents the CHIP-8 register file.
// It contains 16 general-purpose 8-bit registers (V0-VF), the 16-bit index
// register (I) and the program counter (PC).
type RegFile struct {
	// V holds general-purpose registers V0-VF.
	// VF doubles as the carry, borrow and collision flag.
	V [16]uint8

	// I is the index register used for memory addressing.
	I uint16

	// PC is the program counter.
	PC uint16
}

// FlagReg is the index of VF.
const FlagReg = 0xF

// ReadReg reads register Vx.
func (r *RegFile) ReadReg(x uint8) uint8 {
	return r.V[x&0xF]
}

// WriteReg writes register Vx.
func (r *RegFile) WriteReg(x uint8, value uint8) {
	r.V[x&0xF] = value
}

// SetFlag writes VF as 1 when set is true and 0 otherwise.
func (r *RegFile) SetFlag(set bool) {
	if set {
		r.V[FlagReg] = 1
		return
	}
	r.V[FlagReg] = 0
}

// Reset zeroes all registers and points PC at ProgramStart.
func (r *RegFile) Reset() {
	*r = RegFile{PC: ProgramStart}
}
