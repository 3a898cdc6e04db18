// Package emu provides functional CHIP-8 emulation.
package emu

import "math/rand/v2"

// ALU implements CHIP-8 register loads, arithmetic and logic operations.
// Results wrap modulo 256. Where an operation reports a flag, VX is written
// first and VF last, so the flag wins when X is F.
type ALU struct {
	regFile *RegFile
	rng     *rand.Rand
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile, rng *rand.Rand) *ALU {
	return &ALU{regFile: regFile, rng: rng}
}

// LDImm performs Vx = kk.
func (a *ALU) LDImm(x, kk uint8) {
	a.regFile.WriteReg(x, kk)
}

// ADDImm performs Vx = Vx + kk without touching VF.
func (a *ALU) ADDImm(x, kk uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)+kk)
}

// LD performs Vx = Vy.
func (a *ALU) LD(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(y))
}

// OR performs Vx = Vx | Vy.
func (a *ALU) OR(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)|a.regFile.ReadReg(y))
}

// AND performs Vx = Vx & Vy.
func (a *ALU) AND(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)&a.regFile.ReadReg(y))
}

// XOR performs Vx = Vx ^ Vy.
func (a *ALU) XOR(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)^a.regFile.ReadReg(y))
}

// ADD performs Vx = Vx + Vy, VF = carry.
func (a *ALU) ADD(x, y uint8) {
	sum := uint16(a.regFile.ReadReg(x)) + uint16(a.regFile.ReadReg(y))
	a.regFile.WriteReg(x, uint8(sum))
	a.regFile.SetFlag(sum > 0xFF)
}

// SUB performs Vx = Vx - Vy, VF = 1 when no borrow occurred.
func (a *ALU) SUB(x, y uint8) {
	vx, vy := a.regFile.ReadReg(x), a.regFile.ReadReg(y)
	a.regFile.WriteReg(x, vx-vy)
	a.regFile.SetFlag(vx >= vy)
}

// SUBN performs Vx = Vy - Vx, VF = 1 when no borrow occurred.
func (a *ALU) SUBN(x, y uint8) {
	vx, vy := a.regFile.ReadReg(x), a.regFile.ReadReg(y)
	a.regFile.WriteReg(x, vy-vx)
	a.regFile.SetFlag(vy >= vx)
}

// SHR performs Vx = Vx >> 1, VF = the bit shifted out. Vy is not used.
func (a *ALU) SHR(x uint8) {
	vx := a.regFile.ReadReg(x)
	a.regFile.WriteReg(x, vx>>1)
	a.regFile.WriteReg(FlagReg, vx&0x01)
}

// SHL performs Vx = Vx << 1, VF = the bit shifted out. Vy is not used.
func (a *ALU) SHL(x uint8) {
	vx := a.regFile.ReadReg(x)
	a.regFile.WriteReg(x, vx<<1)
	a.regFile.WriteReg(FlagReg, vx>>7)
}

// RND performs Vx = random byte & kk.
func (a *ALU) RND(x, kk uint8) {
	a.regFile.WriteReg(x, uint8(a.rng.Uint32())&kk)
}
