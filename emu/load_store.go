// Package emu provides functional CHIP-8 emulation.
package emu

// LoadStoreUnit implements the CHIP-8 memory transfers addressed by I.
// Reads may touch any address up to MaxAddress; writes are limited to the
// program space so the interpreter area stays intact.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// checkRead validates a read of n bytes at I.
func (lsu *LoadStoreUnit) checkRead(addr uint16, n int) error {
	end := uint32(lsu.regFile.I) + uint32(n)
	if n > 0 && end-1 > MaxAddress {
		return &AccessError{Addr: addr, Target: end - 1, Kind: AccessRead}
	}
	return nil
}

// checkWrite validates a write of n bytes at I.
func (lsu *LoadStoreUnit) checkWrite(addr uint16, n int) error {
	start := uint32(lsu.regFile.I)
	if start < ProgramStart {
		return &AccessError{Addr: addr, Target: start, Kind: AccessWrite}
	}
	if end := start + uint32(n) - 1; end > MaxAddress {
		return &AccessError{Addr: addr, Target: end, Kind: AccessWrite}
	}
	return nil
}

// Sprite returns the n sprite rows starting at I.
func (lsu *LoadStoreUnit) Sprite(addr uint16, n uint8) ([]byte, error) {
	if err := lsu.checkRead(addr, int(n)); err != nil {
		return nil, err
	}
	return lsu.memory.Slice(lsu.regFile.I, int(n)), nil
}

// BCD stores the hundreds, tens and ones digits of Vx at I, I+1 and I+2.
func (lsu *LoadStoreUnit) BCD(addr uint16, x uint8) error {
	if err := lsu.checkWrite(addr, 3); err != nil {
		return err
	}
	vx := lsu.regFile.ReadReg(x)
	i := lsu.regFile.I
	lsu.memory.Write8(i, vx/100)
	lsu.memory.Write8(i+1, (vx/10)%10)
	lsu.memory.Write8(i+2, vx%10)
	return nil
}

// Store copies V0..Vx to memory starting at I, then advances I by x+1.
func (lsu *LoadStoreUnit) Store(addr uint16, x uint8) error {
	n := int(x) + 1
	if err := lsu.checkWrite(addr, n); err != nil {
		return err
	}
	for r := 0; r < n; r++ {
		lsu.memory.Write8(lsu.regFile.I+uint16(r), lsu.regFile.V[r])
	}
	lsu.regFile.I += uint16(n)
	return nil
}

// Load copies memory starting at I into V0..Vx, then advances I by x+1.
func (lsu *LoadStoreUnit) Load(addr uint16, x uint8) error {
	n := int(x) + 1
	if err := lsu.checkRead(addr, n); err != nil {
		return err
	}
	for r := 0; r < n; r++ {
		lsu.regFile.V[r] = lsu.memory.Read8(lsu.regFile.I + uint16(r))
	}
	lsu.regFile.I += uint16(n)
	return nil
}
