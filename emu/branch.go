// Package emu provides functional CHIP-8 emulation.
package emu

// BranchUnit implements CHIP-8 jumps, calls, returns and skips.
// All operations run after PC has been advanced past the current instruction.
type BranchUnit struct {
	regFile *RegFile
	stack   *Stack
}

// NewBranchUnit creates a new BranchUnit connected to the given register file
// and call stack.
func NewBranchUnit(regFile *RegFile, stack *Stack) *BranchUnit {
	return &BranchUnit{regFile: regFile, stack: stack}
}

// JP jumps to target.
func (b *BranchUnit) JP(target uint16) {
	b.regFile.PC = target
}

// JPV0 jumps to target + V0.
func (b *BranchUnit) JPV0(target uint16) {
	b.regFile.PC = target + uint16(b.regFile.V[0])
}

// CALL pushes the return address and jumps to target.
// addr is the address of the CALL instruction, used for error reporting.
func (b *BranchUnit) CALL(addr, target uint16) error {
	if !b.stack.Push(b.regFile.PC) {
		return &StackOverflowError{Addr: addr, Depth: b.stack.Depth()}
	}
	b.regFile.PC = target
	return nil
}

// RET pops the return address into PC.
// addr is the address of the RET instruction, used for error reporting.
func (b *BranchUnit) RET(addr uint16) error {
	ret, ok := b.stack.Pop()
	if !ok {
		return &StackUnderflowError{Addr: addr}
	}
	b.regFile.PC = ret
	return nil
}

// SkipIf skips the next instruction when cond holds.
func (b *BranchUnit) SkipIf(cond bool) {
	if cond {
		b.regFile.PC += 2
	}
}
