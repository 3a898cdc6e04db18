// Package emu provides functional CHIP-8 emulation.
package emu

// StackSize is the number of return addresses the call stack can hold.
const StackSize = 16

// Stack is the fixed-capacity call stack of return addresses.
type Stack struct {
	frames [StackSize]uint16
	depth  int
}

// Push pushes a return address. It returns false, leaving the stack
// unchanged, when the stack is full.
func (s *Stack) Push(addr uint16) bool {
	if s.depth == StackSize {
		return false
	}
	s.frames[s.depth] = addr
	s.depth++
	return true
}

// Pop pops the most recent return address. It returns false when the stack
// is empty.
func (s *Stack) Pop() (uint16, bool) {
	if s.depth == 0 {
		return 0, false
	}
	s.depth--
	return s.frames[s.depth], true
}

// Depth returns the number of frames on the stack.
func (s *Stack) Depth() int {
	return s.depth
}

// Frames returns a copy of the live frames, oldest first.
func (s *Stack) Frames() []uint16 {
	out := make([]uint16, s.depth)
	copy(out, s.frames[:s.depth])
	return out
}

// Reset empties the stack.
func (s *Stack) Reset() {
	*s = Stack{}
}
