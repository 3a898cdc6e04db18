// Package emu provides functional CHIP-8 emulation.
package emu

import (
	"errors"
	"fmt"
)

// ErrProgramTooLarge is returned when a program image does not fit between
// ProgramStart and the end of memory.
var ErrProgramTooLarge = errors.New("program image exceeds available program space")

// ErrInstructionLimit is returned by Step once the configured maximum number of
// instructions has been executed.
var ErrInstructionLimit = errors.New("max instructions reached")

// DecodeError is returned when the instruction word at Addr does not decode to
// a CHIP-8 operation.
type DecodeError struct {
	Addr uint16
	Word uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unknown instruction %04X at PC=0x%03X", e.Word, e.Addr)
}

// StackOverflowError is returned when a CALL at Addr would exceed the stack
// capacity.
type StackOverflowError struct {
	Addr  uint16
	Depth int
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow at PC=0x%03X (depth %d)", e.Addr, e.Depth)
}

// StackUnderflowError is returned when a RET at Addr finds the stack empty.
type StackUnderflowError struct {
	Addr uint16
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("stack underflow at PC=0x%03X", e.Addr)
}

// AccessKind names the kind of access that faulted.
type AccessKind string

// Access kinds.
const (
	AccessFetch AccessKind = "fetch"
	AccessJump  AccessKind = "jump"
	AccessRead  AccessKind = "read"
	AccessWrite AccessKind = "write"
)

// AccessError is returned when the instruction at Addr touches Target in a way
// the machine does not allow: control transfer outside the program space or to
// an odd address, a write into the interpreter area, or any access past the
// end of memory.
type AccessError struct {
	Addr   uint16
	Target uint32
	Kind   AccessKind
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("invalid %s of 0x%03X at PC=0x%03X", e.Kind, e.Target, e.Addr)
}
