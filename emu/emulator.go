// Package emu provides functional CHIP-8 emulation.
package emu

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/sarchlab/c8sim/insts"
)

// StepResult represents the result of executing a single cycle.
type StepResult struct {
	// Redraw is true if the cycle changed the display.
	Redraw bool

	// Waiting is true while the machine is blocked on a key press.
	Waiting bool

	// Halted is true if execution cannot continue until Reset.
	Halted bool

	// Err is set if a fatal error stopped execution.
	Err error
}

// Emulator executes CHIP-8 instructions functionally.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	stack   *Stack
	timers  *Timers
	display *Display
	keypad  *Keypad
	decoder *insts.Decoder
	rng     *rand.Rand

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	// Pristine program image, re-copied on Reset
	program []byte

	// Key wait state
	waiting  bool
	waitReg  uint8
	waitKeys KeyState

	// Execution state
	lastInst         *insts.Instruction
	fault            error
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithRandSource sets the source used by RND.
func WithRandSource(src rand.Source) EmulatorOption {
	return func(e *Emulator) {
		e.rng = rand.New(src)
	}
}

// WithSeed seeds the source used by RND, making runs reproducible.
func WithSeed(seed uint64) EmulatorOption {
	return func(e *Emulator) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new CHIP-8 emulator with the font installed, PC at
// ProgramStart and everything else zeroed.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{PC: ProgramStart},
		memory:  NewMemory(),
		stack:   &Stack{},
		timers:  &Timers{},
		display: &Display{},
		keypad:  &Keypad{},
		decoder: insts.NewDecoder(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	// Create execution units
	e.alu = NewALU(e.regFile, e.rng)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile, e.stack)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Stack returns the emulator's call stack.
func (e *Emulator) Stack() *Stack {
	return e.stack
}

// Timers returns the emulator's delay and sound timers.
func (e *Emulator) Timers() *Timers {
	return e.timers
}

// Display returns the emulator's display buffer.
func (e *Emulator) Display() *Display {
	return e.display
}

// Keypad returns the key-state latch the host writes before each batch.
func (e *Emulator) Keypad() *Keypad {
	return e.keypad
}

// InstructionCount returns the number of instructions executed.
// Cycles spent waiting for a key are not counted.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LastInstruction returns the most recently executed instruction, or nil.
func (e *Emulator) LastInstruction() *insts.Instruction {
	return e.lastInst
}

// Waiting reports whether the machine is blocked on LD Vx, K.
func (e *Emulator) Waiting() bool {
	return e.waiting
}

// Fault returns the fatal error that halted the machine, or nil.
func (e *Emulator) Fault() error {
	return e.fault
}

// Program returns the loaded program image.
func (e *Emulator) Program() []byte {
	return e.program
}

// Finished reports whether PC has run off the end of the loaded image.
func (e *Emulator) Finished() bool {
	return e.fault == nil && int(e.regFile.PC) == ProgramStart+len(e.program)
}

// LoadProgram installs a program image and resets the machine to its
// post-load state.
func (e *Emulator) LoadProgram(image []byte) error {
	if len(image) > MaxProgramSize {
		return fmt.Errorf("loading %d bytes: %w", len(image), ErrProgramTooLarge)
	}
	e.program = append(e.program[:0], image...)
	e.Reset()
	return nil
}

// Reset restores the post-load state in place: memory zeroed, font and
// program re-copied, registers, stack, timers and keys cleared, PC at
// ProgramStart and the display cleared.
func (e *Emulator) Reset() {
	e.memory.Reset()
	e.memory.install(e.program)
	e.regFile.Reset()
	e.stack.Reset()
	e.timers.Reset()
	e.display.Clear()
	e.keypad.Reset()

	e.waiting = false
	e.waitReg = 0
	e.waitKeys = KeyState{}
	e.lastInst = nil
	e.fault = nil
	e.instructionCount = 0
}

// TickTimers decrements the delay and sound timers. The host calls it at the
// timer rate. It returns true if the sound timer was running during the tick.
func (e *Emulator) TickTimers() bool {
	return e.timers.Tick()
}

// SoundActive reports whether the beep should be playing.
func (e *Emulator) SoundActive() bool {
	return e.timers.SoundActive()
}

// Step executes a single cycle.
// Returns a StepResult indicating whether execution can continue.
func (e *Emulator) Step() StepResult {
	if e.fault != nil {
		return StepResult{Halted: true, Err: e.fault}
	}

	if e.waiting {
		return e.pollKey()
	}

	// Check instruction limit before executing
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Halted: true, Err: ErrInstructionLimit}
	}

	addr := e.regFile.PC

	// 1. Fetch
	if err := e.checkPC(addr, addr, AccessFetch); err != nil {
		return e.halt(addr, err)
	}
	word := e.memory.Read16(addr)
	e.regFile.PC += 2

	// 2. Decode
	inst := e.decoder.Decode(word)

	// Instructions that fall through at the last word would leave PC past
	// the end of memory after mutating state, so fault before executing.
	if fallsThrough(inst) {
		if err := e.checkPC(addr, e.regFile.PC, AccessFetch); err != nil {
			return e.halt(addr, err)
		}
	}

	// 3. Execute
	result := e.execute(addr, inst)
	if result.Err == nil {
		if err := e.checkPC(addr, e.regFile.PC, AccessJump); err != nil {
			result.Err = err
		}
	}
	if result.Err != nil {
		return e.halt(addr, result.Err)
	}

	e.lastInst = inst
	e.instructionCount++

	return result
}

// halt records a fatal error and restores PC to the faulting instruction.
func (e *Emulator) halt(addr uint16, err error) StepResult {
	e.regFile.PC = addr
	e.fault = err
	return StepResult{Halted: true, Err: err}
}

// checkPC validates that pc is an even address inside the program space.
func (e *Emulator) checkPC(addr, pc uint16, kind AccessKind) error {
	if pc < ProgramStart || pc > MaxAddress-1 || pc&1 != 0 {
		return &AccessError{Addr: addr, Target: uint32(pc), Kind: kind}
	}
	return nil
}

func fallsThrough(inst *insts.Instruction) bool {
	switch inst.Format {
	case insts.FormatFlow, insts.FormatSkip, insts.FormatUnknown:
		return false
	}
	return true
}

// pollKey resolves a pending LD Vx, K once a key goes from released to
// pressed. PC stays on the waiting instruction until then.
func (e *Emulator) pollKey() StepResult {
	keys := e.keypad.State()
	for k := range keys {
		if keys[k] && !e.waitKeys[k] {
			e.regFile.WriteReg(e.waitReg, uint8(k))
			e.regFile.PC += 2
			e.waiting = false
			return StepResult{}
		}
	}
	e.waitKeys = keys
	return StepResult{Waiting: true}
}

// execute dispatches and executes a decoded instruction. PC has already been
// advanced past it.
func (e *Emulator) execute(addr uint16, inst *insts.Instruction) StepResult {
	switch inst.Format {
	case insts.FormatDisplay:
		e.display.Clear()
		return StepResult{Redraw: true}
	case insts.FormatFlow:
		return StepResult{Err: e.executeFlow(addr, inst)}
	case insts.FormatSkip:
		e.executeSkip(inst)
	case insts.FormatALU:
		e.executeALU(inst)
	case insts.FormatIndex:
		e.executeIndex(inst)
	case insts.FormatDraw:
		return e.executeDraw(addr, inst)
	case insts.FormatTimer:
		e.executeTimer(inst)
	case insts.FormatKeyWait:
		e.waiting = true
		e.waitReg = inst.X
		e.waitKeys = e.keypad.State()
		e.regFile.PC -= 2
		return StepResult{Waiting: true}
	case insts.FormatMemory:
		return StepResult{Err: e.executeMemory(addr, inst)}
	default:
		return StepResult{Err: &DecodeError{Addr: addr, Word: inst.Word}}
	}

	return StepResult{}
}

// executeFlow executes RET, JP, CALL and JP V0.
func (e *Emulator) executeFlow(addr uint16, inst *insts.Instruction) error {
	switch inst.Op {
	case insts.OpRET:
		return e.branchUnit.RET(addr)
	case insts.OpJP:
		e.branchUnit.JP(inst.NNN)
	case insts.OpCALL:
		return e.branchUnit.CALL(addr, inst.NNN)
	case insts.OpJPV0:
		e.branchUnit.JPV0(inst.NNN)
	}
	return nil
}

// executeSkip executes the conditional skips.
func (e *Emulator) executeSkip(inst *insts.Instruction) {
	vx := e.regFile.ReadReg(inst.X)
	vy := e.regFile.ReadReg(inst.Y)

	switch inst.Op {
	case insts.OpSEImm:
		e.branchUnit.SkipIf(vx == inst.KK)
	case insts.OpSNEImm:
		e.branchUnit.SkipIf(vx != inst.KK)
	case insts.OpSEReg:
		e.branchUnit.SkipIf(vx == vy)
	case insts.OpSNEReg:
		e.branchUnit.SkipIf(vx != vy)
	case insts.OpSKP:
		e.branchUnit.SkipIf(e.keypad.IsPressed(vx))
	case insts.OpSKNP:
		e.branchUnit.SkipIf(!e.keypad.IsPressed(vx))
	}
}

// executeALU executes register loads, arithmetic, logic and RND.
func (e *Emulator) executeALU(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpLDImm:
		e.alu.LDImm(inst.X, inst.KK)
	case insts.OpADDImm:
		e.alu.ADDImm(inst.X, inst.KK)
	case insts.OpLDReg:
		e.alu.LD(inst.X, inst.Y)
	case insts.OpOR:
		e.alu.OR(inst.X, inst.Y)
	case insts.OpAND:
		e.alu.AND(inst.X, inst.Y)
	case insts.OpXOR:
		e.alu.XOR(inst.X, inst.Y)
	case insts.OpADD:
		e.alu.ADD(inst.X, inst.Y)
	case insts.OpSUB:
		e.alu.SUB(inst.X, inst.Y)
	case insts.OpSHR:
		e.alu.SHR(inst.X)
	case insts.OpSUBN:
		e.alu.SUBN(inst.X, inst.Y)
	case insts.OpSHL:
		e.alu.SHL(inst.X)
	case insts.OpRND:
		e.alu.RND(inst.X, inst.KK)
	}
}

// executeIndex executes LD I, ADD I and LD F.
func (e *Emulator) executeIndex(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpLDI:
		e.regFile.I = inst.NNN
	case insts.OpADDI:
		// VF is left alone even when I passes 0xFFF.
		e.regFile.I += uint16(e.regFile.ReadReg(inst.X))
	case insts.OpLDF:
		digit := uint16(e.regFile.ReadReg(inst.X) & 0xF)
		e.regFile.I = FontBase + digit*FontSpriteSize
	}
}

// executeDraw executes DRW Vx, Vy, n.
func (e *Emulator) executeDraw(addr uint16, inst *insts.Instruction) StepResult {
	sprite, err := e.lsu.Sprite(addr, inst.N)
	if err != nil {
		return StepResult{Err: err}
	}

	collided := e.display.DrawSprite(
		e.regFile.ReadReg(inst.X),
		e.regFile.ReadReg(inst.Y),
		sprite,
	)
	e.regFile.SetFlag(collided)

	return StepResult{Redraw: true}
}

// executeTimer executes the delay and sound timer transfers.
func (e *Emulator) executeTimer(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpLDVxDT:
		e.regFile.WriteReg(inst.X, e.timers.delay)
	case insts.OpLDDTVx:
		e.timers.delay = e.regFile.ReadReg(inst.X)
	case insts.OpLDSTVx:
		e.timers.sound = e.regFile.ReadReg(inst.X)
	}
}

// executeMemory executes LD B, LD [I], Vx and LD Vx, [I].
func (e *Emulator) executeMemory(addr uint16, inst *insts.Instruction) error {
	switch inst.Op {
	case insts.OpLDB:
		return e.lsu.BCD(addr, inst.X)
	case insts.OpLDIVx:
		return e.lsu.Store(addr, inst.X)
	case insts.OpLDVxI:
		return e.lsu.Load(addr, inst.X)
	}
	return nil
}

// DumpState writes the PC, the instruction at PC and all registers.
func (e *Emulator) DumpState(w io.Writer) {
	pc := e.regFile.PC
	if pc <= MaxAddress-1 {
		word := e.memory.Read16(pc)
		_, _ = fmt.Fprintf(w, "%03X:\t%04X\t%s\n", pc, word, e.decoder.Decode(word))
	} else {
		_, _ = fmt.Fprintf(w, "%03X:\t----\n", pc)
	}

	for row := 0; row < 2; row++ {
		_, _ = fmt.Fprint(w, "\t")
		for r := row * 8; r < row*8+8; r++ {
			_, _ = fmt.Fprintf(w, "v%x: %02x ", r, e.regFile.V[r])
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "\ti: %03X\n", e.regFile.I)
	_, _ = fmt.Fprintf(w, "\tsp: %X %03X\n", e.stack.Depth(), e.stack.Frames())
	_, _ = fmt.Fprintf(w, "\tdt: %02X\n", e.timers.delay)
	_, _ = fmt.Fprintf(w, "\tst: %02X\n", e.timers.sound)
}
