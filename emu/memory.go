// Package emu provides functional CHIP-8 emulation.
package emu

// Memory layout.
const (
	// MemorySize is the size of the CHIP-8 address space.
	MemorySize = 4096

	// ProgramStart is the address where program images are loaded and
	// execution begins.
	ProgramStart = 0x200

	// MaxAddress is the highest addressable byte.
	MaxAddress = MemorySize - 1

	// MaxProgramSize is the largest program image that fits in memory.
	MaxProgramSize = MemorySize - ProgramStart

	// FontBase is the address of the built-in hexadecimal digit sprites.
	FontBase = 0x050

	// FontSpriteSize is the height in bytes of one digit sprite.
	FontSpriteSize = 5
)

// font holds the 4x5 sprites of the hexadecimal digits 0-F.
var font = [16 * FontSpriteSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Font returns a copy of the built-in digit sprites.
func Font() []byte {
	out := make([]byte, len(font))
	copy(out, font[:])
	return out
}

// Memory is the flat 4 KiB CHIP-8 address space.
// Addresses passed to Memory must be below MemorySize; the reserved
// interpreter area rule is enforced by the LoadStoreUnit, not here.
type Memory struct {
	data [MemorySize]byte
}

// NewMemory creates zeroed memory with the font sprites installed.
func NewMemory() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset zeroes memory in place and reinstalls the font sprites.
func (m *Memory) Reset() {
	clear(m.data[:])
	copy(m.data[FontBase:], font[:])
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint16) byte {
	return m.data[addr]
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint16, value byte) {
	m.data[addr] = value
}

// Read16 reads a big-endian 16-bit word.
func (m *Memory) Read16(addr uint16) uint16 {
	return uint16(m.data[addr])<<8 | uint16(m.data[addr+1])
}

// Write16 writes a big-endian 16-bit word.
func (m *Memory) Write16(addr uint16, value uint16) {
	m.data[addr] = byte(value >> 8)
	m.data[addr+1] = byte(value)
}

// Slice returns a copy of n bytes starting at addr.
func (m *Memory) Slice(addr uint16, n int) []byte {
	out := make([]byte, n)
	copy(out, m.data[addr:int(addr)+n])
	return out
}

// LoadProgram copies a program image to ProgramStart.
func (m *Memory) LoadProgram(image []byte) error {
	if len(image) > MaxProgramSize {
		return ErrProgramTooLarge
	}
	m.install(image)
	return nil
}

// install copies an image already known to fit to ProgramStart.
func (m *Memory) install(image []byte) {
	copy(m.data[ProgramStart:], image)
}
