package cache

import (
	"github.com/sarchlab/c8sim/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore. Addresses wrap at the
// end of the 4 KiB address space.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// Read fetches data from the backing memory.
func (m *MemoryBacking) Read(addr uint64, size int) []byte {
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		data[i] = m.memory.Read8(uint16((addr + uint64(i)) & emu.MaxAddress))
	}
	return data
}
