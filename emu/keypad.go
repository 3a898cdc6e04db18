// Package emu provides functional CHIP-8 emulation.
package emu

// KeyCount is the number of keys on the hexadecimal keypad.
const KeyCount = 16

// KeyState is the pressed state of each keypad key, indexed 0x0-0xF.
type KeyState [KeyCount]bool

// Keypad latches the host's key state. The emulator only reads it.
type Keypad struct {
	state KeyState
}

// Latch replaces the whole key state.
func (k *Keypad) Latch(state KeyState) {
	k.state = state
}

// Press marks a key as pressed.
func (k *Keypad) Press(key uint8) {
	k.state[key&0xF] = true
}

// Release marks a key as released.
func (k *Keypad) Release(key uint8) {
	k.state[key&0xF] = false
}

// IsPressed reports whether the key is held. Only the low nibble of key is
// significant.
func (k *Keypad) IsPressed(key uint8) bool {
	return k.state[key&0xF]
}

// State returns the latched key state.
func (k *Keypad) State() KeyState {
	return k.state
}

// Reset releases all keys.
func (k *Keypad) Reset() {
	k.state = KeyState{}
}
