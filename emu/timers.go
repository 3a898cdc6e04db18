// Package emu provides functional CHIP-8 emulation.
package emu

// Timers holds the delay and sound timers. Both count down at the timer rate
// while nonzero. Only the timer instructions set them.
type Timers struct {
	delay uint8
	sound uint8
}

// Tick decrements both timers by one, stopping at zero.
// It returns true if the sound timer was running during this tick.
func (t *Timers) Tick() bool {
	if t.delay > 0 {
		t.delay--
	}
	if t.sound > 0 {
		t.sound--
		return true
	}
	return false
}

// Delay returns the delay timer value.
func (t *Timers) Delay() uint8 {
	return t.delay
}

// Sound returns the sound timer value.
func (t *Timers) Sound() uint8 {
	return t.sound
}

// SoundActive reports whether the beep should be playing.
func (t *Timers) SoundActive() bool {
	return t.sound > 0
}

// Reset stops both timers.
func (t *Timers) Reset() {
	*t = Timers{}
}
