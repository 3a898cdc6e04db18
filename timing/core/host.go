package core

import "github.com/sarchlab/c8sim/emu"

// Input is what the host reports at the start of a frame.
type Input struct {
	// Keys is latched into the keypad before the frame's cycles run.
	Keys emu.KeyState
	// Reset restores the post-load state before the frame runs.
	Reset bool
	// Quit stops the run loop without running the frame.
	Quit bool
}

// Host is the outside world of a running core: input, video and audio.
type Host interface {
	// Poll returns the current input. It must not block.
	Poll() Input
	// Present shows a frame. It is only called after the display changed.
	Present(frame emu.Frame)
	// Beep reports whether the sound timer was running during the frame.
	Beep(active bool)
}

// Headless is a Host with fixed input that records what it is shown.
type Headless struct {
	// Keys is reported on every Poll.
	Keys emu.KeyState

	// Frame is the last presented frame.
	Frame emu.Frame
	// Presents counts Present calls.
	Presents int
	// BeepFrames counts frames in which the sound timer was running.
	BeepFrames int
}

// Poll implements Host.
func (h *Headless) Poll() Input {
	return Input{Keys: h.Keys}
}

// Present implements Host.
func (h *Headless) Present(frame emu.Frame) {
	h.Frame = frame
	h.Presents++
}

// Beep implements Host.
func (h *Headless) Beep(active bool) {
	if active {
		h.BeepFrames++
	}
}
