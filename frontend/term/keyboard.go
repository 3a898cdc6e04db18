package term

import "github.com/sarchlab/c8sim/emu"

// Control bytes understood by the keyboard.
const (
	keyCtrlC  = 0x03
	keyCtrlR  = 0x12
	keyEscape = 0x1B
)

// Keyboard turns terminal bytes into keypad state. Terminals report key
// presses but not releases, so each press holds its key down for a fixed
// number of frames.
type Keyboard struct {
	keymap map[byte]uint8
	hold   int

	remaining [emu.KeyCount]int
	reset     bool
	quit      bool
}

// NewKeyboard creates a Keyboard. keymap maps characters to keypad keys and
// hold is the number of frames a press lasts.
func NewKeyboard(keymap map[byte]uint8, hold int) *Keyboard {
	if hold < 1 {
		hold = 1
	}
	return &Keyboard{keymap: keymap, hold: hold}
}

// Feed consumes raw terminal input. Ctrl+R requests a reset. Escape or Ctrl+C
// requests quit. ANSI escape sequences such as arrow keys are skipped.
func (k *Keyboard) Feed(data []byte) {
	for i := 0; i < len(data); i++ {
		b := data[i]
		switch b {
		case keyCtrlR:
			k.reset = true
		case keyCtrlC:
			k.quit = true
		case keyEscape:
			if i+1 < len(data) && (data[i+1] == '[' || data[i+1] == 'O') {
				i = skipSequence(data, i+1)
				continue
			}
			k.quit = true
		default:
			if key, ok := k.keymap[b]; ok {
				k.remaining[key] = k.hold
			}
		}
	}
}

// skipSequence returns the index of the final byte of the escape sequence
// whose introducer is at data[i].
func skipSequence(data []byte, i int) int {
	if data[i] == 'O' {
		if i+1 < len(data) {
			return i + 1
		}
		return i
	}
	for j := i + 1; j < len(data); j++ {
		if data[j] >= 0x40 && data[j] <= 0x7E {
			return j
		}
	}
	return len(data) - 1
}

// Frame returns the key state for the next frame and ages every held key by
// one frame. Reset and quit requests are returned once and then cleared.
func (k *Keyboard) Frame() (keys emu.KeyState, reset, quit bool) {
	for i := range k.remaining {
		if k.remaining[i] > 0 {
			keys[i] = true
			k.remaining[i]--
		}
	}

	reset, quit = k.reset, k.quit
	k.reset = false
	k.quit = false
	return keys, reset, quit
}
