package term

import (
	"bytes"

	"github.com/sarchlab/c8sim/emu"
)

// ANSI control sequences.
const (
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	resetAttrs  = "\x1b[0m"
)

// Half-block glyphs, indexed by top<<1 | bottom.
var glyphs = [4]string{" ", "▄", "▀", "█"}

// Renderer draws frames with half-block characters so that each terminal
// cell holds two vertically stacked pixels. Each pixel is scaled to a
// scale x scale square.
type Renderer struct {
	scale int
	buf   bytes.Buffer
}

// NewRenderer creates a Renderer. Scale values below 1 are treated as 1.
func NewRenderer(scale int) *Renderer {
	if scale < 1 {
		scale = 1
	}
	return &Renderer{scale: scale}
}

// Size returns the rendered size in terminal columns and rows.
func (r *Renderer) Size() (cols, rows int) {
	return emu.DisplayWidth * r.scale, (emu.DisplayHeight*r.scale + 1) / 2
}

// Render returns the escape sequence that homes the cursor and draws frame.
// Rows end with CRLF since output processing is off in raw mode. The
// returned slice is reused by the next call.
func (r *Renderer) Render(frame emu.Frame) []byte {
	r.buf.Reset()
	r.buf.WriteString(cursorHome)

	cols, rows := r.Size()
	pixel := func(col, row int) bool {
		y := row / r.scale
		if y >= emu.DisplayHeight {
			return false
		}
		return frame[y][col/r.scale]
	}

	for row := 0; row < rows; row++ {
		top, bottom := 2*row, 2*row+1
		for col := 0; col < cols; col++ {
			idx := 0
			if pixel(col, top) {
				idx |= 2
			}
			if pixel(col, bottom) {
				idx |= 1
			}
			r.buf.WriteString(glyphs[idx])
		}
		r.buf.WriteString("\r\n")
	}

	return r.buf.Bytes()
}
