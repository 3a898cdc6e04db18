// Package emu provides functional CHIP-8 emulation.
package emu

import "strings"

// Display geometry in logical pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Frame is a read-only copy of the display contents, indexed [y][x].
type Frame [DisplayHeight][DisplayWidth]bool

// String renders the frame as rows of '#' (set) and '.' (unset).
func (f Frame) String() string {
	var sb strings.Builder
	sb.Grow(DisplayHeight * (DisplayWidth + 1))
	for y := range f {
		for x := range f[y] {
			if f[y][x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Lit returns the number of set pixels.
func (f Frame) Lit() int {
	n := 0
	for y := range f {
		for x := range f[y] {
			if f[y][x] {
				n++
			}
		}
	}
	return n
}

// Display is the monochrome framebuffer. Pixels change only through Clear and
// the XOR composition of DrawSprite.
type Display struct {
	pixels Frame
	dirty  bool
}

// Clear unsets every pixel.
func (d *Display) Clear() {
	d.pixels = Frame{}
	d.dirty = true
}

// DrawSprite XORs an 8-pixel-wide sprite, one byte per row with the most
// significant bit leftmost, onto the display. The origin is taken modulo the
// display size; pixels falling past the right or bottom edge are clipped.
// It returns true if any set pixel was turned off.
func (d *Display) DrawSprite(x, y uint8, sprite []byte) bool {
	ox := int(x) % DisplayWidth
	oy := int(y) % DisplayHeight
	collided := false

	for row, bits := range sprite {
		py := oy + row
		if py >= DisplayHeight {
			break
		}
		for col := 0; col < 8; col++ {
			px := ox + col
			if px >= DisplayWidth {
				break
			}
			if bits&(0x80>>col) == 0 {
				continue
			}
			if d.pixels[py][px] {
				collided = true
			}
			d.pixels[py][px] = !d.pixels[py][px]
		}
	}

	d.dirty = true
	return collided
}

// Pixel reports whether the pixel at (x, y) is set.
func (d *Display) Pixel(x, y int) bool {
	return d.pixels[y][x]
}

// Snapshot returns a copy of the display contents.
func (d *Display) Snapshot() Frame {
	return d.pixels
}

// Dirty reports whether the display changed since the last TakeDirty.
func (d *Display) Dirty() bool {
	return d.dirty
}

// TakeDirty returns the dirty flag and clears it.
func (d *Display) TakeDirty() bool {
	dirty := d.dirty
	d.dirty = false
	return dirty
}
