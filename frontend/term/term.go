// Package term is a terminal host for the CHIP-8 core: keyboard input from a
// raw-mode terminal, half-block rendering and the terminal bell.
package term

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/sarchlab/c8sim/config"
	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/timing/core"
)

// Terminal implements core.Host on an ANSI terminal. Input is fed from a
// separate goroutine through Pump; the other methods run on the frame loop.
type Terminal struct {
	out      io.Writer
	renderer *Renderer

	mu       sync.Mutex
	keyboard *Keyboard

	started bool
	beeping bool
	err     error
}

// New creates a Terminal writing to out with the key layout, hold time and
// scale from cfg.
func New(out io.Writer, cfg *config.Config) *Terminal {
	return &Terminal{
		out:      out,
		renderer: NewRenderer(cfg.Scale),
		keyboard: NewKeyboard(cfg.KeyMap(), cfg.KeyHoldFrames),
	}
}

// Pump copies keyboard input from in until ctx is done or in is exhausted.
// Readers should return periodically, possibly with no data, so that
// cancellation is noticed.
func (t *Terminal) Pump(ctx context.Context, in io.Reader) error {
	buf := make([]byte, 64)
	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := in.Read(buf)
		if n > 0 {
			t.mu.Lock()
			t.keyboard.Feed(buf[:n])
			t.mu.Unlock()
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading keyboard")
		}
	}
}

// Poll implements core.Host.
func (t *Terminal) Poll() core.Input {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys, reset, quit := t.keyboard.Frame()
	return core.Input{Keys: keys, Reset: reset, Quit: quit}
}

// Present implements core.Host.
func (t *Terminal) Present(frame emu.Frame) {
	if !t.started {
		t.write([]byte(clearScreen + hideCursor))
		t.started = true
	}
	t.write(t.renderer.Render(frame))
}

// Beep implements core.Host. The bell rings when the sound timer starts.
func (t *Terminal) Beep(active bool) {
	if active && !t.beeping {
		t.write([]byte{'\a'})
	}
	t.beeping = active
}

// Err returns the first output error.
func (t *Terminal) Err() error {
	return t.err
}

// Close restores the cursor and text attributes.
func (t *Terminal) Close() error {
	if t.started {
		t.write([]byte(resetAttrs + showCursor + "\r\n"))
	}
	return t.err
}

func (t *Terminal) write(p []byte) {
	if t.err != nil {
		return
	}
	if _, err := t.out.Write(p); err != nil {
		t.err = errors.Wrap(err, "writing to terminal")
	}
}
