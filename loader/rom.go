// Package loader provides CHIP-8 program image loading.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sarchlab/c8sim/emu"
)

// ErrEmptyImage is returned for a program image with no bytes.
var ErrEmptyImage = errors.New("program image is empty")

// LoadError is returned when a program image cannot be read or does not fit
// in program space. It is reported before any cycle executes.
type LoadError struct {
	// Name identifies the image, usually its file path.
	Name string
	// Size is the number of bytes read, or the file size when known.
	Size int64
	// Err is the underlying cause.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading ROM %q (%d bytes): %v", e.Name, e.Size, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Program represents a loaded CHIP-8 program image ready for execution.
type Program struct {
	// Name identifies the image, usually its base file name.
	Name string
	// Data is the raw image, copied verbatim to emu.ProgramStart.
	Data []byte
}

// Size returns the image length in bytes.
func (p *Program) Size() int {
	return len(p.Data)
}

// End returns the first address past the loaded image.
func (p *Program) End() uint16 {
	return uint16(emu.ProgramStart + len(p.Data))
}

// Load reads a CHIP-8 program image from a file.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Name: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	if fi, err := f.Stat(); err == nil && fi.Size() > emu.MaxProgramSize {
		return nil, &LoadError{Name: path, Size: fi.Size(), Err: emu.ErrProgramTooLarge}
	}

	prog, err := LoadReader(path, f)
	if err != nil {
		return nil, err
	}
	prog.Name = filepath.Base(path)
	return prog, nil
}

// LoadReader reads a CHIP-8 program image from r. At most one byte more than
// emu.MaxProgramSize is consumed.
func LoadReader(name string, r io.Reader) (*Program, error) {
	data, err := io.ReadAll(io.LimitReader(r, emu.MaxProgramSize+1))
	if err != nil {
		return nil, &LoadError{Name: name, Size: int64(len(data)), Err: err}
	}
	return LoadBytes(name, data)
}

// LoadBytes validates an in-memory program image.
func LoadBytes(name string, data []byte) (*Program, error) {
	switch {
	case len(data) == 0:
		return nil, &LoadError{Name: name, Err: ErrEmptyImage}
	case len(data) > emu.MaxProgramSize:
		return nil, &LoadError{Name: name, Size: int64(len(data)), Err: emu.ErrProgramTooLarge}
	}

	image := make([]byte, len(data))
	copy(image, data)
	return &Program{Name: name, Data: image}, nil
}
