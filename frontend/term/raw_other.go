//go:build !linux

package term

import (
	"io"
	"time"

	"github.com/pkg/errors"
)

// MakeRaw is only supported on Linux.
func MakeRaw(fd int) (func() error, error) {
	return nil, errors.New("raw terminal mode is not supported on this platform")
}

// IsTerminal always reports false where raw mode is unsupported.
func IsTerminal(fd int) bool {
	return false
}

// PollReader has no keyboard support on this platform and reports EOF.
type PollReader struct{}

// NewPollReader creates a PollReader on fd.
func NewPollReader(fd int, timeout time.Duration) *PollReader {
	return &PollReader{}
}

func (r *PollReader) Read(p []byte) (int, error) {
	return 0, io.EOF
}
