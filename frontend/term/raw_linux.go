//go:build linux

package term

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MakeRaw switches the terminal on fd to raw input: no line buffering, no
// echo and no signal keys. The returned function restores the old settings.
func MakeRaw(fd int) (func() error, error) {
	old, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, errors.Wrap(err, "TCGETS failed")
	}

	raw := *old
	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.ISTRIP | unix.ICRNL | unix.IXON | unix.IXOFF
	raw.Iflag |= unix.IGNPAR
	raw.Lflag &^= unix.ICANON | unix.ISIG | unix.IEXTEN | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &raw); err != nil {
		_ = unix.IoctlSetTermios(fd, unix.TCSETS, old)
		return nil, errors.Wrap(err, "TCSETS failed")
	}

	return func() error {
		return errors.Wrap(unix.IoctlSetTermios(fd, unix.TCSETS, old), "restoring terminal failed")
	}, nil
}

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	return err == nil
}

// PollReader reads from a file descriptor, giving up after a timeout so that
// callers can check for cancellation. A read that times out returns 0, nil.
type PollReader struct {
	fd      int
	timeout time.Duration
}

// NewPollReader creates a PollReader on fd.
func NewPollReader(fd int, timeout time.Duration) *PollReader {
	return &PollReader{fd: fd, timeout: timeout}
}

func (r *PollReader) Read(p []byte) (int, error) {
	fds := []unix.PollFd{{Fd: int32(r.fd), Events: unix.POLLIN}}

	n, err := unix.Poll(fds, int(r.timeout/time.Millisecond))
	if err == unix.EINTR || n == 0 {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "poll failed")
	}

	n, err = unix.Read(r.fd, p)
	if err != nil {
		return 0, errors.Wrap(err, "read failed")
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
