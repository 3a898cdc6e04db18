package main

import (
	"context"
	"os"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/c8sim/config"
	"github.com/sarchlab/c8sim/frontend/term"
	"github.com/sarchlab/c8sim/timing/core"
)

// inputPollInterval bounds how long the input pump blocks before it
// rechecks for shutdown.
const inputPollInterval = 50 * time.Millisecond

// runTerminal runs the core against the terminal until the program finishes,
// the machine halts, the user quits or ctx is cancelled. The keyboard pump
// and the frame loop run as one errgroup; whichever ends first stops the
// other.
func runTerminal(ctx context.Context, c *core.Core, cfg *config.Config, logger logr.Logger) error {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		restore, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer func() {
			if err := restore(); err != nil {
				logger.Error(err, "restoring terminal")
			}
		}()
	} else {
		logger.V(1).Info("stdin is not a terminal, keys are line buffered")
	}

	screen := term.New(os.Stdout, cfg)
	defer func() { _ = screen.Close() }()

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)

	g.Go(func() error {
		return screen.Pump(runCtx, term.NewPollReader(fd, inputPollInterval))
	})
	g.Go(func() error {
		defer cancel()
		return c.Run(runCtx, screen)
	})

	err := g.Wait()
	cancel()

	if err == nil {
		err = screen.Err()
	}
	return err
}
