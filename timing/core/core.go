// Package core drives a CHIP-8 emulator in timer-rate frames.
// Each frame latches the host's keys, runs a slice of CPU cycles and then
// ticks the delay and sound timers once.
package core

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/insts"
	"github.com/sarchlab/c8sim/timing/cache"
)

// Default rates.
const (
	DefaultClockHz = 500
	DefaultTimerHz = 60
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Frames is the number of timer ticks.
	Frames uint64
	// Cycles is the total number of CPU cycles run, including waits.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// WaitCycles is the number of cycles spent blocked on LD Vx, K.
	WaitCycles uint64
	// Redraws is the number of frames in which the display changed.
	Redraws uint64
	// SoundFrames is the number of frames the sound timer was running.
	SoundFrames uint64
	// FetchCycles is the modeled fetch latency; zero without a fetch cache.
	FetchCycles uint64
	// Resets counts Reset calls.
	Resets uint64
}

// FrameResult describes one frame.
type FrameResult struct {
	// Cycles is the number of CPU cycles run in the frame.
	Cycles int
	// Redraw is true if the display changed.
	Redraw bool
	// Sound is true if the sound timer was running during the timer tick.
	Sound bool
	// Waiting is true if the machine ended the frame blocked on a key.
	Waiting bool
	// Finished is true if PC reached the end of the loaded image.
	Finished bool
	// Err is the fatal error that halted the machine, if any.
	Err error
}

// Done reports whether the run should stop after this frame.
func (r FrameResult) Done() bool {
	return r.Finished || r.Err != nil
}

// Core runs an emulator at a fixed CPU clock and timer rate.
type Core struct {
	emulator  *emu.Emulator
	scheduler *Scheduler
	fetch     *cache.Cache
	logger    logr.Logger

	stats Stats
}

// Option is a functional option for configuring the Core.
type Option func(*Core)

// WithRates sets the CPU clock and timer rates.
func WithRates(clockHz, timerHz int) Option {
	return func(c *Core) {
		c.scheduler = NewScheduler(clockHz, timerHz)
	}
}

// WithLogger sets the logger. V(1) reports lifecycle events and V(2) traces
// every retired instruction.
func WithLogger(logger logr.Logger) Option {
	return func(c *Core) {
		c.logger = logger
	}
}

// WithFetchCache models instruction fetch through the given cache.
func WithFetchCache(fetch *cache.Cache) Option {
	return func(c *Core) {
		c.fetch = fetch
	}
}

// NewCore creates a Core around an emulator with a program already loaded.
func NewCore(emulator *emu.Emulator, opts ...Option) *Core {
	c := &Core{
		emulator:  emulator,
		scheduler: NewScheduler(DefaultClockHz, DefaultTimerHz),
		logger:    logr.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Emulator returns the driven emulator.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// Scheduler returns the frame scheduler.
func (c *Core) Scheduler() *Scheduler {
	return c.scheduler
}

// FetchCache returns the fetch cache, or nil if none is attached.
func (c *Core) FetchCache() *cache.Cache {
	return c.fetch
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	return c.stats
}

// Reset restores the emulator's post-load state and drops the scheduler
// carry. Statistics are kept.
func (c *Core) Reset() {
	c.emulator.Reset()
	c.scheduler.Reset()
	if c.fetch != nil {
		c.fetch.Flush()
	}
	c.stats.Resets++
	c.logger.V(1).Info("reset", "resets", c.stats.Resets)
}

// RunFrame latches keys, runs one slice of CPU cycles and ticks the timers.
// The slice stops early if the machine halts or runs off the end of the
// image; timers are not ticked after a fatal error.
func (c *Core) RunFrame(keys emu.KeyState) FrameResult {
	var result FrameResult

	c.emulator.Keypad().Latch(keys)

	n := c.scheduler.Next()
	for i := 0; i < n; i++ {
		if c.emulator.Finished() {
			result.Finished = true
			break
		}

		step := c.step()
		result.Cycles++

		if step.Err != nil {
			result.Err = step.Err
			c.logger.V(1).Info("halted",
				"pc", c.emulator.RegFile().PC, "error", step.Err.Error())
			break
		}
		result.Waiting = step.Waiting
	}

	if result.Err == nil {
		result.Sound = c.emulator.TickTimers()
		result.Finished = result.Finished || c.emulator.Finished()
	}
	if result.Finished {
		c.logger.V(1).Info("finished", "instructions", c.emulator.InstructionCount())
	}
	result.Redraw = c.emulator.Display().TakeDirty()

	c.stats.Frames++
	if result.Redraw {
		c.stats.Redraws++
	}
	if result.Sound {
		c.stats.SoundFrames++
	}

	return result
}

// step runs one cycle, modeling the fetch and keeping the fetch cache
// coherent with stores.
func (c *Core) step() emu.StepResult {
	e := c.emulator
	regFile := e.RegFile()
	before := e.InstructionCount()
	index := regFile.I
	pc := regFile.PC
	fetching := !e.Waiting() && pc <= emu.MaxAddress-1

	if c.fetch != nil && fetching {
		c.stats.FetchCycles += c.fetch.Read(uint64(pc), 2).Latency
	}

	step := e.Step()
	c.stats.Cycles++

	if e.InstructionCount() == before {
		if step.Waiting {
			c.stats.WaitCycles++
		}
		return step
	}
	c.stats.Instructions++

	inst := e.LastInstruction()
	if c.fetch != nil {
		c.invalidateStores(inst, index)
	}
	if c.logger.V(2).Enabled() {
		c.logger.V(2).Info("exec", "pc", pc, "word", inst.Word, "inst", inst.String())
	}

	return step
}

func (c *Core) invalidateStores(inst *insts.Instruction, index uint16) {
	switch inst.Op {
	case insts.OpLDB:
		c.fetch.Invalidate(uint64(index), 3)
	case insts.OpLDIVx:
		c.fetch.Invalidate(uint64(index), int(inst.X)+1)
	}
}

// Run presents frames to host at the timer rate until the context is
// cancelled, the host asks to quit, the program finishes or the machine
// halts. It returns the fatal error, if any, or ctx.Err() on cancellation.
func (c *Core) Run(ctx context.Context, host Host) error {
	ticker := time.NewTicker(c.scheduler.FrameDuration())
	defer ticker.Stop()

	c.logger.V(1).Info("run",
		"clockHz", c.scheduler.ClockHz(), "timerHz", c.scheduler.TimerHz())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		done, err := c.frame(host)
		if done {
			return err
		}
	}
}

// RunFrames runs up to n frames against host as fast as possible. It stops
// early for the same reasons as Run.
func (c *Core) RunFrames(ctx context.Context, host Host, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := c.frame(host)
		if done {
			return err
		}
	}
	return nil
}

func (c *Core) frame(host Host) (bool, error) {
	in := host.Poll()
	if in.Quit {
		c.logger.V(1).Info("quit")
		return true, nil
	}
	if in.Reset {
		c.Reset()
	}

	result := c.RunFrame(in.Keys)
	if result.Redraw {
		host.Present(c.emulator.Display().Snapshot())
	}
	host.Beep(result.Sound)

	return result.Done(), result.Err
}
