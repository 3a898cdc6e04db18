// Package main provides a profiling wrapper for c8sim. It runs a ROM headless
// for a number of frames as fast as possible and reports throughput and
// fetch cache statistics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/loader"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/core"
)

var (
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
	duration   = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	frames     = flag.Int("frames", 60*60, "frames to run (one frame is 1/60 s of machine time)")
	clockHz    = flag.Int("hz", core.DefaultClockHz, "instructions per second of machine time")
	seed       = flag.Uint64("seed", 1, "random seed")
	fetchCache = flag.Bool("fetch-cache", true, "model instruction fetch through a cache")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: c8prof [options] <rom.ch8>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *clockHz < core.DefaultTimerHz {
		fmt.Fprintf(os.Stderr, "Error: -hz must be at least %d\n", core.DefaultTimerHz)
		os.Exit(1)
	}

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded: %s (%d bytes)\n", prog.Name, prog.Size())

	c, err := newCore(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	runErr := c.RunFrames(ctx, &core.Headless{}, *frames)
	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	printResults(os.Stdout, c, runErr, elapsed)
}

func newCore(prog *loader.Program) (*core.Core, error) {
	emulator := emu.NewEmulator(emu.WithSeed(*seed))
	if err := emulator.LoadProgram(prog.Data); err != nil {
		return nil, err
	}

	opts := []core.Option{core.WithRates(*clockHz, core.DefaultTimerHz)}
	if *fetchCache {
		opts = append(opts, core.WithFetchCache(
			cache.New(cache.DefaultFetchConfig(), cache.NewMemoryBacking(emulator.Memory()))))
	}

	return core.NewCore(emulator, opts...), nil
}

func printResults(w io.Writer, c *core.Core, runErr error, elapsed time.Duration) {
	stats := c.Stats()

	fmt.Fprintf(w, "\nProfiling Results:\n")
	switch {
	case runErr == nil:
		fmt.Fprintf(w, "Stopped: %s\n", stopReason(c))
	case errors.Is(runErr, context.DeadlineExceeded):
		fmt.Fprintf(w, "Stopped: timeout reached after %v\n", *duration)
	default:
		fmt.Fprintf(w, "Stopped: %v\n", runErr)
		c.Emulator().DumpState(w)
	}

	fmt.Fprintf(w, "Frames: %d\n", stats.Frames)
	fmt.Fprintf(w, "Cycles: %d (waiting: %d)\n", stats.Cycles, stats.WaitCycles)
	fmt.Fprintf(w, "Instructions executed: %d\n", stats.Instructions)
	fmt.Fprintf(w, "Redraws: %d\n", stats.Redraws)
	fmt.Fprintf(w, "Sound frames: %d\n", stats.SoundFrames)
	fmt.Fprintf(w, "Elapsed time: %v\n", elapsed)
	if stats.Instructions > 0 {
		fmt.Fprintf(w, "Instructions/second: %.0f\n", float64(stats.Instructions)/elapsed.Seconds())
		machine := time.Duration(stats.Frames) * c.Scheduler().FrameDuration()
		fmt.Fprintf(w, "Speed vs real time: %.1fx\n", machine.Seconds()/elapsed.Seconds())
	}

	if fetch := c.FetchCache(); fetch != nil {
		fs := fetch.Stats()
		fmt.Fprintf(w, "\nFetch Cache:\n")
		fmt.Fprintf(w, "Reads: %d\n", fs.Reads)
		fmt.Fprintf(w, "Hits: %d (%.2f%%)\n", fs.Hits, 100*fs.HitRate())
		fmt.Fprintf(w, "Misses: %d\n", fs.Misses)
		fmt.Fprintf(w, "Evictions: %d\n", fs.Evictions)
		fmt.Fprintf(w, "Invalidations: %d\n", fs.Invalidations)
		if stats.Instructions > 0 {
			fmt.Fprintf(w, "Fetch cycles/instruction: %.2f\n",
				float64(stats.FetchCycles)/float64(stats.Instructions))
		}
	}
}

func stopReason(c *core.Core) string {
	if c.Emulator().Finished() {
		return "program finished"
	}
	return "frame limit reached"
}
