// Package main provides the entry point for c8sim, a CHIP-8 interpreter for
// the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/rs/xid"

	"github.com/sarchlab/c8sim/config"
	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/insts"
	"github.com/sarchlab/c8sim/loader"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/core"
)

var (
	version = "0.1.0"
	commit  = ""
	date    = ""
)

// Exit codes.
const (
	exitOK    = 0
	exitUsage = 1
	exitFault = 2
)

type optionFlags struct {
	rom        string
	configPath string

	clockHz    int
	seed       uint64
	scale      int
	fetchCache bool
	maxInstr   uint64

	verbosity   int
	disassemble bool
	headless    bool
	frames      int
	version     bool

	// set records the flags given on the command line.
	set map[string]bool
}

func main() {
	options, err := readArguments(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(exitUsage)
	}

	if options.version {
		printBanner(os.Stdout)
		return
	}

	os.Exit(run(options))
}

// readArguments parses the command line. Usage is written to out on error.
func readArguments(args []string, out io.Writer) (*optionFlags, error) {
	flags := flag.NewFlagSet("c8sim", flag.ContinueOnError)
	flags.SetOutput(out)
	options := &optionFlags{set: map[string]bool{}}

	flags.StringVar(&options.configPath, "config", "", "path to a JSON or YAML configuration file")
	flags.IntVar(&options.clockHz, "hz", config.Default().ClockHz, "instructions per second")
	flags.Uint64Var(&options.seed, "seed", 0, "random seed (0 = time based)")
	flags.IntVar(&options.scale, "scale", config.Default().Scale, "display scale (1-8)")
	flags.BoolVar(&options.fetchCache, "fetch-cache", false, "model instruction fetch through a cache")
	flags.Uint64Var(&options.maxInstr, "max-instr", 0, "stop after this many instructions (0 = unlimited)")
	flags.IntVar(&options.verbosity, "v", 0, "log verbosity (1 = lifecycle, 2 = instruction trace)")
	flags.BoolVar(&options.disassemble, "dis", false, "print a disassembly of the ROM and exit")
	flags.BoolVar(&options.headless, "headless", false, "run without a terminal and print the final frame")
	flags.IntVar(&options.frames, "frames", 600, "frames to run in headless mode")
	flags.BoolVar(&options.version, "version", false, "print version information and exit")

	flags.Usage = func() {
		printBanner(out)
		_, _ = fmt.Fprintf(out, "usage: c8sim [options] <rom.ch8>\n\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	flags.Visit(func(f *flag.Flag) {
		options.set[f.Name] = true
	})

	if options.version {
		return options, nil
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return nil, errors.New("expected exactly one ROM path")
	}
	options.rom = flags.Arg(0)

	return options, nil
}

func printBanner(out io.Writer) {
	_, _ = fmt.Fprintln(out, "[-----------------------------]")
	_, _ = fmt.Fprintln(out, "[ c8sim - CHIP-8 interpreter  ]")
	_, _ = fmt.Fprintln(out, "[-----------------------------]")
	_, _ = fmt.Fprintf(out, "version: %s\n\n", buildinfo.Version(version, commit, date))
}

// loadConfig reads the configuration file, if any, and applies command line
// overrides.
func loadConfig(options *optionFlags) (*config.Config, error) {
	cfg := config.Default()
	if options.configPath != "" {
		var err error
		cfg, err = config.Load(options.configPath)
		if err != nil {
			return nil, err
		}
	}

	if options.set["hz"] {
		cfg.ClockHz = options.clockHz
	}
	if options.set["seed"] {
		cfg.Seed = options.seed
	}
	if options.set["scale"] {
		cfg.Scale = options.scale
	}
	if options.set["fetch-cache"] {
		cfg.FetchCache = options.fetchCache
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			_, _ = fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
		} else {
			_, _ = fmt.Fprintln(os.Stderr, args)
		}
	}, funcr.Options{Verbosity: verbosity}).WithName("c8sim").WithValues("run", xid.New().String())
}

func run(options *optionFlags) int {
	cfg, err := loadConfig(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return exitUsage
	}

	prog, err := loader.Load(options.rom)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		return exitUsage
	}

	if options.disassemble {
		if err := insts.Disassemble(os.Stdout, emu.ProgramStart, prog.Data); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing disassembly: %v\n", err)
			return exitUsage
		}
		return exitOK
	}

	logger := newLogger(options.verbosity)
	c, err := newCore(cfg, prog, options.maxInstr, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if options.headless {
		host := &core.Headless{}
		err = c.RunFrames(ctx, host, options.frames)
		fmt.Print(host.Frame.String())
	} else {
		err = runTerminal(ctx, c, cfg, logger)
	}

	return report(c, err, os.Stderr)
}

func newCore(cfg *config.Config, prog *loader.Program, maxInstr uint64, logger logr.Logger) (*core.Core, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	emulator := emu.NewEmulator(
		emu.WithSeed(seed),
		emu.WithMaxInstructions(maxInstr),
	)
	if err := emulator.LoadProgram(prog.Data); err != nil {
		return nil, err
	}
	logger.V(1).Info("loaded", "rom", prog.Name, "bytes", prog.Size(), "seed", seed)

	opts := []core.Option{
		core.WithRates(cfg.ClockHz, cfg.TimerHz),
		core.WithLogger(logger),
	}
	if cfg.FetchCache {
		cacheConfig := cache.DefaultFetchConfig()
		cacheConfig.Size = cfg.Cache.Size
		cacheConfig.Associativity = cfg.Cache.Associativity
		cacheConfig.BlockSize = cfg.Cache.BlockSize
		opts = append(opts, core.WithFetchCache(
			cache.New(cacheConfig, cache.NewMemoryBacking(emulator.Memory()))))
	}

	return core.NewCore(emulator, opts...), nil
}

// report prints the outcome of a run and returns the exit code. A fatal
// machine error is followed by a register dump.
func report(c *core.Core, err error, out io.Writer) int {
	stats := c.Stats()

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return exitOK
	case errors.Is(err, emu.ErrInstructionLimit):
		_, _ = fmt.Fprintf(out, "Stopped: %v after %d instructions\n", err, stats.Instructions)
		return exitOK
	}

	_, _ = fmt.Fprintf(out, "Error: %v\n", err)
	c.Emulator().DumpState(out)
	_, _ = fmt.Fprintf(out, "frames: %d, instructions: %d\n", stats.Frames, stats.Instructions)
	return exitFault
}
