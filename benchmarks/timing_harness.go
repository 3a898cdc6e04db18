package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/core"
)

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Frames is the number of timer ticks until the program finished
	Frames uint64 `json:"frames"`

	// Cycles is the number of CPU cycles run, including key waits
	Cycles uint64 `json:"cycles"`

	// InstructionsRetired is the number of completed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// Redraws is the number of frames that changed the display
	Redraws uint64 `json:"redraws"`

	// FetchCycles is the modeled instruction fetch latency
	FetchCycles uint64 `json:"fetch_cycles,omitempty"`

	// FetchCPI is fetch cycles per instruction
	FetchCPI float64 `json:"fetch_cpi,omitempty"`

	// Fetch cache stats (if cache enabled)
	FetchHits          uint64 `json:"fetch_hits,omitempty"`
	FetchMisses        uint64 `json:"fetch_misses,omitempty"`
	FetchInvalidations uint64 `json:"fetch_invalidations,omitempty"`

	// V0 is the final value of V0
	V0 uint8 `json:"v0"`

	// ExpectedV0 is the value V0 should hold when the program finishes
	ExpectedV0 uint8 `json:"expected_v0"`

	// Finished is true if the program ran off the end of its image
	Finished bool `json:"finished"`

	// Error is the fatal machine error, if any
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Passed reports whether the program finished cleanly with the expected V0.
func (r BenchmarkResult) Passed() bool {
	return r.Finished && r.Error == "" && r.V0 == r.ExpectedV0
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Program is the CHIP-8 image, loaded at 0x200
	Program []byte

	// ExpectedV0 is the expected final V0 (for validation)
	ExpectedV0 uint8
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// EnableFetchCache enables instruction fetch cache simulation
	EnableFetchCache bool

	// FetchCache is the fetch cache geometry and latency
	FetchCache cache.Config

	// ClockHz is the CPU rate
	ClockHz int

	// MaxFrames bounds each run
	MaxFrames int

	// Seed seeds RND
	Seed uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		EnableFetchCache: true,
		FetchCache:       cache.DefaultFetchConfig(),
		ClockHz:          core.DefaultClockHz,
		MaxFrames:        600,
		Seed:             1,
		Output:           os.Stdout,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result := h.runBenchmark(bench)
		results = append(results, result)
	}

	return results
}

// runBenchmark executes a single benchmark.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
		ExpectedV0:  bench.ExpectedV0,
	}

	emulator := emu.NewEmulator(emu.WithSeed(h.config.Seed))
	if err := emulator.LoadProgram(bench.Program); err != nil {
		result.Error = err.Error()
		return result
	}

	opts := []core.Option{core.WithRates(h.config.ClockHz, core.DefaultTimerHz)}
	var fetch *cache.Cache
	if h.config.EnableFetchCache {
		fetch = cache.New(h.config.FetchCache, cache.NewMemoryBacking(emulator.Memory()))
		opts = append(opts, core.WithFetchCache(fetch))
	}
	c := core.NewCore(emulator, opts...)

	// Run simulation and measure time
	start := time.Now()
	err := c.RunFrames(context.Background(), &core.Headless{}, h.config.MaxFrames)
	result.WallTime = time.Since(start)

	stats := c.Stats()
	result.Frames = stats.Frames
	result.Cycles = stats.Cycles
	result.InstructionsRetired = stats.Instructions
	result.Redraws = stats.Redraws
	result.FetchCycles = stats.FetchCycles
	result.V0 = emulator.RegFile().V[0]
	result.Finished = emulator.Finished()
	if err != nil {
		result.Error = err.Error()
	}

	if fetch != nil {
		fs := fetch.Stats()
		result.FetchHits = fs.Hits
		result.FetchMisses = fs.Misses
		result.FetchInvalidations = fs.Invalidations
		if stats.Instructions > 0 {
			result.FetchCPI = float64(stats.FetchCycles) / float64(stats.Instructions)
		}
	}

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== c8sim Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		status := "PASS"
		if !r.Passed() {
			status = "FAIL"
		}

		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s [%s]\n", r.Name, status)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  V0: %d (expected %d)\n", r.V0, r.ExpectedV0)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintln(h.config.Output, "  --- Execution ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Frames:               %d\n", r.Frames)
		_, _ = fmt.Fprintf(h.config.Output, "  Cycles:               %d\n", r.Cycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(h.config.Output, "  Redraws:              %d\n", r.Redraws)

		if r.FetchHits > 0 || r.FetchMisses > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- Fetch Cache ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Hits:          %d\n", r.FetchHits)
			_, _ = fmt.Fprintf(h.config.Output, "  Misses:        %d\n", r.FetchMisses)
			_, _ = fmt.Fprintf(h.config.Output, "  Invalidations: %d\n", r.FetchInvalidations)
			_, _ = fmt.Fprintf(h.config.Output, "  Fetch CPI:     %.3f\n", r.FetchCPI)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,frames,cycles,instructions,redraws,fetch_cycles,fetch_cpi,fetch_hits,fetch_misses,fetch_invalidations,v0,passed")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%d,%d,%.3f,%d,%d,%d,%d,%t\n",
			r.Name,
			r.Frames,
			r.Cycles,
			r.InstructionsRetired,
			r.Redraws,
			r.FetchCycles,
			r.FetchCPI,
			r.FetchHits,
			r.FetchMisses,
			r.FetchInvalidations,
			r.V0,
			r.Passed(),
		)
	}
}

// BenchmarkReport is the JSON document written by PrintJSON.
type BenchmarkReport struct {
	Metadata ReportMetadata    `json:"metadata"`
	Results  []BenchmarkResult `json:"results"`
	Summary  ReportSummary     `json:"summary"`
}

// ReportMetadata describes the run that produced a report.
type ReportMetadata struct {
	Timestamp  string `json:"timestamp"`
	ClockHz    int    `json:"clock_hz"`
	FetchCache bool   `json:"fetch_cache"`
}

// ReportSummary aggregates results across benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// Passed is the number of benchmarks that finished with the expected V0
	Passed int `json:"passed"`

	// TotalInstructions is the sum of all instructions retired
	TotalInstructions uint64 `json:"total_instructions"`

	// AverageFetchCPI is the fetch cycles per instruction over all benchmarks
	AverageFetchCPI float64 `json:"average_fetch_cpi"`

	// TotalWallTime is the total wall clock time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	var totalFetch, totalInstructions uint64
	var totalWallTime time.Duration
	passed := 0
	for _, r := range results {
		totalFetch += r.FetchCycles
		totalInstructions += r.InstructionsRetired
		totalWallTime += r.WallTime
		if r.Passed() {
			passed++
		}
	}

	avgCPI := float64(0)
	if totalInstructions > 0 {
		avgCPI = float64(totalFetch) / float64(totalInstructions)
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			ClockHz:    h.config.ClockHz,
			FetchCache: h.config.EnableFetchCache,
		},
		Results: results,
		Summary: ReportSummary{
			TotalBenchmarks:   len(results),
			Passed:            passed,
			TotalInstructions: totalInstructions,
			AverageFetchCPI:   avgCPI,
			TotalWallTime:     totalWallTime,
		},
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
