// Command benchmark runs the c8sim microbenchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv             Output results in CSV format (default: human-readable)
//	-json            Output results as a JSON report
//	-no-fetch-cache  Disable instruction fetch cache simulation
//	-core            Run only the core benchmark subset
//
// Example:
//
//	# Run all benchmarks with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/c8sim/benchmarks"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as a JSON report")
	noFetchCache := flag.Bool("no-fetch-cache", false, "Disable instruction fetch cache simulation")
	coreOnly := flag.Bool("core", false, "Run only the core benchmark subset")
	hz := flag.Int("hz", benchmarks.DefaultConfig().ClockHz, "Instructions per second")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.EnableFetchCache = !*noFetchCache
	config.ClockHz = *hz
	config.Output = os.Stdout

	if config.ClockHz < 60 {
		fmt.Fprintf(os.Stderr, "Error: -hz must be at least 60\n")
		os.Exit(1)
	}

	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	human := !*csvOutput && !*jsonOutput
	if human {
		fmt.Println("c8sim Benchmark Harness")
		fmt.Println("=======================")
		fmt.Printf("Clock: %d Hz\n", config.ClockHz)
		fmt.Printf("Fetch cache: %v\n", config.EnableFetchCache)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	for _, r := range results {
		if !r.Passed() {
			if human {
				fmt.Printf("%s did not produce the expected result\n", r.Name)
			}
			os.Exit(2)
		}
	}
}
