// Package main provides the entry point for c8sim.
// c8sim is a CHIP-8 interpreter that runs in the terminal.
//
// For the full CLI, use: go run ./cmd/c8sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("c8sim - CHIP-8 Interpreter")
	fmt.Println("")
	fmt.Println("Usage: c8sim [options] <rom.ch8>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to a JSON or YAML configuration file")
	fmt.Println("  -hz        Instructions per second (default 500)")
	fmt.Println("  -dis       Print a disassembly of the ROM and exit")
	fmt.Println("  -headless  Run without a terminal and print the final frame")
	fmt.Println("  -v         Log verbosity (1 = lifecycle, 2 = instruction trace)")
	fmt.Println("")
	fmt.Println("Keys: 1234/QWER/ASDF/ZXCV, Ctrl+R resets, Esc quits.")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/c8sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/c8sim' instead.")
	}
}
