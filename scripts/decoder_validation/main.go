// Validate the decoder over the whole 16-bit instruction space - coverage per
// operation and decode cost
package main

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/sarchlab/c8sim/insts"
)

// expectedKnown is the number of words that decode to a defined operation:
// 2 fixed words, 10 full-nibble groups, 2 register-compare groups, 9 ALU
// groups, 2 key-skip groups and 9 FX groups.
const expectedKnown = 2 + 10*4096 + 2*256 + 9*256 + 2*16 + 9*16

func main() {
	decoder := insts.NewDecoder()
	counts := make(map[insts.Op]int)
	samples := make(map[insts.Op]string)
	known := 0

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)
	start := time.Now()

	for w := 0; w <= 0xFFFF; w++ {
		inst := decoder.Decode(uint16(w))
		if inst.Op == insts.OpUnknown {
			continue
		}
		known++
		if counts[inst.Op] == 0 {
			samples[inst.Op] = inst.String()
		}
		counts[inst.Op]++
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	fmt.Printf("Decoder Validation Results:\n")
	fmt.Printf("===========================\n")
	fmt.Printf("Words decoded: %d\n", 0x10000)
	fmt.Printf("Defined: %d (expected %d)\n", known, expectedKnown)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(0x10000)/elapsed.Seconds())
	fmt.Printf("Allocations: %d (%.2f per decode)\n",
		m2.Mallocs-m1.Mallocs, float64(m2.Mallocs-m1.Mallocs)/float64(0x10000))
	fmt.Println()

	ops := make([]insts.Op, 0, len(counts))
	for op := range counts {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	for _, op := range ops {
		fmt.Printf("  %-16s %6d\n", samples[op], counts[op])
	}

	if known != expectedKnown {
		fmt.Println("\nFAIL: defined word count mismatch")
		os.Exit(1)
	}
	fmt.Println("\nPASS")
}
