// Package benchmarks provides CHIP-8 microbenchmarks and a harness that runs
// them through the frame-driven core.
package benchmarks

// GetMicrobenchmarks returns the standard set of microbenchmarks.
// Each benchmark targets one part of the machine and ends by running off the
// end of its image with a known value in V0.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		countingLoop(),
		callReturn(),
		fontDraw(),
		bcdStoreLoad(),
		timerWait(),
		subtractBorrow(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation: a loop,
// subroutine calls and self-modifying stores.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		countingLoop(),
		callReturn(),
		bcdStoreLoad(),
	}
}

// 1. Counting loop - ALU, skip and jump throughput
func countingLoop() Benchmark {
	return Benchmark{
		Name:        "counting_loop",
		Description: "count V0 to 200 with ADD, SE, JP - tight loop in one fetch line",
		Program: BuildProgram(
			EncodeLDImm(0, 0),   // 200: V0 = 0
			EncodeADDImm(0, 1),  // 202: V0 += 1
			EncodeSEImm(0, 200), // 204: skip when V0 == 200
			EncodeJP(0x202),     // 206
		),
		ExpectedV0: 200,
	}
}

// 2. Call/return - stack push and pop
func callReturn() Benchmark {
	return Benchmark{
		Name:        "call_return",
		Description: "32 calls to a subroutine adding 2 to V0 - stack traffic",
		Program: BuildProgram(
			EncodeLDImm(0, 0),  // 200: V0 = 0
			EncodeLDImm(1, 0),  // 202: V1 = 0
			EncodeCALL(0x20E),  // 204
			EncodeADDImm(1, 1), // 206: V1 += 1
			EncodeSEImm(1, 32), // 208: skip when V1 == 32
			EncodeJP(0x204),    // 20A
			EncodeJP(0x212),    // 20C: to the end of the image
			EncodeADDImm(0, 2), // 20E: subroutine
			EncodeRET(),        // 210
		),
		ExpectedV0: 64,
	}
}

// 3. Font draw - sprite XOR and font lookup
func fontDraw() Benchmark {
	return Benchmark{
		Name:        "font_draw",
		Description: "draw the 16 font digits in a row - display writes with wrapping",
		Program: BuildProgram(
			EncodeLDImm(0, 0),      // 200: V0 = digit
			EncodeLDImm(1, 0),      // 202: V1 = x
			EncodeLDImm(2, 0),      // 204: V2 = y
			EncodeMisc(0, MiscLDF), // 206: I = font(V0)
			EncodeDRW(1, 2, 5),     // 208
			EncodeADDImm(1, 5),     // 20A
			EncodeADDImm(0, 1),     // 20C
			EncodeSEImm(0, 16),     // 20E
			EncodeJP(0x206),        // 210
		),
		ExpectedV0: 16,
	}
}

// 4. BCD store/load - stores into the fetch line being executed
func bcdStoreLoad() Benchmark {
	return Benchmark{
		Name:        "bcd_store_load",
		Description: "BCD of V3 stored next to the code and loaded back - fetch invalidations",
		Program: BuildProgram(
			EncodeLDImm(3, 0),       // 200: V3 = 0
			EncodeLDI(0x20E),        // 202: I = scratch, just past the image
			EncodeMisc(3, MiscLDB),  // 204: [I] = BCD(V3)
			EncodeMisc(2, MiscLoad), // 206: V0..V2 = [I]
			EncodeADDImm(3, 17),     // 208
			EncodeSEImm(3, 14*17),   // 20A
			EncodeJP(0x202),         // 20C
		),
		// the last BCD is of 13*17 = 221
		ExpectedV0: 2,
	}
}

// 5. Timer wait - busy wait on the delay timer across frames
func timerWait() Benchmark {
	return Benchmark{
		Name:        "timer_wait",
		Description: "spin until a delay of 10 ticks expires - frame pacing",
		Program: BuildProgram(
			EncodeLDImm(0, 10),        // 200
			EncodeMisc(0, MiscLDDTVx), // 202: DT = 10
			EncodeMisc(0, MiscLDVxDT), // 204: V0 = DT
			EncodeSEImm(0, 0),         // 206
			EncodeJP(0x204),           // 208
		),
		ExpectedV0: 0,
	}
}

// 6. Subtract with borrow - VF flag handling
func subtractBorrow() Benchmark {
	return Benchmark{
		Name:        "subtract_borrow",
		Description: "subtract 1 from V0 until VF reports a borrow",
		Program: BuildProgram(
			EncodeLDImm(0, 16),      // 200
			EncodeLDImm(1, 1),       // 202
			EncodeALU(0, 1, ALUSub), // 204: V0 -= V1
			EncodeSEImm(0xF, 0),     // 206: skip on borrow
			EncodeJP(0x204),         // 208
		),
		ExpectedV0: 0xFF,
	}
}
