// Package insts provides CHIP-8 instruction definitions and decoding.
//
// This package implements decoding of 16-bit CHIP-8 instruction words into
// structured instruction representations. Every instruction of the original
// CHIP-8 set is supported:
//   - Flow: CLS, RET, JP, CALL, JP V0
//   - Skips: SE, SNE (immediate and register), SKP, SKNP
//   - Register loads and ALU: LD, ADD, OR, AND, XOR, SUB, SUBN, SHR, SHL, RND
//   - Index, timer, font, BCD and bulk register transfers (the FX group)
//   - DRW sprite drawing
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x6A2F) // LD VA, $2F
//	fmt.Printf("Op: %v, X: %d, KK: %d\n", inst.Op, inst.X, inst.KK)
package insts
