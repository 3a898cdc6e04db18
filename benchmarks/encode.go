package benchmarks

// Helper functions for building CHIP-8 programs

// BuildProgram assembles instruction words into a big-endian byte slice.
func BuildProgram(instrs ...uint16) []byte {
	program := make([]byte, 0, len(instrs)*2)
	for _, inst := range instrs {
		program = append(program, byte(inst>>8), byte(inst))
	}
	return program
}

// EncodeJP encodes JP addr.
func EncodeJP(addr uint16) uint16 {
	return 0x1000 | addr&0xFFF
}

// EncodeCALL encodes CALL addr.
func EncodeCALL(addr uint16) uint16 {
	return 0x2000 | addr&0xFFF
}

// EncodeRET encodes RET.
func EncodeRET() uint16 {
	return 0x00EE
}

// EncodeSEImm encodes SE Vx, kk.
func EncodeSEImm(x, kk uint8) uint16 {
	return 0x3000 | uint16(x&0xF)<<8 | uint16(kk)
}

// EncodeLDImm encodes LD Vx, kk.
func EncodeLDImm(x, kk uint8) uint16 {
	return 0x6000 | uint16(x&0xF)<<8 | uint16(kk)
}

// EncodeADDImm encodes ADD Vx, kk.
func EncodeADDImm(x, kk uint8) uint16 {
	return 0x7000 | uint16(x&0xF)<<8 | uint16(kk)
}

// EncodeALU encodes the 8XYN register operations; n selects the operation.
func EncodeALU(x, y, n uint8) uint16 {
	return 0x8000 | uint16(x&0xF)<<8 | uint16(y&0xF)<<4 | uint16(n&0xF)
}

// EncodeLDI encodes LD I, addr.
func EncodeLDI(addr uint16) uint16 {
	return 0xA000 | addr&0xFFF
}

// EncodeDRW encodes DRW Vx, Vy, n.
func EncodeDRW(x, y, n uint8) uint16 {
	return 0xD000 | uint16(x&0xF)<<8 | uint16(y&0xF)<<4 | uint16(n&0xF)
}

// EncodeMisc encodes the FXkk operations; kk selects the operation.
func EncodeMisc(x, kk uint8) uint16 {
	return 0xF000 | uint16(x&0xF)<<8 | uint16(kk)
}

// FXkk selectors for EncodeMisc.
const (
	MiscLDVxDT uint8 = 0x07
	MiscLDDTVx uint8 = 0x15
	MiscLDF    uint8 = 0x29
	MiscLDB    uint8 = 0x33
	MiscStore  uint8 = 0x55
	MiscLoad   uint8 = 0x65
)

// ALUSub selects SUB Vx, Vy in EncodeALU.
const ALUSub uint8 = 0x5
