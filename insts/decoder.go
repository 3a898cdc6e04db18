package insts

// Op represents a CHIP-8 operation.
type Op uint8

// CHIP-8 operations.
const (
	OpUnknown Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1NNN
	OpCALL       // 2NNN
	OpSEImm      // 3XKK
	OpSNEImm     // 4XKK
	OpSEReg      // 5XY0
	OpLDImm      // 6XKK
	OpADDImm     // 7XKK
	OpLDReg      // 8XY0
	OpOR         // 8XY1
	OpAND        // 8XY2
	OpXOR        // 8XY3
	OpADD        // 8XY4
	OpSUB        // 8XY5
	OpSHR        // 8XY6
	OpSUBN       // 8XY7
	OpSHL        // 8XYE
	OpSNEReg     // 9XY0
	OpLDI        // ANNN
	OpJPV0       // BNNN
	OpRND        // CXKK
	OpDRW        // DXYN
	OpSKP        // EX9E
	OpSKNP       // EXA1
	OpLDVxDT     // FX07
	OpLDVxK      // FX0A
	OpLDDTVx     // FX15
	OpLDSTVx     // FX18
	OpADDI       // FX1E
	OpLDF        // FX29
	OpLDB        // FX33
	OpLDIVx      // FX55
	OpLDVxI      // FX65
)

// Format groups operations by the machine resources they touch.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatDisplay        // CLS
	FormatFlow           // RET, JP, CALL, JP V0
	FormatSkip           // SE, SNE, SKP, SKNP
	FormatALU            // register loads, arithmetic and logic, RND
	FormatIndex          // LD I, ADD I, LD F
	FormatDraw           // DRW
	FormatTimer          // delay and sound timer transfers
	FormatKeyWait        // LD Vx, K
	FormatMemory         // LD B, LD [I], LD Vx, [I]
)

// Instruction represents a decoded CHIP-8 instruction.
type Instruction struct {
	Op     Op     // Operation
	Format Format // Resource group
	Word   uint16 // Raw instruction word

	X   uint8  // Register index from bits [11:8]
	Y   uint8  // Register index from bits [7:4]
	N   uint8  // Nibble from bits [3:0]
	KK  uint8  // Immediate byte from bits [7:0]
	NNN uint16 // Address from bits [11:0]
}

// Decoder decodes CHIP-8 instruction words into instructions.
type Decoder struct{}

// NewDecoder creates a new CHIP-8 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 16-bit big-endian CHIP-8 instruction word.
// Words that do not map to a CHIP-8 operation decode to OpUnknown.
func (d *Decoder) Decode(word uint16) *Instruction {
	inst := &Instruction{
		Op:     OpUnknown,
		Format: FormatUnknown,
		Word:   word,
		X:      uint8(word>>8) & 0xF,
		Y:      uint8(word>>4) & 0xF,
		N:      uint8(word) & 0xF,
		KK:     uint8(word),
		NNN:    word & 0x0FFF,
	}

	switch word >> 12 {
	case 0x0:
		d.decodeSystem(word, inst)
	case 0x1:
		inst.set(OpJP, FormatFlow)
	case 0x2:
		inst.set(OpCALL, FormatFlow)
	case 0x3:
		inst.set(OpSEImm, FormatSkip)
	case 0x4:
		inst.set(OpSNEImm, FormatSkip)
	case 0x5:
		if inst.N == 0 {
			inst.set(OpSEReg, FormatSkip)
		}
	case 0x6:
		inst.set(OpLDImm, FormatALU)
	case 0x7:
		inst.set(OpADDImm, FormatALU)
	case 0x8:
		d.decodeALU(inst)
	case 0x9:
		if inst.N == 0 {
			inst.set(OpSNEReg, FormatSkip)
		}
	case 0xA:
		inst.set(OpLDI, FormatIndex)
	case 0xB:
		inst.set(OpJPV0, FormatFlow)
	case 0xC:
		inst.set(OpRND, FormatALU)
	case 0xD:
		inst.set(OpDRW, FormatDraw)
	case 0xE:
		d.decodeKeySkip(inst)
	case 0xF:
		d.decodeMisc(inst)
	}

	return inst
}

func (inst *Instruction) set(op Op, format Format) {
	inst.Op = op
	inst.Format = format
}

// decodeSystem decodes the 0NNN group. Only 00E0 and 00EE are implemented;
// machine-code calls (SYS addr) are left unknown.
func (d *Decoder) decodeSystem(word uint16, inst *Instruction) {
	switch word {
	case 0x00E0:
		inst.set(OpCLS, FormatDisplay)
	case 0x00EE:
		inst.set(OpRET, FormatFlow)
	}
}

// decodeALU decodes the 8XYN register-register group, selected by N.
func (d *Decoder) decodeALU(inst *Instruction) {
	switch inst.N {
	case 0x0:
		inst.set(OpLDReg, FormatALU)
	case 0x1:
		inst.set(OpOR, FormatALU)
	case 0x2:
		inst.set(OpAND, FormatALU)
	case 0x3:
		inst.set(OpXOR, FormatALU)
	case 0x4:
		inst.set(OpADD, FormatALU)
	case 0x5:
		inst.set(OpSUB, FormatALU)
	case 0x6:
		inst.set(OpSHR, FormatALU)
	case 0x7:
		inst.set(OpSUBN, FormatALU)
	case 0xE:
		inst.set(OpSHL, FormatALU)
	}
}

// decodeKeySkip decodes the EXKK group, selected by KK.
func (d *Decoder) decodeKeySkip(inst *Instruction) {
	switch inst.KK {
	case 0x9E:
		inst.set(OpSKP, FormatSkip)
	case 0xA1:
		inst.set(OpSKNP, FormatSkip)
	}
}

// decodeMisc decodes the FXKK group, selected by KK.
func (d *Decoder) decodeMisc(inst *Instruction) {
	switch inst.KK {
	case 0x07:
		inst.set(OpLDVxDT, FormatTimer)
	case 0x0A:
		inst.set(OpLDVxK, FormatKeyWait)
	case 0x15:
		inst.set(OpLDDTVx, FormatTimer)
	case 0x18:
		inst.set(OpLDSTVx, FormatTimer)
	case 0x1E:
		inst.set(OpADDI, FormatIndex)
	case 0x29:
		inst.set(OpLDF, FormatIndex)
	case 0x33:
		inst.set(OpLDB, FormatMemory)
	case 0x55:
		inst.set(OpLDIVx, FormatMemory)
	case 0x65:
		inst.set(OpLDVxI, FormatMemory)
	}
}
