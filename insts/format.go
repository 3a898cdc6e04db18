package insts

import "fmt"

var mnemonics = map[Op]string{
	OpCLS:    "CLS",
	OpRET:    "RET",
	OpJP:     "JP",
	OpCALL:   "CALL",
	OpSEImm:  "SE",
	OpSNEImm: "SNE",
	OpSEReg:  "SE",
	OpLDImm:  "LD",
	OpADDImm: "ADD",
	OpLDReg:  "LD",
	OpOR:     "OR",
	OpAND:    "AND",
	OpXOR:    "XOR",
	OpADD:    "ADD",
	OpSUB:    "SUB",
	OpSHR:    "SHR",
	OpSUBN:   "SUBN",
	OpSHL:    "SHL",
	OpSNEReg: "SNE",
	OpLDI:    "LD",
	OpJPV0:   "JP",
	OpRND:    "RND",
	OpDRW:    "DRW",
	OpSKP:    "SKP",
	OpSKNP:   "SKNP",
	OpLDVxDT: "LD",
	OpLDVxK:  "LD",
	OpLDDTVx: "LD",
	OpLDSTVx: "LD",
	OpADDI:   "ADD",
	OpLDF:    "LD",
	OpLDB:    "LD",
	OpLDIVx:  "LD",
	OpLDVxI:  "LD",
}

// Name returns the assembler mnemonic of the operation.
// Unknown operations are rendered as a data word directive.
func (op Op) Name() string {
	if name, ok := mnemonics[op]; ok {
		return name
	}
	return "DW"
}

// String formats the instruction in assembler syntax, e.g. "DRW V0, V1, $5".
func (inst *Instruction) String() string {
	params := inst.operands()
	if params == "" {
		return inst.Op.Name()
	}
	return inst.Op.Name() + " " + params
}

func (inst *Instruction) operands() string {
	switch inst.Op {
	case OpCLS, OpRET:
		return ""
	case OpJP, OpCALL:
		return fmt.Sprintf("$%03X", inst.NNN)
	case OpJPV0:
		return fmt.Sprintf("V0, $%03X", inst.NNN)
	case OpSEImm, OpSNEImm, OpLDImm, OpADDImm, OpRND:
		return fmt.Sprintf("V%X, $%02X", inst.X, inst.KK)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADD, OpSUB, OpSUBN:
		return fmt.Sprintf("V%X, V%X", inst.X, inst.Y)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("V%X", inst.X)
	case OpLDI:
		return fmt.Sprintf("I, $%03X", inst.NNN)
	case OpDRW:
		return fmt.Sprintf("V%X, V%X, $%X", inst.X, inst.Y, inst.N)
	case OpLDVxDT:
		return fmt.Sprintf("V%X, DT", inst.X)
	case OpLDVxK:
		return fmt.Sprintf("V%X, K", inst.X)
	case OpLDDTVx:
		return fmt.Sprintf("DT, V%X", inst.X)
	case OpLDSTVx:
		return fmt.Sprintf("ST, V%X", inst.X)
	case OpADDI:
		return fmt.Sprintf("I, V%X", inst.X)
	case OpLDF:
		return fmt.Sprintf("F, V%X", inst.X)
	case OpLDB:
		return fmt.Sprintf("B, V%X", inst.X)
	case OpLDIVx:
		return fmt.Sprintf("[I], V%X", inst.X)
	case OpLDVxI:
		return fmt.Sprintf("V%X, [I]", inst.X)
	}
	return fmt.Sprintf("$%04X", inst.Word)
}
