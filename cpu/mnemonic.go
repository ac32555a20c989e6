package cpu

import (
	"fmt"
)

const (
	REGISTER_COUNT = 4 // General purpose registers R1-R4.
	PORT_COUNT     = 4 // Input and output ports, one byte each.
)

// Mnemonic is the symbolic name of an instruction. The sixteen executable
// mnemonics are numbered by their opcode; DW is a data directive and has
// no opcode.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	OP_INC = Mnemonic(0)  // INC
	OP_DEC = Mnemonic(1)  // DEC
	OP_ADD = Mnemonic(2)  // ADD
	OP_SUB = Mnemonic(3)  // SUB
	OP_RSH = Mnemonic(4)  // RSH
	OP_BIT = Mnemonic(5)  // BIT
	OP_MOV = Mnemonic(6)  // MOV
	OP_STR = Mnemonic(7)  // STR
	OP_LOD = Mnemonic(8)  // LOD
	OP_IMM = Mnemonic(9)  // IMM
	OP_PLD = Mnemonic(10) // PLD
	OP_PST = Mnemonic(11) // PST
	OP_SOP = Mnemonic(12) // SOP
	OP_BRA = Mnemonic(13) // BRA
	OP_CAL = Mnemonic(14) // CAL
	OP_RET = Mnemonic(15) // RET
	OP_DW  = Mnemonic(16) // DW
)

// BIT sub-opcode byte. AND, OR and XOR combine both registers; the invert
// bit turns them into NAND, NOR and XNOR; NOT is unary and complements the
// source register only.
const (
	BIT_AND    = 1 << 0
	BIT_OR     = 1 << 1
	BIT_XOR    = 1 << 2
	BIT_INVERT = 1 << 3
	BIT_NOT    = 1 << 4
)

// BRA flag selectors, one per processor flag.
const (
	FLAG_ZF    = 0 // zero
	FLAG_COUTF = 1 // carry-out / no-borrow
	FLAG_MSBF  = 2 // bit 7 of last ALU result
	FLAG_LSBF  = 3 // bit 0 of last ALU result
)

// BRA control byte. With BRA_COND clear the branch is unconditional;
// otherwise it jumps iff the selected flag differs from BRA_NEGATE.
const (
	BRA_COND   = 1 << 0
	BRA_NEGATE = 1 << 1
)

// SOP modes.
const (
	SOP_PUSH = 0
	SOP_POP  = 1
)

// mnemonicMap maps source mnemonics to their instruction kind.
var mnemonicMap = map[string]Mnemonic{
	"INC": OP_INC,
	"DEC": OP_DEC,
	"ADD": OP_ADD,
	"SUB": OP_SUB,
	"RSH": OP_RSH,
	"BIT": OP_BIT,
	"MOV": OP_MOV,
	"STR": OP_STR,
	"LOD": OP_LOD,
	"IMM": OP_IMM,
	"PLD": OP_PLD,
	"PST": OP_PST,
	"SOP": OP_SOP,
	"BRA": OP_BRA,
	"CAL": OP_CAL,
	"RET": OP_RET,
	"DW":  OP_DW,
}

// regMap maps register names to their bank index.
var regMap = map[string]int{
	"R1": 0,
	"R2": 1,
	"R3": 2,
	"R4": 3,
}

// OperandClass constrains what may stand in an operand position.
type OperandClass int

//go:generate go tool stringer -linecomment -type=OperandClass
const (
	CLASS_REG    = OperandClass(0) // register
	CLASS_FIELD  = OperandClass(1) // 2-bit value
	CLASS_BYTE   = OperandClass(2) // byte value
	CLASS_TARGET = OperandClass(3) // byte value or label
)

// opShape is the operand shape a mnemonic accepts.
type opShape struct {
	Counts  []int          // Permitted operand counts.
	Classes []OperandClass // Class per operand position.
}

var opShapes = map[Mnemonic]opShape{
	OP_INC: {[]int{2}, []OperandClass{CLASS_REG, CLASS_REG}},
	OP_DEC: {[]int{2}, []OperandClass{CLASS_REG, CLASS_REG}},
	OP_ADD: {[]int{2}, []OperandClass{CLASS_REG, CLASS_REG}},
	OP_SUB: {[]int{2}, []OperandClass{CLASS_REG, CLASS_REG}},
	OP_RSH: {[]int{2}, []OperandClass{CLASS_REG, CLASS_REG}},
	OP_BIT: {[]int{3}, []OperandClass{CLASS_REG, CLASS_REG, CLASS_BYTE}},
	OP_MOV: {[]int{2}, []OperandClass{CLASS_REG, CLASS_REG}},
	OP_STR: {[]int{2}, []OperandClass{CLASS_REG, CLASS_REG}},
	OP_LOD: {[]int{2}, []OperandClass{CLASS_REG, CLASS_REG}},
	OP_IMM: {[]int{3}, []OperandClass{CLASS_REG, CLASS_FIELD, CLASS_TARGET}},
	OP_PLD: {[]int{2}, []OperandClass{CLASS_REG, CLASS_FIELD}},
	OP_PST: {[]int{2}, []OperandClass{CLASS_FIELD, CLASS_REG}},
	OP_SOP: {[]int{2}, []OperandClass{CLASS_FIELD, CLASS_REG}},
	OP_BRA: {[]int{3}, []OperandClass{CLASS_FIELD, CLASS_FIELD, CLASS_TARGET}},
	OP_CAL: {[]int{3}, []OperandClass{CLASS_FIELD, CLASS_FIELD, CLASS_TARGET}},
	OP_RET: {[]int{0, 1}, []OperandClass{CLASS_FIELD}},
	OP_DW:  {[]int{1}, []OperandClass{CLASS_BYTE}},
}

var _cpu_defines = map[string]string{
	"BIT_AND":        fmt.Sprintf("%v", BIT_AND),
	"BIT_OR":         fmt.Sprintf("%v", BIT_OR),
	"BIT_XOR":        fmt.Sprintf("%v", BIT_XOR),
	"BIT_NAND":       fmt.Sprintf("%v", BIT_AND|BIT_INVERT),
	"BIT_NOR":        fmt.Sprintf("%v", BIT_OR|BIT_INVERT),
	"BIT_XNOR":       fmt.Sprintf("%v", BIT_XOR|BIT_INVERT),
	"BIT_NOT":        fmt.Sprintf("%v", BIT_NOT),
	"ZF":             fmt.Sprintf("%v", FLAG_ZF),
	"COUTF":          fmt.Sprintf("%v", FLAG_COUTF),
	"MSBF":           fmt.Sprintf("%v", FLAG_MSBF),
	"LSBF":           fmt.Sprintf("%v", FLAG_LSBF),
	"ALWAYS":         "0",
	"IF":             fmt.Sprintf("%v", BRA_COND),
	"IF_NOT":         fmt.Sprintf("%v", BRA_COND|BRA_NEGATE),
	"PUSH":           fmt.Sprintf("%v", SOP_PUSH),
	"POP":            fmt.Sprintf("%v", SOP_POP),
	"PORT_COUNT":     fmt.Sprintf("%v", PORT_COUNT),
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
}
