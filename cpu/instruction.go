package cpu

import (
	"strings"
)

// Instruction is one decoded statement: a mnemonic, its ordered operands,
// and the label attached to its position, if any. Size and Offset are
// assigned once during assembly and never change afterwards.
type Instruction struct {
	Mnemonic Mnemonic
	Operands []Operand
	Label    string   // Label attached to this position, without the dot.
	Offset   int      // Byte offset within the encoded image.
	LineNo   int      // Source line the statement came from.
	Words    []string // Source words, for diagnostics.
}

// Size returns the encoded size in bytes. A third operand occupies a
// dedicated immediate/address byte.
func (inst *Instruction) Size() int {
	if len(inst.Operands) == 3 {
		return 2
	}
	return 1
}

// Opcode returns the opcode number, or -1 for the data directive.
func (inst *Instruction) Opcode() int {
	if inst.Mnemonic == OP_DW {
		return -1
	}
	return int(inst.Mnemonic)
}

// Bytes encodes the instruction. Operand one occupies bits 6-7, operand
// zero bits 4-5, the opcode bits 0-3; a third operand is emitted verbatim
// as the second byte. The data directive emits its literal as one raw
// byte. Every operand must already be resolved to a literal.
func (inst *Instruction) Bytes() (data []byte, err error) {
	for _, op := range inst.Operands {
		if !op.Resolved() {
			err = &ErrUnresolved{LineNo: inst.LineNo, Statement: inst.String(), Name: op.Name}
			return
		}
	}

	if inst.Mnemonic == OP_DW {
		data = []byte{byte(inst.Operands[0].Value)}
		return
	}

	word := byte(inst.Mnemonic) & 0xf
	if len(inst.Operands) > 0 {
		word |= byte(inst.Operands[0].Value&0x3) << 4
	}
	if len(inst.Operands) > 1 {
		word |= byte(inst.Operands[1].Value&0x3) << 6
	}

	data = append(data, word)
	if len(inst.Operands) == 3 {
		data = append(data, byte(inst.Operands[2].Value))
	}

	return
}

// Halting reports whether the instruction can only terminate the program:
// a branch whose resolved target is its own offset, or RET with operand 1.
func (inst *Instruction) Halting() bool {
	switch inst.Mnemonic {
	case OP_BRA:
		target := inst.Operands[2]
		return target.Kind == OPERAND_LITERAL && target.Value == inst.Offset
	case OP_RET:
		return len(inst.Operands) == 1 && inst.Operands[0].Value == 1
	}

	return false
}

// String returns the assembly language representation of the instruction.
func (inst *Instruction) String() string {
	parts := []string{inst.Mnemonic.String()}
	for _, op := range inst.Operands {
		parts = append(parts, op.String())
	}

	return strings.Join(parts, " ")
}
