package cpu

import (
	"fmt"
)

// OperandKind is the form of a single instruction argument.
type OperandKind int

//go:generate go tool stringer -linecomment -type=OperandKind
const (
	OPERAND_REGISTER = OperandKind(0) // register
	OPERAND_LITERAL  = OperandKind(1) // literal
	OPERAND_LABEL    = OperandKind(2) // label
)

// Operand is one instruction argument: a register index, a literal byte,
// or a label reference. A label operand carries only a name until the
// second assembler pass rewrites it to the literal offset of its target.
type Operand struct {
	Kind  OperandKind
	Value int    // Register index or literal value.
	Name  string // Label name, when Kind is OPERAND_LABEL.
}

// Register creates a register-index operand.
func Register(index int) Operand {
	return Operand{Kind: OPERAND_REGISTER, Value: index}
}

// Literal creates a literal operand.
func Literal(value int) Operand {
	return Operand{Kind: OPERAND_LITERAL, Value: value}
}

// LabelRef creates an unresolved label-reference operand.
func LabelRef(name string) Operand {
	return Operand{Kind: OPERAND_LABEL, Name: name}
}

// Resolved reports whether the operand can be encoded as-is.
func (op Operand) Resolved() bool {
	return op.Kind != OPERAND_LABEL
}

// String returns the assembly language representation of the operand.
func (op Operand) String() string {
	switch op.Kind {
	case OPERAND_REGISTER:
		return fmt.Sprintf("R%d", op.Value+1)
	case OPERAND_LABEL:
		return "." + op.Name
	default:
		return fmt.Sprintf("%d", op.Value)
	}
}
