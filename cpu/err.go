package cpu

import (
	"errors"

	"github.com/ReFruity/arpuemu/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrStackEmpty = errors.New(f("stack empty"))

	// Assembler errors
	ErrMnemonicInvalid = errors.New(f("mnemonic invalid"))
	ErrOperandCount    = errors.New(f("operand count invalid"))
	ErrOperandKind     = errors.New(f("operand kind invalid"))
	ErrValueRange      = errors.New(f("value out of range"))
	ErrLabelSyntax     = errors.New(f("label syntax"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax locates an assembly error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrUnresolved reports an encoding attempt on a statement whose label
// reference was never rewritten to a literal.
type ErrUnresolved struct {
	LineNo    int
	Statement string
	Name      string
}

func (err ErrUnresolved) Error() string {
	return f("line %d '%v' label %v unresolved", err.LineNo, err.Statement, err.Name)
}
