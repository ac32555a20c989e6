package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Instructions))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("1", asm.Equate["BIT_AND"])
	assert.Equal("9", asm.Equate["BIT_NAND"])
	assert.Equal("0", asm.Equate["ZF"])
	assert.Equal("3", asm.Equate["LSBF"])
}

func TestAssemblerLayout(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"IMM R1 0 42       ; load",
		"INC R1 R2",
		".loop DEC R3 R3",
		"BRA ZF IF .loop",
		"DW 7",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	mnemonics := []Mnemonic{OP_IMM, OP_INC, OP_DEC, OP_BRA, OP_DW}
	offsets := []int{0, 2, 3, 4, 6}
	sizes := []int{2, 1, 1, 2, 1}

	assert.Equal(len(mnemonics), len(prog.Instructions))
	for n := range prog.Instructions {
		inst := &prog.Instructions[n]
		assert.Equal(mnemonics[n], inst.Mnemonic)
		assert.Equal(offsets[n], inst.Offset)
		assert.Equal(sizes[n], inst.Size())
	}

	assert.Equal(map[string]int{"loop": 3}, prog.Labels)
	assert.Equal("loop", prog.Instructions[2].Label)

	// The branch target resolved to the label's byte offset.
	assert.Equal(Literal(3), prog.Instructions[3].Operands[2])

	assert.Equal(7, prog.Size())
}

func TestAssemblerRegisters(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"MOV R1 R4",
		"MOV 0 3", // bare indices name the registers
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal([]Operand{Register(0), Register(3)}, prog.Instructions[0].Operands)
	assert.Equal(prog.Instructions[0].Operands, prog.Instructions[1].Operands)
}

func TestAssemblerLiterals(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"DW 42",
		"DW 0b1010_1010",
		"DW 255",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	values := []int{42, 0xaa, 255}
	for n, value := range values {
		assert.Equal(Literal(value), prog.Instructions[n].Operands[0])
	}
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".equ ANSWER 42",
		"IMM R1 0 ANSWER",
		"IMM R2 0 $(ANSWER + ANSWER)",
		".equ TRIPLE $(2 * ANSWER + ANSWER)",
		"IMM R3 0 TRIPLE",
		"IMM R4 0 $(LINENO * 8 + 2)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	values := []int{42, 84, 126, 50}
	assert.Equal(len(values), len(prog.Instructions))
	for n, value := range values {
		assert.Equal(Literal(value), prog.Instructions[n].Operands[2])
	}
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("PORT_STATUS", "2")

	prog, err := asm.Parse(strings.NewReader("PLD R1 PORT_STATUS"))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(Literal(2), prog.Instructions[0].Operands[1])
}

func TestAssemblerHalt(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"RET 0",
		"RET 1",
		".end BRA 0 0 .end",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.False(prog.Instructions[0].Halting())
	assert.True(prog.Instructions[1].Halting())
	assert.True(prog.Instructions[2].Halting())
}

func TestAssemblerResolve(t *testing.T) {
	assert := assert.New(t)

	unresolved := []Instruction{
		{Mnemonic: OP_CAL, Operands: []Operand{Literal(0), Literal(0), LabelRef("sub")}, Offset: 0, LineNo: 1},
	}
	labels := map[string]int{"sub": 2}

	resolved, err := Resolve(unresolved, labels)
	assert.NoError(err)
	assert.Equal(Literal(2), resolved[0].Operands[2])

	// The input records are untouched.
	assert.Equal(LabelRef("sub"), unresolved[0].Operands[2])

	_, err = Resolve(unresolved, map[string]int{})
	assert.ErrorIs(err, ErrLabelMissing("sub"))
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
	}){
		{"BOGUS R1 R2", 1},
		{"INC R1", 1},
		{"INC R1 R2 R3", 1},
		{"MOV R1 .label\n.label DW 0\n", 1},
		{"IMM R9 0 1", 1},
		{"IMM 9 0 1", 1},
		{"PLD R1 9", 1},
		{"PST R1 R2", 1},
		{"DW 256", 1},
		{"DW x", 1},
		{"DW", 1},
		{"DW 1 2", 1},
		{".", 1},
		{".loop\n.loop\n", 2},
		{"BRA 0 0 .nowhere", 1},
		{"CAL 0 0 6\nBRA 0 0 .gone\n", 2},
		{".equ", 1},
		{".equ A", 1},
		{".equ A 1\n.equ A 2\n", 2},
		{"DW $(\"aaa\")", 1},
		{"DW $(more(\"aaa\"))", 1},
		{"RET 2 3", 1},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
		}
	}
}

func TestAssemblerErrKinds(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	table := [](struct {
		prog string
		err  error
	}){
		{"BOGUS R1 R2", ErrMnemonicInvalid},
		{"INC R1", ErrOperandCount},
		{"MOV R1 .label\n.label DW 0\n", ErrOperandKind},
		{"IMM 9 0 1", ErrValueRange},
		{"DW 256", ErrValueRange},
		{".loop\n.loop\n", ErrLabelDuplicate},
		{".equ A 1\n.equ A 2\n", ErrEquateDuplicate},
		{".", ErrLabelSyntax},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		assert.ErrorIs(err, entry.err, entry.prog)
	}
}
