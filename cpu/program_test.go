package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramBytes(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"IMM R1 0 42",
		"INC R1 R2",
		"DW 7",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	data, err := prog.Bytes()
	assert.NoError(err)
	assert.Equal([]byte{0x09, 0x2a, 0x40, 0x07}, data)
	assert.Equal(len(data), prog.Size())
}

func TestProgramIndexOf(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"IMM R1 0 42", // offset 0
		"INC R1 R2",   // offset 2
		"DEC R1 R1",   // offset 3
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	for n := range prog.Instructions {
		index, ok := prog.IndexOf(prog.Instructions[n].Offset)
		assert.True(ok)
		assert.Equal(n, index)
	}

	// No record starts inside the IMM immediate byte.
	_, ok := prog.IndexOf(1)
	assert.False(ok)
}

func TestProgramDebug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"IMM R1 0 42",
		"INC R1 R2",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	// Both bytes of the two-byte record map back to it.
	assert.Equal(&prog.Instructions[0], prog.Debug(0))
	assert.Equal(&prog.Instructions[0], prog.Debug(1))
	assert.Equal(&prog.Instructions[1], prog.Debug(2))
	assert.Nil(prog.Debug(3))
}

func TestProgramEmpty(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(nil, map[string]int{})
	assert.Equal(0, prog.Size())

	data, err := prog.Bytes()
	assert.NoError(err)
	assert.Equal(0, len(data))
}
