package ports

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTape(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	tape := &Tape{
		Input:  bytes.NewReader([]byte{1, 2}),
		Output: &out,
	}

	value, ok := tape.Read()
	assert.True(ok)
	assert.Equal(byte(1), value)

	value, ok = tape.Read()
	assert.True(ok)
	assert.Equal(byte(2), value)

	_, ok = tape.Read()
	assert.False(ok)

	tape.Write(7)
	tape.Write(8)
	assert.Equal([]byte{7, 8}, out.Bytes())
}

func TestTapeNil(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}

	_, ok := tape.Read()
	assert.False(ok)

	// Writes with no output are discarded.
	tape.Write(7)
}

func TestBuffer(t *testing.T) {
	assert := assert.New(t)

	buf := &Buffer{In: []byte{5, 6}}

	value, ok := buf.Read()
	assert.True(ok)
	assert.Equal(byte(5), value)

	buf.Write(10)

	value, ok = buf.Read()
	assert.True(ok)
	assert.Equal(byte(6), value)

	_, ok = buf.Read()
	assert.False(ok)

	buf.Write(11)
	assert.Equal([]byte{10, 11}, buf.Out)
}
