// Package ports provides pluggable devices behind the ARPU I/O ports.
// Devices are not part of the emulator core: they automate supplying
// PortInput in a driver loop, and collect port writes.
package ports

import (
	"io"
)

// Device supplies values for port reads and accepts port writes.
type Device interface {
	Read() (value byte, ok bool) // Next input value; ok is false when exhausted.
	Write(value byte)            // Accept an output value.
}

// Tape is a Device backed by a byte reader and writer. A nil Input reads
// as exhausted; a nil Output discards writes.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

func (t *Tape) Read() (value byte, ok bool) {
	if t.Input == nil {
		return
	}

	var one [1]byte
	_, err := io.ReadFull(t.Input, one[:])
	if err != nil {
		return
	}

	return one[0], true
}

func (t *Tape) Write(value byte) {
	if t.Output == nil {
		return
	}

	t.Output.Write([]byte{value})
}

// Buffer is a Device over in-memory byte slices.
type Buffer struct {
	In  []byte // Values to supply, consumed front to back.
	Out []byte // Values written.
}

func (b *Buffer) Read() (value byte, ok bool) {
	if len(b.In) == 0 {
		return
	}

	value = b.In[0]
	b.In = b.In[1:]

	return value, true
}

func (b *Buffer) Write(value byte) {
	b.Out = append(b.Out, value)
}
