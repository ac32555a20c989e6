package emulator

import (
	"errors"

	"github.com/ReFruity/arpuemu/translate"
)

var f = translate.From

var (
	ErrProgramEnd     = errors.New(f("program end"))
	ErrPortPending    = errors.New(f("port input pending"))
	ErrPortNotPending = errors.New(f("port input not pending"))
	ErrPortMnemonic   = errors.New(f("pending record is not a port read"))
	ErrExecuteData    = errors.New(f("data word is not executable"))
	ErrBitFunction    = errors.New(f("bit function invalid"))
	ErrStackMode      = errors.New(f("stack mode invalid"))
)

type ErrOffsetUnknown int

func (err ErrOffsetUnknown) Error() string {
	return f("no instruction at offset %d", int(err))
}

// ErrRamCapacity reports a RAM seed larger than the RAM itself.
type ErrRamCapacity struct {
	Size  int
	Limit int
}

func (err *ErrRamCapacity) Error() string {
	return f("ram image %d bytes exceeds capacity %d", err.Size, err.Limit)
}

// ErrRuntime indicates the source location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
