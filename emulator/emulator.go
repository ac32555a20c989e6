// Copyright 2026, ReFruity <refruity@users.noreply.github.com>

// Package emulator executes resolved ARPU programs one instruction per
// step, exposing the full machine state after every step.
package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/ReFruity/arpuemu/cpu"
	"github.com/ReFruity/arpuemu/internal"
)

const (
	RAM_SIZE = 256 // RAM bytes; every register-held index addresses a valid cell.
)

var _emulator_defines = map[string]string{
	"RAM_SIZE": fmt.Sprintf("%v", RAM_SIZE),
}

// Defines returns the predefined equates published to the assembler.
func Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines), cpu.Defines())
}

// Emulator owns the full ARPU machine state. It executes directly against
// the resolved instruction records; the encoded image is kept for display
// only. A single record index is authoritative for the execution position,
// and PC derives from it through the program's offset table.
type Emulator struct {
	Verbose bool // Set to enable verbose logging.

	Program *cpu.Program // The resolved instruction records.
	Memory  []byte       // Encoded program-memory image, display only.

	Register [cpu.REGISTER_COUNT]byte // Register bank, wraps at 255.
	Index    int                      // Index of the record about to execute.

	ZF    bool // Last ALU result was zero.
	COUTF bool // Carry-out on ADD, no-borrow on SUB.
	MSBF  bool // Bit 7 of the last ALU result.
	LSBF  bool // Bit 0 of the last ALU result.

	Ram   [RAM_SIZE]byte
	Stack cpu.Stack

	InputPort        [cpu.PORT_COUNT]byte // Last value received per port.
	OutputPort       [cpu.PORT_COUNT]byte // Last value written per port.
	WaitingPortInput bool                 // True strictly between a port read and its value.

	Cycle int // Incremented by the executed record's byte size.

	// OutputHook, when set, observes every port write.
	OutputHook func(port int, value byte)

	halted bool
}

// NewEmulator assembles and encodes the source text eagerly. No emulator
// is produced if assembly fails.
func NewEmulator(source io.Reader) (emu *Emulator, err error) {
	asm := &cpu.Assembler{}
	for key, val := range Defines() {
		asm.Predefine(key, val)
	}

	prog, err := asm.Parse(source)
	if err != nil {
		return
	}

	memory, err := prog.Bytes()
	if err != nil {
		return
	}

	emu = &Emulator{
		Program: prog,
		Memory:  memory,
	}

	return
}

// PC returns the byte offset of the record about to execute, derived from
// the offset table. Past the final record it equals the program size.
func (emu *Emulator) PC() int {
	if emu.Index < len(emu.Program.Instructions) {
		return emu.Program.Instructions[emu.Index].Offset
	}

	return emu.Program.Size()
}

// Halted reports the logical termination condition: a RET with operand 1
// has executed, or the record about to execute can only loop on itself.
// Execution is never stopped automatically; the caller decides.
func (emu *Emulator) Halted() bool {
	if emu.halted {
		return true
	}
	if emu.Index < len(emu.Program.Instructions) {
		return emu.Program.Instructions[emu.Index].Halting()
	}

	return false
}

// Reset returns the machine to its power-on state. The program is kept.
func (emu *Emulator) Reset() {
	clear(emu.Register[:])
	emu.Index = 0
	emu.ZF = false
	emu.COUTF = false
	emu.MSBF = false
	emu.LSBF = false
	clear(emu.Ram[:])
	emu.Stack.Reset()
	clear(emu.InputPort[:])
	clear(emu.OutputPort[:])
	emu.WaitingPortInput = false
	emu.Cycle = 0
	emu.halted = false
}

// LoadRam bulk-initializes RAM from an external byte sequence.
func (emu *Emulator) LoadRam(data []byte) (err error) {
	if len(data) > RAM_SIZE {
		err = &ErrRamCapacity{Size: len(data), Limit: RAM_SIZE}
		return
	}

	copy(emu.Ram[:], data)

	return
}

// State is a copy of the full machine state, for display.
type State struct {
	Register         [cpu.REGISTER_COUNT]byte
	PC               int
	Index            int
	ZF               bool
	COUTF            bool
	MSBF             bool
	LSBF             bool
	Ram              [RAM_SIZE]byte
	Stack            []byte
	InputPort        [cpu.PORT_COUNT]byte
	OutputPort       [cpu.PORT_COUNT]byte
	WaitingPortInput bool
	Cycle            int
	Halted           bool
}

// Snapshot returns a copy of the full machine state.
func (emu *Emulator) Snapshot() State {
	return State{
		Register:         emu.Register,
		PC:               emu.PC(),
		Index:            emu.Index,
		ZF:               emu.ZF,
		COUTF:            emu.COUTF,
		MSBF:             emu.MSBF,
		LSBF:             emu.LSBF,
		Ram:              emu.Ram,
		Stack:            slices.Clone(emu.Stack.Data),
		InputPort:        emu.InputPort,
		OutputPort:       emu.OutputPort,
		WaitingPortInput: emu.WaitingPortInput,
		Cycle:            emu.Cycle,
		Halted:           emu.Halted(),
	}
}

// advance moves past the executed record and charges its size in cycles.
func (emu *Emulator) advance(inst *cpu.Instruction) {
	emu.Index += 1
	emu.Cycle += inst.Size()
}

// locate returns the record index for a jump target byte offset without
// touching any state. The end-of-program offset is a permitted target.
func (emu *Emulator) locate(offset int) (index int, err error) {
	if offset == emu.Program.Size() {
		index = len(emu.Program.Instructions)
		return
	}

	index, ok := emu.Program.IndexOf(offset)
	if !ok {
		err = ErrOffsetUnknown(offset)
		return
	}

	return
}

// jump retargets the record index to the record at the target byte offset.
func (emu *Emulator) jump(offset int, size int) (err error) {
	index, err := emu.locate(offset)
	if err != nil {
		return
	}

	emu.Index = index
	emu.Cycle += size

	return
}

// setResultFlags updates the flags every ALU result defines. COUTF is
// owned by ADD and SUB alone.
func (emu *Emulator) setResultFlags(result byte) {
	emu.ZF = result == 0
	emu.MSBF = result&0x80 != 0
	emu.LSBF = result&0x01 != 0
}

// flag returns the flag named by a BRA flag selector.
func (emu *Emulator) flag(selector int) bool {
	switch selector {
	case cpu.FLAG_COUTF:
		return emu.COUTF
	case cpu.FLAG_MSBF:
		return emu.MSBF
	case cpu.FLAG_LSBF:
		return emu.LSBF
	default:
		return emu.ZF
	}
}

// bitFunc applies the BIT sub-opcode to the operand registers. NOT is
// unary and complements src alone; the invert bit turns AND, OR and XOR
// into NAND, NOR and XNOR.
func bitFunc(fn int, dst byte, src byte) (result byte, err error) {
	if fn&cpu.BIT_NOT != 0 {
		if fn != cpu.BIT_NOT {
			err = ErrBitFunction
			return
		}
		result = ^src
		return
	}

	switch fn &^ cpu.BIT_INVERT {
	case cpu.BIT_AND:
		result = dst & src
	case cpu.BIT_OR:
		result = dst | src
	case cpu.BIT_XOR:
		result = dst ^ src
	default:
		err = ErrBitFunction
		return
	}

	if fn&cpu.BIT_INVERT != 0 {
		result = ^result
	}

	return
}

// Step executes exactly one instruction. It refuses to run while a port
// read is pending, and leaves persistent state untouched when it fails.
func (emu *Emulator) Step() (err error) {
	if emu.WaitingPortInput {
		return ErrPortPending
	}
	if emu.Index >= len(emu.Program.Instructions) {
		return ErrProgramEnd
	}

	inst := &emu.Program.Instructions[emu.Index]

	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: inst.LineNo, Err: err}
		}
	}()

	if emu.Verbose {
		log.Printf("%03d: %v", inst.Offset, inst)
	}

	switch inst.Mnemonic {
	case cpu.OP_INC:
		result := emu.Register[inst.Operands[1].Value] + 1
		emu.Register[inst.Operands[0].Value] = result
		emu.setResultFlags(result)
		emu.advance(inst)
	case cpu.OP_DEC:
		result := emu.Register[inst.Operands[1].Value] - 1
		emu.Register[inst.Operands[0].Value] = result
		emu.setResultFlags(result)
		emu.advance(inst)
	case cpu.OP_ADD:
		dst := inst.Operands[0].Value
		sum := int(emu.Register[dst]) + int(emu.Register[inst.Operands[1].Value])
		result := byte(sum)
		emu.Register[dst] = result
		emu.COUTF = sum > 0xff
		emu.setResultFlags(result)
		emu.advance(inst)
	case cpu.OP_SUB:
		dst := inst.Operands[0].Value
		src := emu.Register[inst.Operands[1].Value]
		emu.COUTF = emu.Register[dst] >= src
		result := emu.Register[dst] - src
		emu.Register[dst] = result
		emu.setResultFlags(result)
		emu.advance(inst)
	case cpu.OP_RSH:
		result := emu.Register[inst.Operands[1].Value] >> 1
		emu.Register[inst.Operands[0].Value] = result
		emu.setResultFlags(result)
		emu.advance(inst)
	case cpu.OP_BIT:
		dst := inst.Operands[0].Value
		var result byte
		result, err = bitFunc(inst.Operands[2].Value, emu.Register[dst], emu.Register[inst.Operands[1].Value])
		if err != nil {
			return
		}
		emu.Register[dst] = result
		emu.setResultFlags(result)
		emu.advance(inst)
	case cpu.OP_MOV:
		emu.Register[inst.Operands[0].Value] = emu.Register[inst.Operands[1].Value]
		emu.advance(inst)
	case cpu.OP_STR:
		emu.Ram[emu.Register[inst.Operands[1].Value]] = emu.Register[inst.Operands[0].Value]
		emu.advance(inst)
	case cpu.OP_LOD:
		emu.Register[inst.Operands[0].Value] = emu.Ram[emu.Register[inst.Operands[1].Value]]
		emu.advance(inst)
	case cpu.OP_IMM:
		emu.Register[inst.Operands[0].Value] = byte(inst.Operands[2].Value)
		emu.advance(inst)
	case cpu.OP_PLD:
		// Suspend until PortInput supplies the value. No state advance.
		emu.WaitingPortInput = true
	case cpu.OP_PST:
		port := inst.Operands[0].Value
		value := emu.Register[inst.Operands[1].Value]
		emu.OutputPort[port] = value
		if emu.OutputHook != nil {
			emu.OutputHook(port, value)
		}
		emu.advance(inst)
	case cpu.OP_SOP:
		switch inst.Operands[0].Value {
		case cpu.SOP_PUSH:
			emu.Stack.Push(emu.Register[inst.Operands[1].Value])
		case cpu.SOP_POP:
			value, ok := emu.Stack.Pop()
			if !ok {
				err = cpu.ErrStackEmpty
				return
			}
			emu.Register[inst.Operands[1].Value] = value
		default:
			err = ErrStackMode
			return
		}
		emu.advance(inst)
	case cpu.OP_BRA:
		ctrl := inst.Operands[1].Value
		jump := ctrl&cpu.BRA_COND == 0
		if !jump {
			negate := ctrl&cpu.BRA_NEGATE != 0
			jump = emu.flag(inst.Operands[0].Value) != negate
		}
		if jump {
			err = emu.jump(inst.Operands[2].Value, inst.Size())
		} else {
			emu.advance(inst)
		}
	case cpu.OP_CAL:
		// Validate the target before the push; a failed step must not
		// leave an orphan return address behind.
		var index int
		index, err = emu.locate(inst.Operands[2].Value)
		if err != nil {
			return
		}
		emu.Stack.Push(byte(inst.Offset + inst.Size()))
		emu.Index = index
		emu.Cycle += inst.Size()
	case cpu.OP_RET:
		if inst.Halting() {
			// Halt marker; the caller observes it via Halted().
			emu.halted = true
			emu.Cycle += inst.Size()
			return
		}
		addr, ok := emu.Stack.Peek()
		if !ok {
			err = cpu.ErrStackEmpty
			return
		}
		// Pop only once the return address is known to be reachable.
		var index int
		index, err = emu.locate(int(addr))
		if err != nil {
			return
		}
		emu.Stack.Pop()
		emu.Index = index
		emu.Cycle += inst.Size()
	case cpu.OP_DW:
		err = ErrExecuteData
	}

	return
}

// PortInput resumes a pending port read: the value lands in the
// destination register and the port's input slot, and the machine
// advances past the single-byte record.
func (emu *Emulator) PortInput(value byte) (err error) {
	if !emu.WaitingPortInput {
		return ErrPortNotPending
	}

	inst := &emu.Program.Instructions[emu.Index]
	if inst.Mnemonic != cpu.OP_PLD {
		return ErrPortMnemonic
	}

	emu.Register[inst.Operands[0].Value] = value
	emu.InputPort[inst.Operands[1].Value] = value
	emu.WaitingPortInput = false
	emu.Index += 1
	emu.Cycle += 1

	return
}

// PendingPort returns the port index of the pending read, if any.
func (emu *Emulator) PendingPort() (port int, ok bool) {
	if !emu.WaitingPortInput {
		return
	}

	inst := &emu.Program.Instructions[emu.Index]
	if inst.Mnemonic != cpu.OP_PLD {
		return
	}

	port = inst.Operands[1].Value
	ok = true

	return
}

// String returns the current machine state as a string.
func (emu *Emulator) String() (text string) {
	rows := []string{
		"pc", "cycle",
		"r1", "r2", "r3", "r4",
		"flags", "stack", "in", "out",
	}
	for _, row := range rows {
		var strval string
		switch row {
		case "pc":
			strval = fmt.Sprintf("%03d", emu.PC())
		case "cycle":
			strval = fmt.Sprintf("%d", emu.Cycle)
		case "r1", "r2", "r3", "r4":
			strval = fmt.Sprintf("%02X", emu.Register[byte(row[1]-'1')])
		case "flags":
			names := []string{"ZF", "COUTF", "MSBF", "LSBF"}
			var set []string
			for n, on := range []bool{emu.ZF, emu.COUTF, emu.MSBF, emu.LSBF} {
				if on {
					set = append(set, names[n])
				}
			}
			strval = strings.Join(set, " ")
		case "stack":
			if value, ok := emu.Stack.Peek(); ok {
				strval = fmt.Sprintf("%02X (%d deep)", value, len(emu.Stack.Data))
			} else {
				strval = "--"
			}
		case "in":
			strval = fmt.Sprintf("% 02X", emu.InputPort)
		case "out":
			strval = fmt.Sprintf("% 02X", emu.OutputPort)
		}
		text += fmt.Sprintf("% 6s: %v\n", row, strval)
	}

	return
}
