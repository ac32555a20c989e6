package cpu

// Program is the fully resolved output of an assembly run: the instruction
// records in source order, the label table, and an offset lookup built once
// so branch targets resolve without a linear scan.
type Program struct {
	Instructions []Instruction
	Labels       map[string]int // Label name to byte offset.

	index map[int]int // Byte offset to instruction index.
}

// NewProgram builds a program from resolved instructions and labels.
func NewProgram(instructions []Instruction, labels map[string]int) (prog *Program) {
	prog = &Program{
		Instructions: instructions,
		Labels:       labels,
		index:        make(map[int]int, len(instructions)),
	}

	for n := range instructions {
		prog.index[instructions[n].Offset] = n
	}

	return
}

// IndexOf returns the index of the instruction at the exact byte offset.
func (prog *Program) IndexOf(offset int) (index int, ok bool) {
	index, ok = prog.index[offset]
	return
}

// Size returns the total encoded size in bytes.
func (prog *Program) Size() int {
	if len(prog.Instructions) == 0 {
		return 0
	}

	last := &prog.Instructions[len(prog.Instructions)-1]

	return last.Offset + last.Size()
}

// Bytes encodes the program into the flat program-memory image by
// concatenating each record's encoding in order.
func (prog *Program) Bytes() (data []byte, err error) {
	for n := range prog.Instructions {
		var enc []byte
		enc, err = prog.Instructions[n].Bytes()
		if err != nil {
			return
		}
		data = append(data, enc...)
	}

	return
}

// Debug returns the instruction whose encoding covers the byte offset.
func (prog *Program) Debug(offset int) (inst *Instruction) {
	for n := range prog.Instructions {
		op := &prog.Instructions[n]
		if offset >= op.Offset && offset < op.Offset+op.Size() {
			inst = op
			break
		}
	}

	return
}
