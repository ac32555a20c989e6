// Copyright 2026, ReFruity <refruity@users.noreply.github.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Defines returns the predefined assembler equates for the instruction set.
func Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Assembler is the two-pass assembler for the ARPU instruction set. The
// layout pass builds instruction records and the label table; the
// resolution pass rewrites label references into literal byte offsets.
type Assembler struct {
	Verbose bool              // If set, verbosely logs the assembler actions.
	Label   map[string]int    // Map of label names to byte offsets.
	Equate  map[string]string // Map of equates.

	predefine   map[string]string // Predefines
	instruction []Instruction     // Layout pass output, possibly unresolved.
	pending     string            // Label awaiting the next record.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a literal word. Decimal and binary forms
// are accepted, with optional digit-group separators.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	v64, perr := strconv.ParseInt(word, 0, 64)
	if perr != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < 0 || v64 > 0xff {
		err = ErrValueRange
		return
	}

	value = int(v64)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// currentOffset gets the byte offset following the last laid out record.
func (asm *Assembler) currentOffset() int {
	if len(asm.instruction) == 0 {
		return 0
	}

	last := &asm.instruction[len(asm.instruction)-1]

	return last.Offset + last.Size()
}

// parseLine evaluates $() expressions, expands equates, and strips label
// definitions from a single source line, recording each label against the
// current offset.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, labels []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	// Label definitions: leading .name tokens, standalone or inline.
	for len(words) > 0 && strings.HasPrefix(words[0], ".") {
		name := words[0][1:]
		if len(name) == 0 {
			err = ErrLabelSyntax
			return
		}
		_, ok := asm.Label[name]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[name] = asm.currentOffset()
		labels = append(labels, name)
		words = words[1:]
	}

	return
}

// parseOperand parses a single operand token against its position's class.
func (asm *Assembler) parseOperand(word string, class OperandClass) (op Operand, err error) {
	if index, ok := regMap[strings.ToUpper(word)]; ok {
		if class != CLASS_REG {
			err = ErrOperandKind
			return
		}
		op = Register(index)
		return
	}

	if strings.HasPrefix(word, ".") {
		if class != CLASS_TARGET {
			err = ErrOperandKind
			return
		}
		op = LabelRef(word[1:])
		return
	}

	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	switch class {
	case CLASS_REG:
		if value >= REGISTER_COUNT {
			err = ErrValueRange
			return
		}
		// A bare index in a register position names the register.
		op = Register(value)
	case CLASS_FIELD:
		if value > 0x3 {
			err = ErrValueRange
			return
		}
		op = Literal(value)
	default:
		op = Literal(value)
	}

	return
}

// parseWords lays out one statement as an instruction record.
func (asm *Assembler) parseWords(words []string, lineno int, label string) (err error) {
	if len(words) == 0 {
		return
	}

	mnemonic, ok := mnemonicMap[strings.ToUpper(words[0])]
	if !ok {
		err = ErrMnemonicInvalid
		return
	}

	shape := opShapes[mnemonic]
	count := len(words) - 1
	if !slices.Contains(shape.Counts, count) {
		err = ErrOperandCount
		return
	}

	var operands []Operand
	for n, word := range words[1:] {
		var op Operand
		op, err = asm.parseOperand(word, shape.Classes[n])
		if err != nil {
			return
		}
		operands = append(operands, op)
	}

	asm.instruction = append(asm.instruction, Instruction{
		Mnemonic: mnemonic,
		Operands: operands,
		Label:    label,
		Offset:   asm.currentOffset(),
		LineNo:   lineno,
		Words:    words,
	})

	return
}

// Parse runs both passes over an input stream and returns the resolved
// program. No program is produced if any statement fails.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			var se *ErrSyntax
			if !errors.As(err, &se) {
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			}
		}
	}()

	clear(asm.Label)
	asm.instruction = asm.instruction[:0]
	asm.pending = ""
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range _cpu_defines {
		asm.Equate[attr] = val
	}
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		var labels []string
		words, labels, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		// The first label stripped at this position annotates the record.
		label := asm.pending
		if label == "" && len(labels) > 0 {
			label = labels[0]
		}
		if len(words) == 0 {
			asm.pending = label
			continue
		}
		asm.pending = ""

		err = asm.parseWords(words, lineno, label)
		if err != nil {
			return
		}
	}

	var resolved []Instruction
	resolved, err = Resolve(asm.instruction, asm.Label)
	if err != nil {
		return
	}

	prog = NewProgram(resolved, maps.Clone(asm.Label))

	return
}

// Resolve is the second pass: a pure transform rewriting every label
// reference to the literal offset recorded for its name. The input
// records are not modified.
func Resolve(instructions []Instruction, labels map[string]int) (resolved []Instruction, err error) {
	resolved = slices.Clone(instructions)

	for n := range resolved {
		inst := &resolved[n]

		operands := slices.Clone(inst.Operands)
		for i, op := range operands {
			if op.Resolved() {
				continue
			}
			offset, ok := labels[op.Name]
			if !ok {
				err = &ErrSyntax{
					LineNo: inst.LineNo,
					Line:   strings.Join(inst.Words, " "),
					Err:    ErrLabelMissing(op.Name),
				}
				return
			}
			operands[i] = Literal(offset)
		}
		inst.Operands = operands
	}

	return
}
