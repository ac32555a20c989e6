// Package cpu implements the instruction set and assembler for the ARPU processor.
//
// ARPU is a 4-register, 8-bit machine with sixteen instructions, four input
// and four output ports, and a byte-valued stack shared by explicit stack
// operations and call/return. Instructions are one byte, or two when a third
// operand occupies a dedicated immediate/address byte.
//
// The assembler is a two-pass assembler: the first pass lays out instruction
// records and collects label offsets, the second rewrites label references
// into literal byte offsets. It supports labels, equates, and compile-time
// expression evaluation.
package cpu
