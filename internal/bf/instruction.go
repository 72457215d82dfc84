// Package bf models Brainfuck source: instructions, tokens, the structured
// segment tree and its nested-record interchange form.
package bf

import "fmt"

// Instruction is one of the eight primitive Brainfuck operations.
type Instruction uint8

// Instruction kinds. Illegal is the zero value and never appears in a token stream.
const (
	Illegal    Instruction = iota
	PointerInc             // >
	PointerDec             // <
	CellInc                // +
	CellDec                // -
	Read                   // ,
	Write                  // .
	LoopStart              // [
	LoopEnd                // ]
)

// Instructions lists every valid instruction in declaration order.
var Instructions = []Instruction{PointerInc, PointerDec, CellInc, CellDec, Read, Write, LoopStart, LoopEnd}

// FromByte maps a source character to its instruction. Any other byte is a comment.
func FromByte(c byte) (Instruction, bool) {
	switch c {
	case '>':
		return PointerInc, true
	case '<':
		return PointerDec, true
	case '+':
		return CellInc, true
	case '-':
		return CellDec, true
	case ',':
		return Read, true
	case '.':
		return Write, true
	case '[':
		return LoopStart, true
	case ']':
		return LoopEnd, true
	}
	return Illegal, false
}

// Byte returns the source character of the instruction.
func (in Instruction) Byte() byte {
	switch in {
	case PointerInc:
		return '>'
	case PointerDec:
		return '<'
	case CellInc:
		return '+'
	case CellDec:
		return '-'
	case Read:
		return ','
	case Write:
		return '.'
	case LoopStart:
		return '['
	case LoopEnd:
		return ']'
	}
	return 0
}

func (in Instruction) String() string {
	switch in {
	case PointerInc:
		return "pointer-inc"
	case PointerDec:
		return "pointer-dec"
	case CellInc:
		return "cell-inc"
	case CellDec:
		return "cell-dec"
	case Read:
		return "read"
	case Write:
		return "write"
	case LoopStart:
		return "loop-start"
	case LoopEnd:
		return "loop-end"
	}
	return fmt.Sprintf("instruction(%d)", int(in))
}

// IsLoop reports whether the instruction is a loop marker.
func (in Instruction) IsLoop() bool {
	return in == LoopStart || in == LoopEnd
}

// Instruction implements Unit: a bare instruction is a unit of count one.
func (in Instruction) Instruction() Instruction { return in }

// Count implements Unit.
func (in Instruction) Count() int { return 1 }
