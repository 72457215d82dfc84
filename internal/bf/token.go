package bf

import "strings"

// Unit is the capability shared by every token kind: it yields an
// instruction and the number of times it repeats.
type Unit interface {
	Instruction() Instruction
	Count() int
}

// Repeated is a run-length token. Count is at least one.
type Repeated struct {
	Op Instruction
	N  int
}

// Instruction implements Unit.
func (r Repeated) Instruction() Instruction { return r.Op }

// Count implements Unit.
func (r Repeated) Count() int { return r.N }

var (
	_ Unit = Instruction(0)
	_ Unit = Repeated{}
)

// Expand flattens units into one instruction per repetition.
func Expand(units []Unit) []Instruction {
	var out []Instruction
	for _, u := range units {
		for i := 0; i < u.Count(); i++ {
			out = append(out, u.Instruction())
		}
	}
	return out
}

// Source renders units back to Brainfuck text without comments.
func Source(units []Unit) string {
	var sb strings.Builder
	for _, in := range Expand(units) {
		sb.WriteByte(in.Byte())
	}
	return sb.String()
}
