// Package policy defines the semantic policies shared by the code generator
// and the interpreter: cell width, pointer safety, cell overflow and EOF.
package policy

import (
	"fmt"
	"strconv"
	"strings"

	"martianoff/bfgo/bferr"
)

// DefaultMemorySize is the classic tape length.
const DefaultMemorySize = 30000

// CellSize is the width of a memory cell in bits.
type CellSize int

const (
	Cell8  CellSize = 8
	Cell16 CellSize = 16
	Cell32 CellSize = 32
)

// Max returns the largest value a cell can hold.
func (c CellSize) Max() uint64 {
	return 1<<uint(c) - 1
}

// GoType returns the Go unsigned integer type of the cell.
func (c CellSize) GoType() string {
	return fmt.Sprintf("uint%d", int(c))
}

func (c CellSize) Valid() bool {
	return c == Cell8 || c == Cell16 || c == Cell32
}

func (c CellSize) String() string { return strconv.Itoa(int(c)) }

// Set implements pflag.Value.
func (c *CellSize) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "u"))
	if err != nil || !CellSize(n).Valid() {
		return bferr.NewConfigError(fmt.Sprintf("invalid cell size %q (want 8, 16 or 32)", s))
	}
	*c = CellSize(n)
	return nil
}

func (c *CellSize) Type() string { return "bits" }

func (c *CellSize) UnmarshalText(b []byte) error { return c.Set(string(b)) }

func (c CellSize) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// PointerSafety governs moving the pointer past either end of memory.
type PointerSafety int

const (
	// PointerNone does not check; out-of-range access faults at runtime.
	PointerNone PointerSafety = iota
	// PointerWrap wraps around to the other end of memory.
	PointerWrap
	// PointerClamp stops at the first or last cell.
	PointerClamp
)

var pointerNames = map[PointerSafety]string{
	PointerNone:  "none",
	PointerWrap:  "wrap",
	PointerClamp: "clamp",
}

func (p PointerSafety) String() string { return pointerNames[p] }

// Set implements pflag.Value.
func (p *PointerSafety) Set(s string) error {
	v, ok := lookup(pointerNames, s)
	if !ok {
		return bferr.NewConfigError(fmt.Sprintf("invalid pointer safety %q (want wrap, clamp or none)", s))
	}
	*p = v
	return nil
}

func (p *PointerSafety) Type() string { return "mode" }

func (p *PointerSafety) UnmarshalText(b []byte) error { return p.Set(string(b)) }

func (p PointerSafety) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Overflow governs cell arithmetic past zero or the cell maximum.
type Overflow int

const (
	// OverflowNone emits raw arithmetic.
	OverflowNone Overflow = iota
	// OverflowWrap wraps modulo the cell width.
	OverflowWrap
	// OverflowAbort terminates the program.
	OverflowAbort
)

var overflowNames = map[Overflow]string{
	OverflowNone:  "none",
	OverflowWrap:  "wrap",
	OverflowAbort: "abort",
}

func (o Overflow) String() string { return overflowNames[o] }

// Set implements pflag.Value.
func (o *Overflow) Set(s string) error {
	v, ok := lookup(overflowNames, s)
	if !ok {
		return bferr.NewConfigError(fmt.Sprintf("invalid overflow behavior %q (want wrap, abort or none)", s))
	}
	*o = v
	return nil
}

func (o *Overflow) Type() string { return "mode" }

func (o *Overflow) UnmarshalText(b []byte) error { return o.Set(string(b)) }

func (o Overflow) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// EOF governs a read with no input left.
type EOF struct {
	// Fixed stores Value into the cell instead of leaving it unchanged.
	Fixed bool
	Value byte
}

// NoChange leaves the cell as it was.
var NoChange = EOF{}

// FixedEOF stores v into the cell.
func FixedEOF(v byte) EOF {
	return EOF{Fixed: true, Value: v}
}

func (e EOF) String() string {
	if !e.Fixed {
		return "no-change"
	}
	return strconv.Itoa(int(e.Value))
}

// Set implements pflag.Value. It accepts "no-change" or a byte value in
// decimal, hex (0x..) or octal (0..) notation.
func (e *EOF) Set(s string) error {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "no-change", "nochange", "unchanged":
		*e = NoChange
		return nil
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return bferr.NewConfigError(fmt.Sprintf("invalid EOF behavior %q (want no-change or a byte value)", s))
	}
	*e = FixedEOF(byte(n))
	return nil
}

func (e *EOF) Type() string { return "eof" }

func (e *EOF) UnmarshalText(b []byte) error { return e.Set(string(b)) }

func (e EOF) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// Policies is the full set of semantic policies for one run.
type Policies struct {
	MemorySize    int
	CellSize      CellSize
	PointerSafety PointerSafety
	Overflow      Overflow
	EOF           EOF
}

// Default returns the reference policy set: 30000 8-bit cells, no pointer or
// overflow checks, and cells left unchanged on EOF.
func Default() Policies {
	return Policies{
		MemorySize:    DefaultMemorySize,
		CellSize:      Cell8,
		PointerSafety: PointerNone,
		Overflow:      OverflowNone,
		EOF:           NoChange,
	}
}

// Validate checks the policies for values no generator or interpreter can honor.
func (p Policies) Validate() error {
	if p.MemorySize <= 0 {
		return bferr.NewConfigError(fmt.Sprintf("memory size must be positive, got %d", p.MemorySize))
	}
	if !p.CellSize.Valid() {
		return bferr.NewConfigError(fmt.Sprintf("invalid cell size %d", int(p.CellSize)))
	}
	if _, ok := pointerNames[p.PointerSafety]; !ok {
		return bferr.NewConfigError(fmt.Sprintf("invalid pointer safety %d", int(p.PointerSafety)))
	}
	if _, ok := overflowNames[p.Overflow]; !ok {
		return bferr.NewConfigError(fmt.Sprintf("invalid overflow behavior %d", int(p.Overflow)))
	}
	return nil
}

func lookup[T comparable](names map[T]string, s string) (T, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, name := range names {
		if name == s {
			return v, true
		}
	}
	var zero T
	return zero, false
}
