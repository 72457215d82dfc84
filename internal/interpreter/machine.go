// Package interpreter executes Brainfuck source directly and provides a
// terminal stepping debugger on top of it.
package interpreter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"martianoff/bfgo/bferr"
	"martianoff/bfgo/internal/bf"
	"martianoff/bfgo/internal/logging"
	"martianoff/bfgo/internal/policy"
)

// cancelCheckInterval is how many steps Run executes between context checks.
const cancelCheckInterval = 4096

// Machine is a Brainfuck interpreter over the full character stream of a
// program, comments included.
type Machine struct {
	policies policy.Policies
	code     []byte
	jumps    []int // matching bracket position, -1 for other characters

	tape     []uint32
	pointer  int
	input    []byte
	inputPos int
	pc       int
	steps    uint64

	out    io.Writer
	output []byte
	logger *slog.Logger
}

// State is a snapshot of the machine registers.
type State struct {
	PC       int
	Pointer  int
	InputPos int
	Steps    uint64
	Halted   bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithPolicies sets the memory, pointer, cell and EOF policies.
func WithPolicies(p policy.Policies) Option {
	return func(m *Machine) { m.policies = p }
}

// WithLogger routes trace output to l.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// New loads code with the given ASCII input. Output bytes are written to out.
func New(code string, input []byte, out io.Writer, opts ...Option) (*Machine, error) {
	m := &Machine{
		policies: policy.Default(),
		code:     []byte(code),
		out:      out,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.policies.Validate(); err != nil {
		return nil, err
	}
	if err := policy.CheckASCII(input); err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	jumps, err := jumpTable(code)
	if err != nil {
		return nil, err
	}

	m.jumps = jumps
	m.input = input
	m.tape = make([]uint32, m.policies.MemorySize)
	return m, nil
}

// jumpTable pairs every bracket with its partner.
func jumpTable(code string) ([]int, error) {
	if err := bf.CheckBrackets(code); err != nil {
		return nil, err
	}
	jumps := make([]int, len(code))
	var stack []int
	for i := 0; i < len(code); i++ {
		jumps[i] = -1
		switch code[i] {
		case '[':
			stack = append(stack, i)
		case ']':
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jumps[open], jumps[i] = i, open
		}
	}
	return jumps, nil
}

// Halted reports whether the program counter has run off the end of the code.
func (m *Machine) Halted() bool {
	return m.pc >= len(m.code)
}

// Step executes the character at the program counter. Stepping a halted
// machine is a no-op.
func (m *Machine) Step() error {
	if m.Halted() {
		return nil
	}
	in, ok := bf.FromByte(m.code[m.pc])
	if ok {
		if err := m.exec(in); err != nil {
			return err
		}
		m.steps++
	}
	m.pc++
	return nil
}

func (m *Machine) exec(in bf.Instruction) error {
	size := m.policies.MemorySize
	switch in {
	case bf.PointerInc:
		switch m.policies.PointerSafety {
		case policy.PointerWrap:
			m.pointer = (m.pointer + 1) % size
		case policy.PointerClamp:
			m.pointer = min(m.pointer+1, size-1)
		default:
			m.pointer++
		}
		return nil
	case bf.PointerDec:
		switch m.policies.PointerSafety {
		case policy.PointerWrap:
			m.pointer = (m.pointer + size - 1) % size
		case policy.PointerClamp:
			m.pointer = max(m.pointer, 1) - 1
		default:
			m.pointer--
		}
		return nil
	}

	if m.pointer < 0 || m.pointer >= size {
		return bferr.NewRuntimeError(m.pc, m.pointer, "pointer out of memory bounds")
	}
	cell := &m.tape[m.pointer]
	limit := uint32(m.policies.CellSize.Max())

	switch in {
	case bf.CellInc:
		if *cell == limit && m.policies.Overflow == policy.OverflowAbort {
			return bferr.NewRuntimeError(m.pc, m.pointer, "cell overflow")
		}
		*cell = (*cell + 1) & limit
	case bf.CellDec:
		if *cell == 0 && m.policies.Overflow == policy.OverflowAbort {
			return bferr.NewRuntimeError(m.pc, m.pointer, "cell underflow")
		}
		*cell = (*cell - 1) & limit
	case bf.Write:
		b := byte(*cell)
		m.output = append(m.output, b)
		if _, err := m.out.Write([]byte{b}); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	case bf.Read:
		if m.inputPos < len(m.input) {
			*cell = uint32(m.input[m.inputPos])
			m.inputPos++
		} else if m.policies.EOF.Fixed {
			*cell = uint32(m.policies.EOF.Value)
		}
	case bf.LoopStart:
		if *cell == 0 {
			m.pc = m.jumps[m.pc]
		}
	case bf.LoopEnd:
		if *cell != 0 {
			m.pc = m.jumps[m.pc]
		}
	}
	return nil
}

// Run steps until the program halts, fails or ctx is cancelled.
func (m *Machine) Run(ctx context.Context) error {
	for !m.Halted() {
		if m.steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	logging.Trace(m.logger, "program halted", "steps", m.steps, "output_bytes", len(m.output))
	return nil
}

// State returns a snapshot of the registers.
func (m *Machine) State() State {
	return State{
		PC:       m.pc,
		Pointer:  m.pointer,
		InputPos: m.inputPos,
		Steps:    m.steps,
		Halted:   m.Halted(),
	}
}

// Cell returns the value at addr, or 0 outside memory.
func (m *Machine) Cell(addr int) uint32 {
	if addr < 0 || addr >= len(m.tape) {
		return 0
	}
	return m.tape[addr]
}

// MemorySize returns the number of cells.
func (m *Machine) MemorySize() int { return len(m.tape) }

// Code returns the program text.
func (m *Machine) Code() []byte { return m.code }

// Input returns the input buffer.
func (m *Machine) Input() []byte { return m.input }

// Output returns every byte written so far.
func (m *Machine) Output() []byte { return m.output }
