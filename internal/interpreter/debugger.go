package interpreter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/peterh/liner"
	"github.com/tebeka/atexit"
)

const clearScreen = "\x1b[H\x1b[2J"

// Prompter reads one command line. *liner.State satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// Debugger steps a Machine under user control and redraws a view of its
// input, memory, output and code.
type Debugger struct {
	m      *Machine
	view   io.Writer
	prompt Prompter

	Width     int  // columns available to each region
	Clear     bool // clear the screen before every redraw
	frequency int  // redraw every frequency steps while continuing

	lastDraw  time.Time
	lastSteps uint64
	opsPerSec float64
	line      *liner.State
}

// NewDebugger creates a debugger rendering to view and reading commands from prompt.
func NewDebugger(m *Machine, view io.Writer, prompt Prompter) *Debugger {
	return &Debugger{
		m:         m,
		view:      view,
		prompt:    prompt,
		Width:     80,
		frequency: 1,
		lastDraw:  time.Now(),
	}
}

// NewTerminalDebugger creates a debugger on the controlling terminal with a
// liner prompt. The terminal is restored on Close or on atexit.Exit.
func NewTerminalDebugger(m *Machine, view io.Writer, width int) *Debugger {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	atexit.Register(func() { line.Close() })

	d := NewDebugger(m, view, line)
	d.line = line
	d.Clear = true
	if width > 0 {
		d.Width = width
	}
	return d
}

// Close restores the terminal.
func (d *Debugger) Close() error {
	if d.line == nil {
		return nil
	}
	return d.line.Close()
}

// Run draws the view and executes commands until the program halts or the
// user quits. Supported commands:
//
//	s [n], <enter>  step n instructions (default 1)
//	c               continue to the end
//	f <n>           continue, redrawing every n steps
//	q               quit
func (d *Debugger) Run(ctx context.Context) error {
	d.Draw()
	for !d.m.Halted() {
		cmd, err := d.prompt.Prompt("(bfdb) ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}
		if d.line != nil && strings.TrimSpace(cmd) != "" {
			d.line.AppendHistory(cmd)
		}

		quit, err := d.execute(ctx, cmd)
		if err != nil {
			d.Draw()
			return err
		}
		if quit {
			return nil
		}
		d.Draw()
	}
	return nil
}

func (d *Debugger) execute(ctx context.Context, cmd string) (quit bool, err error) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return false, d.step(1)
	}

	switch fields[0] {
	case "q", "quit":
		return true, nil
	case "s", "step":
		n := 1
		if len(fields) > 1 {
			if n, err = strconv.Atoi(fields[1]); err != nil || n < 1 {
				fmt.Fprintf(d.view, "invalid step count %q\n", fields[1])
				return false, nil
			}
		}
		return false, d.step(n)
	case "c", "continue":
		d.frequency = 0
		return false, d.continueRun(ctx)
	case "f", "frequency":
		if len(fields) < 2 {
			fmt.Fprintln(d.view, "usage: f <n>")
			return false, nil
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			fmt.Fprintf(d.view, "invalid frequency %q\n", fields[1])
			return false, nil
		}
		d.frequency = n
		return false, d.continueRun(ctx)
	}
	fmt.Fprintf(d.view, "unknown command %q (s [n], c, f <n>, q)\n", fields[0])
	return false, nil
}

func (d *Debugger) step(n int) error {
	for i := 0; i < n; i++ {
		if d.m.Halted() {
			return nil
		}
		if err := d.stepInstruction(); err != nil {
			return err
		}
	}
	return nil
}

// stepInstruction advances past comment characters to the next executed instruction.
func (d *Debugger) stepInstruction() error {
	start := d.m.steps
	for !d.m.Halted() && d.m.steps == start {
		if err := d.m.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Debugger) continueRun(ctx context.Context) error {
	for !d.m.Halted() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.stepInstruction(); err != nil {
			return err
		}
		if d.frequency > 0 && d.m.steps%uint64(d.frequency) == 0 {
			d.Draw()
		}
	}
	return nil
}

// Draw renders the current view.
func (d *Debugger) Draw() {
	now := time.Now()
	if elapsed := now.Sub(d.lastDraw); elapsed > 0 {
		d.opsPerSec = float64(d.m.steps-d.lastSteps) / elapsed.Seconds()
	}
	d.lastDraw, d.lastSteps = now, d.m.steps

	if d.Clear {
		io.WriteString(d.view, clearScreen)
	}
	fmt.Fprint(d.view, d.Render())
}

// Render returns the view as text.
func (d *Debugger) Render() string {
	var b strings.Builder
	st := d.m.State()

	writeRegion(&b, "Input", d.Width, printable(d.m.Input()), st.InputPos)
	fmt.Fprintf(&b, "Pos: %d\n\n", st.PC)
	b.WriteString("Memory:\n")
	b.WriteString(d.memoryTable())
	fmt.Fprintf(&b, "\nPointer: %d\n\n", st.Pointer)
	out := printable(d.m.Output())
	writeRegion(&b, "Output", d.Width, out, len(out))
	writeRegion(&b, "Code", d.Width, printable(d.m.Code()), st.PC)

	if d.frequency > 0 {
		fmt.Fprintf(&b, "Update frequency: 1/%d updates displayed\n", d.frequency)
	}
	fmt.Fprintf(&b, "Ops/s: %.2f\n", d.opsPerSec)
	if st.Halted {
		fmt.Fprintf(&b, "Halted after %d steps\n", st.Steps)
	}
	return b.String()
}

// memoryTable renders the cells around the pointer with the pointer's
// column marked.
func (d *Debugger) memoryTable() string {
	cells := max(d.Width/6, 1)
	pointer := d.m.pointer
	bounds := RegionBounds(cells, d.m.MemorySize(), min(max(pointer, 0), d.m.MemorySize()-1))

	header := table.Row{}
	values := table.Row{}
	for addr := bounds.Start; addr < bounds.End; addr++ {
		label := strconv.Itoa(addr)
		if addr == pointer {
			label = "*" + label
		}
		header = append(header, label)
		values = append(values, d.m.Cell(addr))
	}

	t := table.NewWriter()
	t.AppendHeader(header)
	t.AppendRow(values)
	t.SetStyle(table.StyleLight)
	return t.Render()
}

func writeRegion(b *strings.Builder, label string, width int, buf string, pos int) {
	bounds := RegionBounds(width, len(buf), pos)
	fmt.Fprintf(b, "%s:\n%s\n%s^\n\n", label, buf[bounds.Start:bounds.End], strings.Repeat(" ", bounds.Rel))
}

// printable replaces control characters so every byte occupies one column.
func printable(buf []byte) string {
	out := make([]byte, len(buf))
	for i, c := range buf {
		if c < 0x20 || c > 0x7e {
			c = ' '
		}
		out[i] = c
	}
	return string(out)
}
