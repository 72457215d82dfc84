package conformance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"martianoff/bfgo/bferr"
	"martianoff/bfgo/internal/bf"
	"martianoff/bfgo/internal/build"
	"martianoff/bfgo/internal/interpreter"
	"martianoff/bfgo/internal/transpiler"
	"martianoff/bfgo/internal/transpiler/generator"
)

// Outcome is what one run of a case produced.
type Outcome struct {
	Output []byte
	Err    error
}

// ErrType returns the error category of the outcome, or "" on success.
func (o Outcome) ErrType() string {
	if o.Err == nil {
		return ""
	}
	var be bferr.BfError
	if errors.As(o.Err, &be) {
		return string(be.Type())
	}
	return "error"
}

// Check compares the outcome against the expectation.
func (e Expectation) Check(o Outcome) error {
	if got := o.ErrType(); got != e.Error {
		if e.Error == "" {
			return fmt.Errorf("unexpected error: %v", o.Err)
		}
		return fmt.Errorf("expected %s error, got %q (%v)", e.Error, got, o.Err)
	}
	if want := e.Want(); !bytes.Equal(o.Output, want) {
		return fmt.Errorf("output mismatch: want %q, got %q", want, o.Output)
	}
	return nil
}

func caseInput(l Loaded) ([]byte, error) {
	s, err := l.Settings()
	if err != nil {
		return nil, err
	}
	if s.FixedInput != nil {
		return []byte(*s.FixedInput), nil
	}
	return []byte(l.Case.Input), nil
}

// Interpret runs a case through the interpreter.
func Interpret(ctx context.Context, l Loaded) Outcome {
	s, err := l.Settings()
	if err != nil {
		return Outcome{Err: err}
	}
	input, err := caseInput(l)
	if err != nil {
		return Outcome{Err: err}
	}

	var out bytes.Buffer
	m, err := interpreter.New(l.Case.Source, input, &out, interpreter.WithPolicies(s.Policies))
	if err != nil {
		return Outcome{Err: err}
	}
	err = m.Run(ctx)
	return Outcome{Output: out.Bytes(), Err: err}
}

// Generate transpiles a case with its resolved settings.
func Generate(l Loaded) (string, error) {
	s, err := l.Settings()
	if err != nil {
		return "", err
	}

	mode := bf.ModeRepeated
	if !s.Compress {
		mode = bf.ModeSingle
	}
	opts := []bf.ParseOption{bf.WithMode(mode)}
	if s.Lenient {
		opts = append(opts, bf.WithLenientBrackets())
	}

	g, err := generator.NewGoCodeGenerator(generator.Config{Policies: s.Policies, FixedInput: s.FixedInput})
	if err != nil {
		return "", err
	}
	t := transpiler.NewBrainfuckToGoTranspiler(transpiler.NewBrainfuckParser(opts...), g, nil)
	return t.Transpile(l.Case.Source)
}

// Compiler builds the generated programs of many cases with one `go build`.
type Compiler struct {
	GoTool string
	Dir    string
}

// Compiled maps a case index to its binary, or to the error that kept it
// from being generated.
type Compiled struct {
	Binaries map[int]string
	Errors   map[int]error
}

// CompileAll generates every case into its own main package under c.Dir and
// builds them together.
func (c *Compiler) CompileAll(ctx context.Context, cases []Loaded) (*Compiled, error) {
	res := &Compiled{Binaries: map[int]string{}, Errors: map[int]error{}}
	goMod := fmt.Sprintf("module conformance\n\ngo %s\n", build.GoDirective)
	if err := os.WriteFile(filepath.Join(c.Dir, "go.mod"), []byte(goMod), 0644); err != nil {
		return nil, err
	}

	binDir := filepath.Join(c.Dir, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return nil, err
	}

	var built int
	for i, l := range cases {
		code, err := Generate(l)
		if err != nil {
			res.Errors[i] = err
			continue
		}
		name := "case" + strconv.Itoa(i)
		pkgDir := filepath.Join(c.Dir, name)
		if err := os.MkdirAll(pkgDir, 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(pkgDir, "main.go"), []byte(code), 0644); err != nil {
			return nil, err
		}
		res.Binaries[i] = filepath.Join(binDir, name)
		built++
	}
	if built == 0 {
		return res, nil
	}

	cmd := exec.CommandContext(ctx, c.GoTool, "build", "-o", binDir+string(filepath.Separator), "./...")
	cmd.Dir = c.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("go build: %w\n%s", err, stderr.String())
	}
	return res, nil
}

// RunCompiled executes the binary built for case i. A non-zero exit is a
// runtime fault.
func (r *Compiled) RunCompiled(ctx context.Context, i int, l Loaded) Outcome {
	if err, ok := r.Errors[i]; ok {
		return Outcome{Err: err}
	}
	input, err := caseInput(l)
	if err != nil {
		return Outcome{Err: err}
	}

	cmd := exec.CommandContext(ctx, r.Binaries[i])
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		err = bferr.NewRuntimeError(-1, -1, firstLine(stderr.String()))
	}
	return Outcome{Output: stdout.Bytes(), Err: err}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
