// Package generator lowers a structured Brainfuck program into a Go program.
package generator

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"log/slog"

	"martianoff/bfgo/internal/bf"
	"martianoff/bfgo/internal/logging"
	"martianoff/bfgo/internal/transpiler"
)

// Header is the first line of every generated file.
const Header = "// Code generated by bfgo. DO NOT EDIT."

type goCodeGenerator struct {
	cfg    Config
	logger *slog.Logger
}

// Option configures the generator.
type Option func(*goCodeGenerator)

// WithLogger routes trace output to l.
func WithLogger(l *slog.Logger) Option {
	return func(g *goCodeGenerator) { g.logger = l }
}

// NewGoCodeGenerator creates a CodeGenerator that emits Go source under cfg.
func NewGoCodeGenerator(cfg Config, opts ...Option) (transpiler.CodeGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &goCodeGenerator{cfg: cfg, logger: logging.Discard()}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate implements the CodeGenerator interface. The whole tree is lowered
// before anything is printed, so an unsupported construct yields no output.
func (g *goCodeGenerator) Generate(file *bf.File) (string, error) {
	decls, err := g.Lower(file)
	if err != nil {
		return "", err
	}

	fset := token.NewFileSet()
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteString("\n\npackage main\n")
	for _, d := range decls {
		buf.WriteString("\n")
		if err := format.Node(&buf, fset, d); err != nil {
			return "", fmt.Errorf("printing generated code: %w", err)
		}
		buf.WriteString("\n")
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("formatting generated code: %w", err)
	}
	logging.Trace(g.logger, "generator finished", "bytes", len(out))
	return string(out), nil
}

// Lower builds the top-level declarations of the generated program.
func (g *goCodeGenerator) Lower(file *bf.File) ([]ast.Decl, error) {
	body, err := g.lowerSegments(file.Segments)
	if err != nil {
		return nil, err
	}
	logging.Trace(g.logger, "lowered segment tree", "statements", len(body), "needs_input", file.NeedsInput)
	return g.template(body, file.NeedsInput), nil
}

var _ transpiler.CodeGenerator = (*goCodeGenerator)(nil)
