package transpiler

import (
	"context"
	"log/slog"

	"martianoff/bfgo/internal/bf"
	"martianoff/bfgo/internal/logging"
)

// Parser turns Brainfuck source into a structured program.
type Parser interface {
	Parse(input string) (*bf.File, error)
}

// CodeGenerator lowers a structured program into Go source code.
type CodeGenerator interface {
	Generate(file *bf.File) (string, error)
}

// Formatter pipes source code through an external formatting tool.
type Formatter interface {
	Format(ctx context.Context, src []byte) ([]byte, error)
}

// Transpiler defines the high-level interface for the Brainfuck to Go conversion.
type Transpiler interface {
	Transpile(input string) (string, error)
}

// BrainfuckToGoTranspiler orchestrates the transpilation process.
type BrainfuckToGoTranspiler struct {
	parser    Parser
	generator CodeGenerator
	logger    *slog.Logger
}

// NewBrainfuckToGoTranspiler creates a new instance of BrainfuckToGoTranspiler with its dependencies.
func NewBrainfuckToGoTranspiler(parser Parser, generator CodeGenerator, logger *slog.Logger) *BrainfuckToGoTranspiler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &BrainfuckToGoTranspiler{
		parser:    parser,
		generator: generator,
		logger:    logger,
	}
}

// Transpile executes the full transpilation pipeline.
func (t *BrainfuckToGoTranspiler) Transpile(input string) (string, error) {
	file, err := t.parser.Parse(input)
	if err != nil {
		return "", err
	}
	return t.Generate(file)
}

// Generate runs the back half of the pipeline on an already parsed program,
// such as one decoded from an AST dump.
func (t *BrainfuckToGoTranspiler) Generate(file *bf.File) (string, error) {
	code, err := t.generator.Generate(file)
	if err != nil {
		return "", err
	}
	logging.Trace(t.logger, "transpiled program", "segments", len(file.Segments), "needs_input", file.NeedsInput, "bytes", len(code))
	return code, nil
}

var _ Transpiler = (*BrainfuckToGoTranspiler)(nil)
