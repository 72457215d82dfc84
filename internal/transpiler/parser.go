package transpiler

import "martianoff/bfgo/internal/bf"

type brainfuckParser struct {
	opts []bf.ParseOption
}

// NewBrainfuckParser creates a Parser that tokenizes and structures source with opts.
func NewBrainfuckParser(opts ...bf.ParseOption) Parser {
	return &brainfuckParser{opts: opts}
}

// Parse implements the Parser interface.
func (p *brainfuckParser) Parse(input string) (*bf.File, error) {
	return bf.Parse(input, p.opts...)
}

// Ensure brainfuckParser implements Parser interface.
var _ Parser = (*brainfuckParser)(nil)
