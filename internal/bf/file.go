package bf

import (
	"log/slog"
	"sort"

	"martianoff/bfgo/bferr"
	"martianoff/bfgo/internal/logging"
)

// File is a parsed program: its top-level segments and whether any read
// instruction occurs anywhere in it.
type File struct {
	Segments   []Segment
	NeedsInput bool
}

type parseOptions struct {
	mode    Mode
	lenient bool
	logger  *slog.Logger
}

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

// WithMode selects the tokenizer variant. The default is ModeRepeated.
func WithMode(m Mode) ParseOption {
	return func(o *parseOptions) { o.mode = m }
}

// WithLenientBrackets skips the bracket balance check and structures
// unbalanced input permissively (see Structure).
func WithLenientBrackets() ParseOption {
	return func(o *parseOptions) { o.lenient = true }
}

// WithLogger routes trace output of the parse to l.
func WithLogger(l *slog.Logger) ParseOption {
	return func(o *parseOptions) { o.logger = l }
}

// Parse tokenizes and structures src.
func Parse(src string, opts ...ParseOption) (*File, error) {
	o := parseOptions{
		mode:   ModeRepeated,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !o.lenient {
		if err := CheckBrackets(src); err != nil {
			return nil, err
		}
	}

	tokens := TokenizeMode(src, o.mode)
	logging.Trace(o.logger, "tokenizer finished", "mode", o.mode.String(), "tokens", len(tokens))

	file := &File{
		Segments:   Structure(tokens),
		NeedsInput: needsInput(tokens),
	}
	logging.Trace(o.logger, "structurer finished", "segments", len(file.Segments), "needs_input", file.NeedsInput)

	return file, nil
}

// MustParse is like Parse but panics on error. Intended for tests and fixed programs.
func MustParse(src string, opts ...ParseOption) *File {
	f, err := Parse(src, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func needsInput(tokens []Unit) bool {
	for _, t := range tokens {
		if t.Instruction() == Read {
			return true
		}
	}
	return false
}

// CheckBrackets verifies that every loop marker in src has a partner. Each
// offending bracket is reported with its 1-based line and column; more than
// one is collected into a *bferr.MultiError in source order.
func CheckBrackets(src string) error {
	type open struct{ line, col, offset int }
	var (
		stack []open
		errs  []error
	)

	line, col := 1, 0
	for i := 0; i < len(src); i++ {
		c := src[i]
		col++
		switch c {
		case '\n':
			line++
			col = 0
		case '[':
			stack = append(stack, open{line, col, i})
		case ']':
			if len(stack) == 0 {
				errs = append(errs, bferr.NewBracketError(line, col, i, "unmatched ']'"))
				continue
			}
			stack = stack[:len(stack)-1]
		}
	}
	for _, o := range stack {
		errs = append(errs, bferr.NewBracketError(o.line, o.col, o.offset, "unmatched '['"))
	}
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].(*bferr.BracketError).Offset < errs[j].(*bferr.BracketError).Offset
	})

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return &bferr.MultiError{Errors: errs}
}
