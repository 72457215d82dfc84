package bf

// Mode selects the tokenizer variant.
type Mode int

const (
	// ModeRepeated merges runs of identical instructions into Repeated tokens.
	ModeRepeated Mode = iota
	// ModeSingle emits one bare Instruction per source character.
	ModeSingle
)

func (m Mode) String() string {
	if m == ModeSingle {
		return "single"
	}
	return "repeated"
}

// Tokenize returns one bare Instruction per instruction character of src,
// in source order. Every other character is dropped.
func Tokenize(src string) []Unit {
	var tokens []Unit
	s := newScanner(src)
	for {
		in, ok := s.next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, in)
	}
}

// TokenizeRepeated scans src once and merges consecutive identical
// instructions into Repeated tokens. Loop markers and reads always stay
// singletons: a loop marker needs its own position for structuring and a
// read has no meaning repeated.
func TokenizeRepeated(src string) []Unit {
	var tokens []Unit
	s := newScanner(src)
	for {
		in, ok := s.next()
		if !ok {
			return tokens
		}
		count := 1
		if mergeable(in) {
			for {
				next, ok := s.peek()
				if !ok || next != in {
					break
				}
				s.next()
				count++
			}
		}
		tokens = append(tokens, Repeated{Op: in, N: count})
	}
}

// TokenizeMode dispatches to the tokenizer for m.
func TokenizeMode(src string, m Mode) []Unit {
	if m == ModeSingle {
		return Tokenize(src)
	}
	return TokenizeRepeated(src)
}

func mergeable(in Instruction) bool {
	return !in.IsLoop() && in != Read
}

// scanner yields the instructions of a source text with one token of lookahead.
type scanner struct {
	src string
	pos int
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

// peek returns the next instruction without consuming it.
func (s *scanner) peek() (Instruction, bool) {
	for i := s.pos; i < len(s.src); i++ {
		if in, ok := FromByte(s.src[i]); ok {
			s.pos = i
			return in, true
		}
	}
	s.pos = len(s.src)
	return Illegal, false
}

// next consumes and returns the next instruction.
func (s *scanner) next() (Instruction, bool) {
	in, ok := s.peek()
	if ok {
		s.pos++
	}
	return in, ok
}
