package bf

// Segment is a node of the structured program tree: either an Executable
// straight-line block or a Loop.
type Segment interface {
	segment()
}

// Executable is a straight-line run of non-bracket tokens.
type Executable struct {
	Tokens []Unit
}

// Loop repeats Body while the current cell is nonzero. Body may be empty.
type Loop struct {
	Body []Segment
}

func (*Executable) segment() {}
func (*Loop) segment()       {}

// Structure partitions a flat token stream into a segment tree.
//
// Bracket balance is not checked: a loop-start without a partner takes the
// rest of the stream as its body, and a stray loop-end ends the current level
// early, dropping the tokens after it.
func Structure(tokens []Unit) []Segment {
	segments, _ := structure(tokens)
	return segments
}

// structure builds the segments of tokens up to the first unmatched
// loop-end and reports how many tokens it consumed. The count covers nested
// loops including both of their brackets but not the loop-end that stopped
// this level; the caller accounts for that bracket.
func structure(tokens []Unit) ([]Segment, int) {
	var segments []Segment
	var run []Unit
	consumed := 0

	flush := func() {
		if len(run) > 0 {
			segments = append(segments, &Executable{Tokens: run})
			run = nil
		}
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Instruction() {
		case LoopStart:
			flush()
			body, n := structure(tokens[i+1:])
			segments = append(segments, &Loop{Body: body})
			// skip the body and its closing bracket
			i += n + 1
			consumed += n + 2
		case LoopEnd:
			flush()
			return segments, consumed
		default:
			run = append(run, tok)
			consumed++
		}
	}

	flush()
	return segments, consumed
}

// Flatten walks segments depth-first in pre-order and returns the tokens
// with every loop rendered back to a bracket pair.
func Flatten(segments []Segment) []Unit {
	var out []Unit
	for _, seg := range segments {
		switch s := seg.(type) {
		case *Executable:
			out = append(out, s.Tokens...)
		case *Loop:
			out = append(out, LoopStart)
			out = append(out, Flatten(s.Body)...)
			out = append(out, LoopEnd)
		}
	}
	return out
}

// Walk calls fn for every segment in depth-first pre-order with its loop
// nesting depth. Returning false from fn skips the segment's children.
func Walk(segments []Segment, fn func(seg Segment, depth int) bool) {
	walk(segments, 0, fn)
}

func walk(segments []Segment, depth int, fn func(Segment, int) bool) {
	for _, seg := range segments {
		if !fn(seg, depth) {
			continue
		}
		if l, ok := seg.(*Loop); ok {
			walk(l.Body, depth+1, fn)
		}
	}
}
