package bf

// Stats summarizes the shape of a parsed program.
type Stats struct {
	Tokens       int
	Instructions int
	Executables  int
	Loops        int
	EmptyLoops   int
	MaxDepth     int
	NeedsInput   bool
	PerOp        map[Instruction]int
}

// Collect walks f and counts its segments and effective instructions.
// Loop markers are counted once per bracket in PerOp.
func Collect(f *File) Stats {
	st := Stats{NeedsInput: f.NeedsInput, PerOp: make(map[Instruction]int)}
	Walk(f.Segments, func(seg Segment, depth int) bool {
		switch s := seg.(type) {
		case *Executable:
			st.Executables++
			for _, t := range s.Tokens {
				st.Tokens++
				st.Instructions += t.Count()
				st.PerOp[t.Instruction()] += t.Count()
			}
		case *Loop:
			st.Loops++
			st.Tokens += 2
			st.Instructions += 2
			st.PerOp[LoopStart]++
			st.PerOp[LoopEnd]++
			if len(s.Body) == 0 {
				st.EmptyLoops++
			}
			if depth+1 > st.MaxDepth {
				st.MaxDepth = depth + 1
			}
		}
		return true
	})
	return st
}
