package interpreter

// Bounds is the visible slice [Start, End) of a buffer and the cursor
// position relative to Start.
type Bounds struct {
	Start int
	End   int
	Rel   int
}

// RegionBounds centers a window of width characters on pos within a buffer
// of bufLen characters. Near either end the window slides so it stays full.
// pos may equal bufLen, marking the position after the last character.
func RegionBounds(width, bufLen, pos int) Bounds {
	if width < 1 {
		width = 1
	}
	pos = min(max(pos, 0), bufLen)

	start := max(pos-width/2, 0)
	end := min(start+width, bufLen)
	if end-start < width {
		start = max(end-width, 0)
	}
	return Bounds{Start: start, End: end, Rel: pos - start}
}
