package bf_test

import (
	"testing"

	"martianoff/bfgo/internal/bf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rep(in bf.Instruction, n int) bf.Repeated {
	return bf.Repeated{Op: in, N: n}
}

func TestStructureStraightLine(t *testing.T) {
	got := bf.Structure(bf.TokenizeRepeated("+++."))

	require.Len(t, got, 1)
	exec, ok := got[0].(*bf.Executable)
	require.True(t, ok)
	assert.Equal(t, []bf.Unit{rep(bf.CellInc, 3), rep(bf.Write, 1)}, exec.Tokens)
}

func TestStructureNestedAndSiblingLoops(t *testing.T) {
	got := bf.Structure(bf.TokenizeRepeated("+++[>+++<-]>.[[-]>][]"))

	want := []bf.Segment{
		&bf.Executable{Tokens: []bf.Unit{rep(bf.CellInc, 3)}},
		&bf.Loop{Body: []bf.Segment{
			&bf.Executable{Tokens: []bf.Unit{rep(bf.PointerInc, 1), rep(bf.CellInc, 3), rep(bf.PointerDec, 1), rep(bf.CellDec, 1)}},
		}},
		&bf.Executable{Tokens: []bf.Unit{rep(bf.PointerInc, 1), rep(bf.Write, 1)}},
		&bf.Loop{Body: []bf.Segment{
			&bf.Loop{Body: []bf.Segment{
				&bf.Executable{Tokens: []bf.Unit{rep(bf.CellDec, 1)}},
			}},
			&bf.Executable{Tokens: []bf.Unit{rep(bf.PointerInc, 1)}},
		}},
		&bf.Loop{},
	}
	assert.Equal(t, want, got)
}

func TestStructureEmptyLoop(t *testing.T) {
	got := bf.Structure(bf.Tokenize("[]"))

	require.Len(t, got, 1)
	loop, ok := got[0].(*bf.Loop)
	require.True(t, ok)
	assert.Empty(t, loop.Body)
}

func TestStructureDeepNesting(t *testing.T) {
	src := ""
	for i := 0; i < 200; i++ {
		src += "["
	}
	src += "+"
	for i := 0; i < 200; i++ {
		src += "]"
	}
	src += "."

	got := bf.Structure(bf.TokenizeRepeated(src))

	require.Len(t, got, 2)
	depth := 0
	bf.Walk(got, func(seg bf.Segment, d int) bool {
		if d > depth {
			depth = d
		}
		return true
	})
	assert.Equal(t, 200, depth)
	assert.IsType(t, &bf.Executable{}, got[1])
}

func TestStructureUnbalanced(t *testing.T) {
	t.Run("dangling loop-start takes the rest as body", func(t *testing.T) {
		got := bf.Structure(bf.TokenizeRepeated("+[>+"))
		require.Len(t, got, 2)
		loop := got[1].(*bf.Loop)
		require.Len(t, loop.Body, 1)
		assert.Equal(t, []bf.Unit{rep(bf.PointerInc, 1), rep(bf.CellInc, 1)}, loop.Body[0].(*bf.Executable).Tokens)
	})

	t.Run("stray loop-end truncates the level", func(t *testing.T) {
		got := bf.Structure(bf.TokenizeRepeated("+]>>."))
		require.Len(t, got, 1)
		assert.Equal(t, []bf.Unit{rep(bf.CellInc, 1)}, got[0].(*bf.Executable).Tokens)
	})
}

func TestFlattenRestoresTokenStream(t *testing.T) {
	programs := []string{
		"",
		"+++.",
		"[]",
		"+++[>+++<-]>.",
		"[[[]]][-]>>[<]<,.",
		",[.,]",
	}
	for _, src := range programs {
		tokens := bf.TokenizeRepeated(src)
		assert.Equal(t, bf.Source(tokens), bf.Source(bf.Flatten(bf.Structure(tokens))), src)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	segs := bf.Structure(bf.Tokenize("[[+]]+"))
	var visited int
	bf.Walk(segs, func(seg bf.Segment, depth int) bool {
		visited++
		return false
	})
	assert.Equal(t, 2, visited)
}
