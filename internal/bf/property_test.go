package bf_test

import (
	"math/rand"
	"strings"
	"testing"

	"martianoff/bfgo/internal/bf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomProgram builds a balanced program with comment noise between instructions.
func randomProgram(r *rand.Rand, size int) string {
	const ops = "><+-,."
	var sb strings.Builder
	open := 0
	for i := 0; i < size; i++ {
		switch n := r.Intn(10); {
		case n == 0:
			sb.WriteByte('[')
			open++
		case n == 1 && open > 0:
			sb.WriteByte(']')
			open--
		case n == 2:
			sb.WriteString(" note\n")
		default:
			c := ops[r.Intn(len(ops))]
			for j := r.Intn(4); j >= 0; j-- {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteString(strings.Repeat("]", open))
	return sb.String()
}

func TestPropertiesOnRandomPrograms(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		src := randomProgram(r, 1+r.Intn(120))

		single := bf.Tokenize(src)
		repeated := bf.TokenizeRepeated(src)
		require.Equal(t, bf.Expand(single), bf.Expand(repeated), src)

		for _, tokens := range [][]bf.Unit{single, repeated} {
			segs := bf.Structure(tokens)
			assert.Equal(t, bf.Source(tokens), bf.Source(bf.Flatten(segs)), src)
		}

		f, err := bf.Parse(src)
		require.NoError(t, err, src)
		assert.Equal(t, strings.ContainsRune(src, ','), f.NeedsInput, src)

		back, err := bf.Decode(bf.Encode(f))
		require.NoError(t, err)
		assert.Equal(t, bf.Flatten(f.Segments), bf.Flatten(back.Segments))
	}
}
