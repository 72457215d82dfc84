package bf_test

import (
	"testing"

	"martianoff/bfgo/internal/bf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProgram = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.,[]"

func TestJSONRoundTrip(t *testing.T) {
	for _, mode := range []bf.Mode{bf.ModeSingle, bf.ModeRepeated} {
		f := bf.MustParse(sampleProgram, bf.WithMode(mode))

		data, err := bf.MarshalJSON(f)
		require.NoError(t, err)
		back, err := bf.UnmarshalJSON(data)
		require.NoError(t, err)

		assert.Equal(t, bf.Encode(f), bf.Encode(back), mode.String())
		assert.Equal(t, bf.Flatten(f.Segments), bf.Flatten(back.Segments), mode.String())
		assert.Equal(t, f.NeedsInput, back.NeedsInput)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	f := bf.MustParse(sampleProgram)

	data, err := bf.MarshalYAML(f)
	require.NoError(t, err)
	back, err := bf.UnmarshalYAML(data)
	require.NoError(t, err)

	assert.Equal(t, bf.Flatten(f.Segments), bf.Flatten(back.Segments))
	assert.True(t, back.NeedsInput)
}

func TestRecordShape(t *testing.T) {
	f := bf.MustParse("+++[-][]")

	data, err := bf.MarshalJSON(f)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"needs_input": false,
		"segments": [
			{"kind": "executable", "tokens": [{"op": "+", "count": 3}]},
			{"kind": "loop", "body": [{"kind": "executable", "tokens": [{"op": "-", "count": 1}]}]},
			{"kind": "loop"}
		]
	}`, string(data))

	bare := bf.MustParse("+.", bf.WithMode(bf.ModeSingle))
	rec := bf.Encode(bare)
	assert.Equal(t, []bf.TokenRecord{{Op: "+"}, {Op: "."}}, rec.Segments[0].Tokens)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		msg  string
	}{
		{"unknown kind", `{"segments":[{"kind":"jump"}]}`, `segments[0]: unknown segment kind "jump"`},
		{"bad op", `{"segments":[{"kind":"executable","tokens":[{"op":"x"}]}]}`, `invalid op "x"`},
		{"loop marker token", `{"segments":[{"kind":"executable","tokens":[{"op":"["}]}]}`, "loop marker"},
		{"negative count", `{"segments":[{"kind":"loop","body":[{"kind":"executable","tokens":[{"op":"+","count":-2}]}]}]}`, "segments[0].body[0].tokens[0]: negative count -2"},
		{"loop with tokens", `{"segments":[{"kind":"loop","tokens":[{"op":"+"}]}]}`, "loop segment has tokens"},
		{"malformed", `{"segments":`, "decoding JSON"},
		{"read without needs_input", `{"needs_input":false,"segments":[{"kind":"executable","tokens":[{"op":","},{"op":"."}]}]}`, "needs_input is false but the segments contain a read"},
		{"nested read without needs_input", `{"segments":[{"kind":"loop","body":[{"kind":"executable","tokens":[{"op":","}]}]}]}`, "contain a read"},
		{"needs_input without read", `{"needs_input":true,"segments":[{"kind":"executable","tokens":[{"op":"+"}]}]}`, "needs_input is true but the segments contain no read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bf.UnmarshalJSON([]byte(tt.json))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDecodeDerivesNeedsInput(t *testing.T) {
	f, err := bf.Decode(bf.FileRecord{
		NeedsInput: true,
		Segments: []bf.SegmentRecord{
			{Kind: bf.KindLoop, Body: []bf.SegmentRecord{
				{Kind: bf.KindExecutable, Tokens: []bf.TokenRecord{{Op: ","}}},
			}},
		},
	})
	require.NoError(t, err)
	assert.True(t, f.NeedsInput)

	f, err = bf.UnmarshalYAML([]byte("segments:\n  - kind: executable\n    tokens:\n      - op: \"+\"\n"))
	require.NoError(t, err)
	assert.False(t, f.NeedsInput)
}

func TestStats(t *testing.T) {
	st := bf.Collect(bf.MustParse("+++[>+++<-]>.[[-]][],"))

	assert.Equal(t, 4, st.Loops)
	assert.Equal(t, 1, st.EmptyLoops)
	assert.Equal(t, 2, st.MaxDepth)
	assert.True(t, st.NeedsInput)
	assert.Equal(t, 6, st.PerOp[bf.CellInc])
	assert.Equal(t, 4, st.PerOp[bf.LoopStart])
	assert.Equal(t, len(bf.Tokenize("+++[>+++<-]>.[[-]][],")), st.Instructions)
}
