package build_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/bfgo/internal/build"
)

func TestModuleName(t *testing.T) {
	tests := []struct {
		base     string
		expected string
	}{
		{"hello", "hello"},
		{"Hello World", "hello-world"},
		{"my_prog.v2", "my_prog.v2"},
		{".hidden", "hidden"},
		{"///", "bfprog"},
		{"", "bfprog"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.expected, build.ModuleName(tt.base))
		})
	}
}

func TestWorkspace_Files(t *testing.T) {
	w, err := build.NewWorkspace(t.TempDir())
	require.NoError(t, err)
	assert.True(t, w.Exists())

	require.NoError(t, w.WriteFile("b.txt", []byte("b")))
	require.NoError(t, w.WriteFile("a.txt", []byte("a")))

	files, err := w.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, files)

	missing, err := w.ReadFile("nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMarker(t *testing.T) {
	m := build.Marker{Source: "hello.bf", SourceHash: build.HashBytes([]byte("+.")), MainHash: build.HashBytes([]byte("x"))}

	parsed, err := build.ParseMarker(m.Bytes())
	require.NoError(t, err)
	assert.Equal(t, m, parsed)

	assert.Equal(t, build.HashBytes([]byte("a\nb\n")), build.HashBytes([]byte("a\r\nb\r\n")))
	assert.Regexp(t, `^h1:[A-Za-z0-9+/]{43}=$`, m.SourceHash)

	_, err = build.ParseMarker([]byte("garbage\n"))
	assert.Error(t, err)
	_, err = build.ParseMarker([]byte("bfgo-project v1\nhello.bf nothash\n"))
	assert.Error(t, err)
}
