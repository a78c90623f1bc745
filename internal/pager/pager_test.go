package pager

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassthroughWritesAndCloses(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	out := Passthrough(&buf)

	_, err := out.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, out.Close())

	assert.Equal(t, "hello\n", buf.String())
}

func TestOpenNonTerminalIsPassthrough(t *testing.T) {
	t.Parallel()

	// A regular file is not a terminal, so no pager process may start
	// even when a command is configured.
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	out, err := Open(f, "definitely-not-a-real-pager-binary")
	require.NoError(t, err)

	_, err = out.Write([]byte("direct\n"))
	require.NoError(t, err)
	require.NoError(t, out.Close())

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "direct\n", string(data))
}
