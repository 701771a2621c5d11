package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/whichllm/pkg/constants"
	"github.com/agentstation/whichllm/pkg/records"
)

func TestScanAndClear(t *testing.T) {
	dir := t.TempDir()

	usage, err := Scan(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Zero(t, usage.Files)

	for _, name := range []string{"models_dev", "artificial_analysis"} {
		snap, err := New[records.Capability](name, capabilities(), fetchedAt)
		require.NoError(t, err)
		require.NoError(t, NewStore[records.Capability](dir, name).Save(snap))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".llms.123.tmp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644))

	usage, err = Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, usage.Dir)
	assert.Equal(t, 2, usage.Artifacts)
	assert.Equal(t, 5, usage.Files)
	assert.Positive(t, usage.Bytes)

	removed, err := Clear(dir)
	require.NoError(t, err)
	assert.Equal(t, 5, removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes.txt", entries[0].Name())

	removed, err = Clear(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestDefaultDir(t *testing.T) {
	t.Setenv(constants.CacheDirEnv, "/tmp/which-llm-test")
	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/which-llm-test", dir)

	t.Setenv(constants.CacheDirEnv, "")
	dir, err = DefaultDir()
	if err == nil {
		assert.Equal(t, constants.CacheDirName, filepath.Base(dir))
	}
}
