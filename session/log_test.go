package session

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentharness/internal/testutil"
)

func TestFileLog_EnsureAndAppend(t *testing.T) {
	b := testutil.NewDirBuilder(t)
	log := NewFileLog(b.Path("logs/SESSION_LOG.md"))

	require.NoError(t, log.Ensure())
	require.NoError(t, log.Append("[INIT] loaded_manifests=['a']   \n"))
	require.NoError(t, log.Append("[SCHEMA_CHECK] summary_schema_valid=true"))

	data, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.Equal(t, "## Session: INIT\n[INIT] loaded_manifests=['a']\n[SCHEMA_CHECK] summary_schema_valid=true\n", string(data))
}

func TestFileLog_EnsureKeepsExisting(t *testing.T) {
	b := testutil.NewDirBuilder(t).File("log.md", "previous\n")
	log := NewFileLog(b.Path("log.md"))

	require.NoError(t, log.Ensure())
	require.NoError(t, log.Append("next"))

	data, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.Equal(t, "previous\nnext\n", string(data))
}

func TestFileLog_ConcurrentAppendsDoNotInterleave(t *testing.T) {
	b := testutil.NewDirBuilder(t)
	log := NewFileLog(b.Path("log.md"))
	require.NoError(t, log.Ensure())

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, log.Append(strings.Repeat("x", 64)))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 26)
	for _, line := range lines[1:] {
		assert.Len(t, line, 64)
	}
}

func TestMemoryLog(t *testing.T) {
	log := NewMemoryLog()
	require.NoError(t, log.Ensure())
	require.NoError(t, log.Ensure())
	require.NoError(t, log.Append("one \t"))

	assert.Equal(t, []string{Header, "one"}, log.Lines())
}
