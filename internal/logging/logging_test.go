package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chatbot.log")

	logger, cleanup, err := New(Options{Path: path})
	require.NoError(t, err)

	logger.Info("stream complete", zap.Int("chunks", 3))
	logger.Debug("hidden at info level")
	cleanup()

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "stream complete", entries[0]["msg"])
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "chatbot", entries[0]["logger"])
	assert.EqualValues(t, 3, entries[0]["chunks"])
}

func TestNew_VerboseLogsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatbot.log")

	logger, cleanup, err := New(Options{Path: path, Verbose: true})
	require.NoError(t, err)

	logger.Debug("sending message")
	cleanup()

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "debug", entries[0]["level"])
}

func TestNew_EmptyPathIsNop(t *testing.T) {
	logger, cleanup, err := New(Options{})
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Info("dropped")
	cleanup()
}
