package log_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bindbutton/internal/log"
)

func TestLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindbutton.log")
	require.NoError(t, log.Setup(log.INFO, path))
	defer log.Close()

	log.Info("hello %d", 42)
	log.Debug("hidden")
	log.Error("bad thing")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, "[INFO] - hello 42"))
	assert.True(t, strings.Contains(out, "[ERROR] - bad thing"))
	assert.False(t, strings.Contains(out, "hidden"))
}

func TestSetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindbutton.log")
	require.NoError(t, log.Setup(log.INFO, path))
	defer log.Close()

	log.SetLevel(log.DEBUG)
	log.Debug("now visible")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "[DEBUG] - now visible"))
}
