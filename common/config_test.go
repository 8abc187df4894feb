package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("buffer_pool_frames = 64\nlog_level = \"warn\"\n"))
	require.NoError(t, err)
	require.Equal(t, int64(64), cfg.BufferPoolFrames)
	require.Equal(t, "warn", cfg.LogLevel)
	require.False(t, cfg.Debug)
	require.Equal(t, DefaultConfig().DeadlockTimeoutMS, cfg.DeadlockTimeoutMS)

	_, err = ParseConfig([]byte("buffer_pool_frames = -1\n"))
	require.Error(t, err)
	_, err = ParseConfig([]byte("[unclosed\n"))
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kovdb.toml")
	require.NoError(t, os.WriteFile(path, []byte("debug = true\ndeadlock_timeout_ms = 500\n"), 0600))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.True(t, cfg.Debug)
	require.Equal(t, int64(500), cfg.DeadlockTimeoutMS)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestShPrintfLevels(t *testing.T) {
	saved := ActiveLogKindSetting
	defer func() {
		ActiveLogKindSetting = saved
		InitLogger("info", nil)
	}()

	var buf bytes.Buffer
	InitLogger("debug", &buf)
	ActiveLogKindSetting = INFO | WARN

	ShPrintf(INFO, "hello %d\n", 1)
	ShPrintf(WARN, "careful\n")
	ShPrintf(DEBUG_INFO, "hidden\n")
	ShPrintf(ERROR, "hidden too\n")

	out := buf.String()
	require.True(t, strings.Contains(out, "[INFO] hello 1"))
	require.True(t, strings.Contains(out, "[WARN] careful"))
	require.False(t, strings.Contains(out, "hidden"))

	// Scenario: the logrus level filters kinds enabled in the setting.
	buf.Reset()
	InitLogger("warn", &buf)
	ActiveLogKindSetting = INFO | WARN | DEBUG_INFO
	ShPrintf(INFO, "filtered\n")
	ShPrintf(DEBUG_INFO, "filtered\n")
	ShPrintf(WARN, "kept\n")
	require.Equal(t, 1, strings.Count(buf.String(), "\n"))
	require.True(t, strings.Contains(buf.String(), "kept"))
}
