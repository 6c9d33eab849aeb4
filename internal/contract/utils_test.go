package contract

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name      string
		maneuvers int
		label     string
	}{
		{"low", 0, LowValue},
		{"moderate", 3, ModerateValue},
		{"high", 10, HighValue},
		{"critical", 25, CriticalValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetColorLabel(tt.maneuvers)
			// Should contain the plain label
			assert.Contains(t, result, tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestDBFilePaths(t *testing.T) {
	cachePath := GetCacheDBFilePath()
	ridePath := GetRideDBFilePath()
	assert.True(t, strings.HasSuffix(cachePath, ".ridestats_cache.db"))
	assert.True(t, strings.HasSuffix(ridePath, ".ridestats_rides.db"))
	assert.NotEqual(t, cachePath, ridePath)
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(zerolog.Nop())

	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	Log().Debug().Str("name", "summary").Uint64("generation", 3).Msg("cache miss")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "cache miss", entry["message"])
	assert.Equal(t, "summary", entry["name"])
	assert.InDelta(t, 3, entry["generation"], 0)

	buf.Reset()
	Logf("applied migration %d", 2)
	assert.Contains(t, buf.String(), `"message":"applied migration 2"`)

	buf.Reset()
	SetLogger(zerolog.Nop())
	Logf("muted")
	assert.Zero(t, buf.Len())
}

func TestNewDebugLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewDebugLogger(&buf)
	l.Debug().Int("rides", 2).Msg("saved rides")
	l.Trace().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, "saved rides")
	assert.Contains(t, out, "rides=")
	assert.NotContains(t, out, "hidden")
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short.gpx", TruncateLabel("short.gpx", 20))
	assert.Equal(t, "...ng_ride.gpx", TruncateLabel("a_very_long_ride.gpx", 14))
	assert.Equal(t, "abcdef", TruncateLabel("abcdef", 3))
}
