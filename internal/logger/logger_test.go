package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		SetVerbose(false)
		require.NoError(t, SetLevel("warn"))
		SetOutput(os.Stderr)
	})
}

func TestSetVerbose(t *testing.T) {
	reset(t)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("chunked document", "source", "a.txt", "chunks", 3)

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "chunked document")
	assert.Contains(t, out, `"source": "a.txt"`)
	assert.Contains(t, out, `"chunks": 3`)
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("hidden")
	Info("also hidden")

	assert.Empty(t, buf.String())
}

func TestWarn_DefaultLevel(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)

	Warn("fetch failed", "url", "https://example.com")
	Error("store unavailable")

	out := buf.String()
	assert.Contains(t, out, "fetch failed")
	assert.Contains(t, out, "store unavailable")
}

func TestSetLevel(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)

	require.NoError(t, SetLevel("info"))
	Info("notes synced", "count", 2)
	assert.Contains(t, buf.String(), "notes synced")

	assert.Error(t, SetLevel("loud"))
}

func TestSetLevel_Names(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		logsWarn  bool
		logsInfo  bool
		wantError bool
	}{
		{"warning alias", "WARNING", true, false, false},
		{"lowercase warning", "warning", true, false, false},
		{"upper info", "INFO", true, true, false},
		{"mixed case error", "Error", false, false, false},
		{"unknown", "chatty", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset(t)
			var buf bytes.Buffer
			SetOutput(&buf)

			err := SetLevel(tt.level)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			Info("info line")
			Warn("warn line")
			assert.Equal(t, tt.logsInfo, strings.Contains(buf.String(), "info line"))
			assert.Equal(t, tt.logsWarn, strings.Contains(buf.String(), "warn line"))
		})
	}
}

func TestSection(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Reindex")

	assert.Contains(t, buf.String(), "=== Reindex ===")
}
