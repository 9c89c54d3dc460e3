package log

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestLevels(t *testing.T) {
	buf := captureOutput(t)

	SetLevel(LevelInfo)
	Debug("hidden")
	Info("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown k=v")

	buf.Reset()
	SetLevel(LevelError)
	Warn("quiet")
	Error("loud", errors.New("boom"), "id", 7)
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "err=boom id=7")
}

func TestMalformedPairsAreDropped(t *testing.T) {
	buf := captureOutput(t)

	Info("odd", "a", 1, "dangling")
	Info("badkey", 42, "x")
	assert.Contains(t, buf.String(), "msg=odd a=1")
	assert.NotContains(t, buf.String(), "dangling")
	assert.NotContains(t, buf.String(), "BADKEY")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}
