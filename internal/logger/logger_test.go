package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	l, err := New(Config{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)

	l.With(String("stage", "copy")).Warn("fallback used", Error(errors.New("boom")))
	l.Debug("hidden")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"fallback used"`)
	assert.Contains(t, out, `"stage":"copy"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.NotContains(t, out, "hidden")
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.With(Int("n", 1)).Error("ignored")
	assert.NoError(t, l.Sync())
}
