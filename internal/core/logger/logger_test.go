package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"seafood-shop/internal/core/config"
)

func TestBuildWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "shop.log")
	l, cleanup := New(config.Log{
		Level: "info",
		JSON:  true,
		Rotate: config.Rotate{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("order created")
	l.Debug("hidden")
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "order created")
	assert.NotContains(t, string(b), "hidden")
}

func TestBadLevelFallsBackToInfo(t *testing.T) {
	l, cleanup := Build(Options{Level: "loud"})
	defer cleanup()
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.NotNil(t, ToStdLogger(l, zapcore.WarnLevel))
}
