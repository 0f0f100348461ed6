package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/go-drift/listadapter/cmd/listdemo/internal/config"
	"github.com/go-drift/listadapter/pkg/adapter"
)

func TestNew_Fallback(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Format: "json"}, zapcore.InfoLevel, &buf)
	logger.Debug("hidden")
	logger.Info("shown")
	require.NoError(t, logger.Sync())

	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.log")
	logger := New(config.LogConfig{Filename: path}, zapcore.DebugLevel, nil)
	logger.Debug("to file")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNew_Discard(t *testing.T) {
	logger := New(config.LogConfig{}, zapcore.DebugLevel, nil)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestInstall_RoutesListErrors(t *testing.T) {
	var buf bytes.Buffer
	restore := Install(New(config.LogConfig{}, zapcore.DebugLevel, &buf), false)
	t.Cleanup(restore)

	adapter.NewList().RemoveAt(4)
	assert.Contains(t, buf.String(), "list operation ignored")
	assert.Contains(t, buf.String(), "adapter.RemoveAt")
}
