package iologger_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/internal/iologger"
	"github.com/gnames/gnaoi/pkg/config"
	"github.com/gnames/gnaoi/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	assert := assert.New(t)
	var buf bytes.Buffer

	h := iologger.NewHandler(&buf, config.LogConfig{Format: "json", Level: "warn"})
	assert.False(h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(h.Enabled(context.Background(), slog.LevelWarn))

	slog.New(h).Warn("AOI skipped", "ordinal", 3)
	assert.Contains(buf.String(), `"msg":"AOI skipped"`)
	assert.Contains(buf.String(), `"ordinal":3`)

	buf.Reset()
	h = iologger.NewHandler(&buf, config.LogConfig{Format: "text", Level: "debug"})
	assert.True(h.Enabled(context.Background(), slog.LevelDebug))
	slog.New(h).Info("AOI saved", "name", "farm")
	assert.Contains(buf.String(), "msg=\"AOI saved\" name=farm")
}

func TestInitFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	dir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}
	require.NoError(t, iologger.Init(dir, cfg))
	slog.Info("hello")

	bs, err := os.ReadFile(filepath.Join(dir, iologger.LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(bs), `"msg":"hello"`)
}

func TestInitFileError(t *testing.T) {
	cfg := config.LogConfig{Destination: "file"}
	err := iologger.Init(filepath.Join(t.TempDir(), "missing", "dir"), cfg)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
}
