package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIHandler_InfoMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCLIHandler(&buf, slog.LevelInfo, true))

	logger.Info("test info message")

	output := buf.String()
	assert.Contains(t, output, "test info message")
	assert.Contains(t, output, colorGreen)
	assert.NotContains(t, output, colorRed)
}

func TestCLIHandler_ErrorMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCLIHandler(&buf, slog.LevelInfo, true))

	logger.Error("test error message")

	output := buf.String()
	assert.Contains(t, output, "test error message")
	assert.Contains(t, output, colorRed)
	assert.Contains(t, output, colorReset)
}

func TestCLIHandler_WarnMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCLIHandler(&buf, slog.LevelInfo, true))

	logger.Warn("careful")

	assert.Contains(t, buf.String(), colorYellow)
}

func TestCLIHandler_NoColor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCLIHandler(&buf, slog.LevelInfo, false))

	logger.Error("plain")

	assert.Equal(t, "plain\n", buf.String())
}

func TestCLIHandler_LevelFiltering(t *testing.T) {
	tests := []struct {
		name         string
		handlerLevel slog.Level
		logFunc      func(*slog.Logger)
		shouldLog    bool
	}{
		{"info handler logs info", slog.LevelInfo, func(l *slog.Logger) { l.Info("test") }, true},
		{"info handler filters debug", slog.LevelInfo, func(l *slog.Logger) { l.Debug("test") }, false},
		{"debug handler logs debug", slog.LevelDebug, func(l *slog.Logger) { l.Debug("test") }, true},
		{"error handler logs error", slog.LevelError, func(l *slog.Logger) { l.Error("test") }, true},
		{"error handler filters info", slog.LevelError, func(l *slog.Logger) { l.Info("test") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewCLIHandler(&buf, tt.handlerLevel, false))

			tt.logFunc(logger)

			assert.Equal(t, tt.shouldLog, buf.Len() > 0)
		})
	}
}

func TestCLIHandler_LevelVar(t *testing.T) {
	var buf bytes.Buffer
	lv := new(slog.LevelVar)
	logger := slog.New(NewCLIHandler(&buf, lv, false))

	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	lv.Set(slog.LevelDebug)
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestCLIHandler_IncludesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCLIHandler(&buf, slog.LevelInfo, false))

	logger.Info("evaluated", "score", 4, "purk", "high")

	assert.Equal(t, "evaluated: score=4 purk=high\n", buf.String())
}

func TestCLIHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := NewCLIHandler(&buf, slog.LevelInfo, false)

	assert.Equal(t, handler, handler.WithAttrs(nil))

	logger := slog.New(handler.WithAttrs([]slog.Attr{slog.String("cmd", "eval")}))
	logger.Info("done", "ok", true)

	assert.Equal(t, "done: cmd=eval ok=true\n", buf.String())
}

func TestCLIHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	handler := NewCLIHandler(&buf, slog.LevelInfo, false)

	grouped := handler.WithGroup("server")
	require.NotEqual(t, handler, grouped)

	slog.New(grouped.WithGroup("api")).Info("request")

	assert.True(t, strings.HasPrefix(buf.String(), "[server.api] request"))
}

func TestCLIHandler_WithGroup_Empty(t *testing.T) {
	handler := NewCLIHandler(&bytes.Buffer{}, slog.LevelInfo, false)
	assert.Equal(t, handler, handler.WithGroup(""))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{" error ", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLogLevel(tt.input))
		})
	}
}

func TestSetDefaultCLILogger(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetDefaultCLILogger(&buf, "warn", false)

	slog.Info("ignored")
	slog.Warn("kept")

	assert.Equal(t, "kept\n", buf.String())
	assert.Equal(t, slog.LevelWarn, Level.Level())
	Level.Set(slog.LevelInfo)
}
