package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/domsplice/internal/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"Warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"chatty", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logging.ParseLevel(tt.level))
		})
	}
}

func TestNewWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", logging.FieldPath, "a.html")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "path=a.html")
}

func TestDefaultAndSetLevel(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	var buf bytes.Buffer
	logging.SetDefault(logging.NewWriter(&buf, "info"))
	logging.SetLevel("debug")

	require.Equal(t, log.DebugLevel, logging.Default().GetLevel())
}

func TestContext(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))

	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, "debug")
	ctx := logging.WithLogger(context.Background(), logger)
	assert.Same(t, logger, logging.FromContext(ctx))
}
