package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taxonomy-import/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	logging.SetDefault(zerolog.New(buf).Level(zerolog.InfoLevel))

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warning message")
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithRunID(ctx, "run-123")
	ctx = logging.WithSubject(ctx, "urn:subject:1")
	ctx = logging.WithEntity(ctx, "topic", "topic:1:42")
	ctx = logging.WithRow(ctx, 7)

	logging.FromContext(ctx).Info().Msg("reconciled")

	lines := testLogger.Lines()
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "run-123", entry["run_id"])
	assert.Equal(t, "urn:subject:1", entry["subject_id"])
	assert.Equal(t, "topic", entry["kind"])
	assert.Equal(t, "topic:1:42", entry["entity_id"])
	assert.EqualValues(t, 7, entry["row"])
	assert.Equal(t, "run-123", logging.RunID(ctx))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled on purpose
	assert.Same(t, logging.Default(), logging.FromContext(nil))
}

func TestWithFields(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithFields(ctx, map[string]any{
		"created": 3,
		"dry_run": true,
	})

	logging.Ctx(ctx).Info().Msg("summary")
	testLogger.AssertContains(t, `"created":3`)
	testLogger.AssertContains(t, `"dry_run":true`)
}

func TestNewLoggerFromConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *logging.Config
		wantDebug bool
	}{
		{"info level hides debug", &logging.Config{Level: "info", Format: "json", Output: "discard"}, false},
		{"debug level shows debug", &logging.Config{Level: "debug", Format: "json", Output: "discard"}, true},
		{"unknown level falls back to info", &logging.Config{Level: "loud", Format: "json", Output: "discard"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.NewLoggerFromConfig(tt.cfg)
			assert.Equal(t, tt.wantDebug, logger.GetLevel() <= zerolog.DebugLevel)
		})
	}
}

func TestCaptureLoggingForTest(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)

	logging.Warn().Str("entity_id", "resource:1:9").Msg("detach failed")
	logging.Warn().Msg("attach failed")

	assert.Equal(t, 2, captured.CountContaining("failed"))
	captured.AssertContains(t, "resource:1:9")
	assert.True(t, strings.HasPrefix(captured.Lines()[0], "{"))
}
