package tracing_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taxonomy-import/pkg/tracing"
)

func TestStartSpanWithoutTracer(t *testing.T) {
	tracing.SetTracer(nil)
	ctx, span := tracing.StartSpan(context.Background(), "noop")
	defer span.End()
	assert.Empty(t, tracing.TraceID(ctx))
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := tracing.Init(context.Background(), tracing.Config{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := tracing.Init(context.Background(), tracing.Config{Enabled: true, Version: "test", Writer: &buf})
	require.NoError(t, err)
	t.Cleanup(func() { tracing.SetTracer(nil) })

	ctx, span := tracing.StartSpan(context.Background(), "reconcile")
	assert.NotEmpty(t, tracing.TraceID(ctx))
	tracing.End(span, nil)

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "reconcile")
}

func TestEnabled(t *testing.T) {
	t.Setenv(tracing.EnvEnabled, "true")
	assert.True(t, tracing.Enabled())
	t.Setenv(tracing.EnvEnabled, "")
	assert.False(t, tracing.Enabled())
}
