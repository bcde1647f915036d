package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestStartSpanNestsUnderTrace(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), NewLogger(&buf, slog.LevelDebug))

	ctx, parent := StartSpan(ctx, "parent")
	traceID := TraceIDFromContext(ctx)
	parentID := SpanIDFromContext(ctx)
	require.NotEmpty(t, traceID)

	childCtx, child := StartSpan(ctx, "child")
	assert.Equal(t, traceID, TraceIDFromContext(childCtx))
	assert.NotEqual(t, parentID, SpanIDFromContext(childCtx))
	child.End()
	parent.End()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "child", entry["span_name"])
	assert.Equal(t, parentID, entry["parent_span_id"])
	assert.Equal(t, traceID, entry["trace_id"])
}

func TestStartSpanReusesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")

	ctx, span := StartSpan(ctx, "op")
	defer span.End()

	assert.Equal(t, "req-1", TraceIDFromContext(ctx))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}
