package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func Test_ContextHandler_AddsContextAttrs(t *testing.T) {
	testCases := []struct {
		name     string
		ctx      context.Context
		expected map[string]any
		absent   []string
	}{
		{
			name:     "request id",
			ctx:      AppendCtx(context.Background(), slog.String("request_id", "req-42")),
			expected: map[string]any{"request_id": "req-42"},
		},
		{
			name: "appended attrs accumulate",
			ctx: AppendCtx(
				AppendCtx(context.Background(), slog.String("request_id", "req-1")),
				slog.String("operation", "amend"), slog.Int("sale_id", 7),
			),
			expected: map[string]any{"request_id": "req-1", "operation": "amend", "sale_id": float64(7)},
		},
		{
			name:   "plain context",
			ctx:    context.Background(),
			absent: []string{"request_id", "trace_id"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var buf bytes.Buffer
			log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

			// when
			log.InfoContext(tc.ctx, "hello")

			// then
			record := decode(t, &buf)
			for k, v := range tc.expected {
				assert.Equal(t, v, record[k], k)
			}
			for _, k := range tc.absent {
				assert.NotContains(t, record, k)
			}
		})
	}
}

func Test_AppendCtx_DoesNotLeakIntoParent(t *testing.T) {
	parent := AppendCtx(context.Background(), slog.String("request_id", "r"))
	_ = AppendCtx(parent, slog.String("operation", "create"))

	var buf bytes.Buffer
	slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil))).InfoContext(parent, "hello")

	record := decode(t, &buf)
	assert.Equal(t, "r", record["request_id"])
	assert.NotContains(t, record, "operation")
}

func Test_ContextHandler_AddsTraceIDs(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	var buf bytes.Buffer
	slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil))).With("component", "test").InfoContext(ctx, "hello")

	record := decode(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", record["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", record["span_id"])
	assert.Equal(t, "test", record["component"])
}
