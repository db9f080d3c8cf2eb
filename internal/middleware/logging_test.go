package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestCtxHandler(t *testing.T) {
	newLogger := func() (*slog.Logger, *bytes.Buffer) {
		var buf bytes.Buffer
		return slog.New(&ctxHandler{slog.NewTextHandler(&buf, nil)}), &buf
	}

	t.Run("RequestAndUserID", func(t *testing.T) {
		logger, buf := newLogger()

		ctx := context.WithValue(context.Background(), RequestIDKey, "req-123")
		ctx = context.WithValue(ctx, UserIDKey, uint(7))
		logger.InfoContext(ctx, "hello")

		out := buf.String()
		assert.Contains(t, out, "request_id=req-123")
		assert.Contains(t, out, "user_id=7")
		assert.NotContains(t, out, "trace_id")
	})

	t.Run("TraceID", func(t *testing.T) {
		logger, buf := newLogger()

		traceID, err := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
		require.NoError(t, err)
		spanID, err := trace.SpanIDFromHex("0123456789abcdef")
		require.NoError(t, err)
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		})

		ctx := trace.ContextWithSpanContext(context.Background(), sc)
		logger.InfoContext(ctx, "traced")

		assert.Contains(t, buf.String(), "trace_id=0123456789abcdef0123456789abcdef")
	})

	t.Run("BareContext", func(t *testing.T) {
		logger, buf := newLogger()

		logger.InfoContext(context.Background(), "plain")

		out := buf.String()
		assert.True(t, strings.Contains(out, "plain"))
		assert.NotContains(t, out, "request_id")
		assert.NotContains(t, out, "user_id")
		assert.NotContains(t, out, "trace_id")
	})
}
