package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	appctx "labelkit/internal/core/context"
	"labelkit/internal/core/id"
	"labelkit/pkg/logger"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

var tracer = otel.Tracer("labelkit/http")

// Trace middleware starts a server span and adds request tracing context.
// Incoming X-Request-ID / X-Trace-ID headers are honored; otherwise the
// span's trace id is used when a tracer provider is installed, and a fresh
// UUIDv7 when it is not.
func Trace(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = id.New().String()
		}

		sc := span.SpanContext()
		traceID := c.GetHeader(HeaderTraceID)
		if traceID == "" {
			if sc.HasTraceID() {
				traceID = sc.TraceID().String()
			} else {
				traceID = id.New().String()
			}
		}
		spanID := sc.SpanID().String()
		if !sc.HasSpanID() {
			spanID = id.New().String()[:16]
		}

		ctx = appctx.WithTrace(ctx, &appctx.TraceContext{
			TraceID:   traceID,
			SpanID:    spanID,
			RequestID: requestID,
		})
		if log != nil {
			ctx = logger.WithLogger(ctx, log)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Set("trace_id", traceID)
		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)
		c.Header(HeaderTraceID, traceID)

		c.Next()

		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
	}
}
