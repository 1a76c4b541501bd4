package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	apiTracer = otel.Tracer("api-futbol/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// Handlers and the auth gates get spans; response helpers and logging stay out of traces.
var tracedSpanPrefixes = []string{
	"httpapi.Handler.",
	"httpapi.Require",
}

// startSpan never starts a root span: requests filtered out by RequestTracing stay untraced.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() || !isTracedSpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func isTracedSpan(name string) bool {
	for _, prefix := range tracedSpanPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
