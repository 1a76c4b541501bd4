package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	usecaseTracer   = otel.Tracer("api-futbol/internal/usecase")
	usecaseNoopSpan = trace.SpanFromContext(context.Background())
)

// startUsecaseSpan only creates child spans; background jobs without a parent stay untraced.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if name == "" || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func gameAttr(gameID string) attribute.KeyValue {
	return attribute.String("survivor.game_id", gameID)
}

func roundAttr(round int) attribute.KeyValue {
	return attribute.Int("survivor.round", round)
}

func userAttr(userID string) attribute.KeyValue {
	return attribute.String("survivor.user_id", userID)
}
