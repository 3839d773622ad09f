// Package telemetry wires OpenTelemetry tracing into outgoing backend calls.
// Spans go to whatever TracerProvider the process installed; without one
// the global no-op provider is used.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "forumctl"

// NewInstrumentedHTTPClient returns an http.Client whose transport records
// a client span per request. A zero timeout means no timeout.
func NewInstrumentedHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: otelhttp.NewTransport(
			http.DefaultTransport,
			otelhttp.WithSpanOptions(trace.WithSpanKind(trace.SpanKindClient)),
		),
	}
}

// StartAction opens a span around one backend action
func StartAction(ctx context.Context, action string, forceRefresh bool) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "forum."+action,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("forum.action", action),
			attribute.Bool("forum.force_refresh", forceRefresh),
		),
	)
}

// EndAction records the outcome and ends the span
func EndAction(span trace.Span, statusCode int, err error) {
	span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
