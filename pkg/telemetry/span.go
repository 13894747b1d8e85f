package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope for spans this package starts.
const tracerName = "pagerank-bench"

// StartSolveSpan opens the span wrapping one PageRank solve, tagged with
// its graph, variant, damping and worker count. The caller must End the
// returned span. With tracing disabled this degrades to the no-op
// provider and costs nothing.
func StartSolveSpan(ctx context.Context, graph, variant string, damping float64, workers int) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "pagerank.solve")
	span.SetAttributes(
		attribute.String("graph", graph),
		attribute.String("variant", variant),
		attribute.Float64("damping", damping),
		attribute.Int("workers", workers),
	)
	return ctx, span
}
