package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Status values recorded on spans and metrics.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Operation is a traced unit of work.
type Operation struct {
	span  trace.Span
	start time.Time
}

// StartOperation starts a span named name carrying attrs.
func StartOperation(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Operation{span: span, start: time.Now()}
}

// End records err, if any, ends the span and returns the elapsed time.
func (o *Operation) End(err error) time.Duration {
	d := time.Since(o.start)
	status := StatusOK
	if err != nil {
		status = StatusError
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	}
	o.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, d.Milliseconds()),
	)
	o.span.End()
	return d
}

// StatusOf maps an error to StatusOK or StatusError.
func StatusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
