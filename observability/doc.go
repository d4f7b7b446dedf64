// Package observability wires OpenTelemetry tracing and metrics for fixture
// runs.
//
// Tracing and metrics are exported over OTLP/HTTP when enabled; otherwise
// the global no-op providers stay in place and instrumentation costs
// nothing.
//
//	obs := observability.NewComponent(cfg, log)
//	_ = obs.Start(ctx)
//	defer obs.Stop(ctx)
//
//	ctx, op := observability.StartOperation(ctx, observability.SpanFixtureApply,
//	    attribute.String(observability.AttrFixture, "users"))
//	err := apply(ctx)
//	op.End(err)
package observability
