package oc

import (
	"context"

	"go.opencensus.io/trace"
)

// DefaultSampler is the sampler used by StartSpan unless overridden.
var DefaultSampler = trace.AlwaysSample()

// StartSpan wraps trace.StartSpan, applying DefaultSampler.
func StartSpan(ctx context.Context, name string, o ...trace.StartOption) (context.Context, *trace.Span) {
	o = append([]trace.StartOption{trace.WithSampler(DefaultSampler)}, o...)
	return trace.StartSpan(ctx, name, o...)
}

// SetSpanStatus sets span's status from err. A nil err leaves the status OK.
func SetSpanStatus(span *trace.Span, err error) {
	if err == nil {
		return
	}
	span.SetStatus(trace.Status{Code: toStatusCode(err), Message: err.Error()})
}
