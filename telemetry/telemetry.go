// Package telemetry records how long each stage of a lexing run takes.
//
// Collectors travel through a context, so instrumented code does not need
// an extra parameter and pays nothing when telemetry is off:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.FromContext(ctx).Start("check")
//	lex := timer.Child("lex main.enaml")
//	// ... work ...
//	lex.Count(412, "tokens")
//	lex.End()
//	timer.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"io"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector receives timings.
type Collector interface {
	// Start begins timing an operation. End must be called on the
	// returned Timer when the operation completes.
	Start(name string) Timer

	// Report writes the collected data to w.
	Report(w io.Writer)
}

// Timer tracks a single operation. Timers nest via Child.
type Timer interface {
	End()
	Child(name string) Timer

	// Count attaches a quantity to the operation, e.g. the number of
	// tokens produced. Later calls add to the total.
	Count(n int, unit string)
}

// WithCollector adds a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context. It never returns nil;
// without a collector it returns one that discards everything.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}
