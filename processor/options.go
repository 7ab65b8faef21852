package processor

import (
	"io"
	"log/slog"

	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/metrics"
)

// Option configures a Processor.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	metrics  metrics.Reporter
	resolver core.Resolver
}

func newOptions(opts []Option) options {
	o := options{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:  metrics.Nop,
		resolver: core.NoResolver,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger for skipped operators and recoverable
// problems.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the counter reporter.
func WithMetrics(r metrics.Reporter) Option {
	return func(o *options) {
		o.metrics = metrics.OrNop(r)
	}
}

// WithResolver sets the resolver for indirect references in resources,
// fonts and XObjects.
func WithResolver(r core.Resolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolver = r
		}
	}
}
