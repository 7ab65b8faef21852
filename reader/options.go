package reader

import (
	"io"
	"log/slog"

	"github.com/tsawler/pdftext/metrics"
)

// Option configures a Reader.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics metrics.Reporter
}

func newOptions(opts []Option) options {
	o := options{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: metrics.Nop,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for recoverable problems such as a
// rebuilt cross-reference table.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the reporter for bytes read, objects resolved and
// pages processed.
func WithMetrics(m metrics.Reporter) Option {
	return func(o *options) {
		o.metrics = metrics.OrNop(m)
	}
}
