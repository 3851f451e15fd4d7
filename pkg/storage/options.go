package storage

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/chunkstore/pkg/logger"
	"github.com/ajitpratap0/chunkstore/pkg/metrics"
)

type options struct {
	name    string
	logger  *zap.Logger
	metrics *metrics.StorageCollector
}

// Option configures a Table or a Compressor.
type Option func(*options)

// WithName labels logs and metrics with a table name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger. The package logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records storage activity in c.
func WithMetrics(c *metrics.StorageCollector) Option {
	return func(o *options) { o.metrics = c }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get()
	}
	o.logger = o.logger.With(zap.String("component", "storage"))
	if o.name != "" {
		o.logger = o.logger.With(zap.String("table", o.name))
	}
	return o
}
