package store

import (
	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/diag"
	"github.com/hupe1980/dci/resource"
)

// DefaultSuffix is appended to table names to form blob names.
const DefaultSuffix = ".dci"

const metaSuffix = ".meta"

// Option configures a Store.
type Option func(*options)

type options struct {
	controller  *resource.Controller
	logger      *diag.Logger
	metrics     MetricsCollector
	compression binfmt.Compression
	checksum    bool
	suffix      string
}

func defaultOptions() options {
	return options{
		logger:      diag.NoopLogger(),
		metrics:     NoopMetricsCollector{},
		compression: binfmt.CompressionNone,
		checksum:    true,
		suffix:      DefaultSuffix,
	}
}

// WithController bounds concurrency, memory and IO. Default: no limits.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithLogger sets the logger. Default: diag.NoopLogger().
func WithLogger(l *diag.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics collector. Default: NoopMetricsCollector.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithCompression sets the block compression of saved tables.
// Default: binfmt.CompressionNone.
func WithCompression(c binfmt.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithChecksum toggles the CRC32C trailer of saved tables. Default: true.
func WithChecksum(enabled bool) Option {
	return func(o *options) {
		o.checksum = enabled
	}
}

// WithSuffix sets the blob name suffix. Default: DefaultSuffix.
func WithSuffix(suffix string) Option {
	return func(o *options) {
		if suffix != "" {
			o.suffix = suffix
		}
	}
}
