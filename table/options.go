package table

import (
	"github.com/hupe1980/dci/diag"
	"github.com/hupe1980/dci/format"
)

// Option configures a Table.
type Option func(*options)

type options struct {
	name        string
	reporter    diag.Reporter
	logger      *diag.Logger
	formatter   format.Formatter
	recordBased bool
}

func defaultOptions() options {
	return options{
		reporter:  diag.Discard,
		logger:    diag.NoopLogger(),
		formatter: format.Default(),
	}
}

// WithName sets the table name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithReporter sets the sink for failure reports. Default: diag.Discard.
func WithReporter(r diag.Reporter) Option {
	return func(o *options) {
		if r != nil {
			o.reporter = r
		}
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

// WithFormatter sets the formatter used by the string views.
// Default: format.Default().
func WithFormatter(f format.Formatter) Option {
	return func(o *options) {
		if f != nil {
			o.formatter = f
		}
	}
}

// WithRecordBased sets the initial mode. Default: non-record-based.
func WithRecordBased(on bool) Option {
	return func(o *options) {
		o.recordBased = on
	}
}
