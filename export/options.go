package export

import (
	"github.com/hupe1980/dci/table"
	"github.com/hupe1980/dci/value"
)

// Option configures readers and writers.
type Option func(*options)

type options struct {
	prefix      string
	indent      string
	comma       rune
	header      bool
	columnTypes map[string]value.DataType
	tableOpts   []table.Option
}

func defaultOptions() options {
	return options{
		comma:       ',',
		header:      true,
		columnTypes: make(map[string]value.DataType),
	}
}

func applyOptions(optFns []Option) options {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// WithIndent indents JSON output like json.MarshalIndent.
func WithIndent(prefix, indent string) Option {
	return func(o *options) {
		o.prefix = prefix
		o.indent = indent
	}
}

// WithComma sets the CSV field delimiter. Default: ','.
func WithComma(r rune) Option {
	return func(o *options) {
		o.comma = r
	}
}

// WithHeader controls whether the first CSV row names the columns.
// Default: true.
func WithHeader(enabled bool) Option {
	return func(o *options) {
		o.header = enabled
	}
}

// WithColumnType sets the type of a CSV column read by ReadCSV. Columns
// without a type are read as String. Enumeration columns collect their
// allowed values in order of first appearance.
func WithColumnType(name string, dt value.DataType) Option {
	return func(o *options) {
		o.columnTypes[name] = dt
	}
}

// WithTableOptions passes options to table.New for tables created by readers.
func WithTableOptions(opts ...table.Option) Option {
	return func(o *options) {
		o.tableOpts = append(o.tableOpts, opts...)
	}
}
