package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/dci/diag"
	"github.com/hupe1980/dci/value"
	"github.com/hupe1980/dci/vector"
)

// ErrParse is returned when text cannot be converted to the requested type.
var ErrParse = diag.New(diag.KindBadArg, "cannot parse value")

// Formatter converts values to and from strings.
type Formatter interface {
	// Format renders v as a cell of a column of type dt.
	Format(v value.Value, dt value.DataType) string
	// Parse converts s into a Value storable in a column of type dt.
	Parse(s string, dt value.DataType) (value.Value, error)
}

// Options configures a Standard formatter.
type Options struct {
	// DateLayout is the time layout for DateTime cells.
	DateLayout string
	// FloatFormat is the strconv format byte for doubles ('g', 'f', 'e').
	FloatFormat byte
	// FloatPrecision is the strconv precision for doubles (-1: shortest).
	FloatPrecision int
	// Location is the time zone DateTime cells are rendered in.
	Location *time.Location
}

// Option configures a Standard formatter.
type Option func(*Options)

// WithDateLayout sets the DateTime layout. Default: time.RFC3339.
func WithDateLayout(layout string) Option {
	return func(o *Options) {
		o.DateLayout = layout
	}
}

// WithFloatFormat sets the strconv float format and precision.
// Default: 'g' with shortest precision.
func WithFloatFormat(format byte, prec int) Option {
	return func(o *Options) {
		o.FloatFormat = format
		o.FloatPrecision = prec
	}
}

// WithLocation sets the DateTime time zone. Default: UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

// Standard is the default Formatter.
type Standard struct {
	opts Options
}

// New creates a Standard formatter.
func New(optFns ...Option) *Standard {
	opts := Options{
		DateLayout:     time.RFC3339,
		FloatFormat:    'g',
		FloatPrecision: -1,
		Location:       time.UTC,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Standard{opts: opts}
}

var defaultFormatter = New()

// Default returns the shared Standard formatter with default options.
func Default() *Standard { return defaultFormatter }

// Format implements Formatter.
func (f *Standard) Format(v value.Value, dt value.DataType) string {
	if dt == value.TypeDateTime && v.Type() == value.TypeDouble {
		d := v.AsDouble()
		if !value.IsFinite(d) {
			return f.formatFloat(d)
		}
		return ToTime(d).In(f.opts.Location).Format(f.opts.DateLayout)
	}
	switch v.Type() {
	case value.TypeByte:
		return strconv.FormatUint(uint64(v.AsByte()), 10)
	case value.TypeInt:
		return strconv.FormatInt(v.AsInt(), 10)
	case value.TypeDouble:
		return f.formatFloat(v.AsDouble())
	case value.TypeString:
		return v.AsString()
	default:
		return ""
	}
}

func (f *Standard) formatFloat(d float64) string {
	switch {
	case value.IsNaN(d):
		return "NaN"
	case d == value.Inf():
		return "Inf"
	case d == value.NegInf():
		return "-Inf"
	}
	return strconv.FormatFloat(d, f.opts.FloatFormat, f.opts.FloatPrecision, 64)
}

// Parse implements Formatter. Value columns infer the tag: integers, then
// doubles, then text. Empty input parses to Void for Void and Value columns.
func (f *Standard) Parse(s string, dt value.DataType) (value.Value, error) {
	trimmed := strings.TrimSpace(s)
	switch dt {
	case value.TypeVoid:
		if trimmed != "" {
			return value.Void(), fmt.Errorf("%w: %q as %v", ErrParse, s, dt)
		}
		return value.Void(), nil
	case value.TypeString:
		return value.String(s), nil
	case value.TypeByte:
		u, err := strconv.ParseUint(trimmed, 10, 8)
		if err != nil {
			return value.Void(), fmt.Errorf("%w: %q as %v: %v", ErrParse, s, dt, err)
		}
		return value.Byte(uint8(u)), nil
	case value.TypeInt, value.TypeEnumeration:
		i, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return value.Void(), fmt.Errorf("%w: %q as %v: %v", ErrParse, s, dt, err)
		}
		return value.Int(i), nil
	case value.TypeDouble:
		d, err := parseFloat(trimmed)
		if err != nil {
			return value.Void(), fmt.Errorf("%w: %q as %v: %v", ErrParse, s, dt, err)
		}
		return value.Double(d), nil
	case value.TypeDateTime:
		if t, err := time.ParseInLocation(f.opts.DateLayout, trimmed, f.opts.Location); err == nil {
			return value.Double(FromTime(t)), nil
		}
		d, err := parseFloat(trimmed)
		if err != nil {
			return value.Void(), fmt.Errorf("%w: %q as %v", ErrParse, s, dt)
		}
		return value.Double(d), nil
	case value.TypeValue:
		if trimmed == "" {
			return value.Void(), nil
		}
		if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return value.Int(i), nil
		}
		if d, err := parseFloat(trimmed); err == nil {
			return value.Double(d), nil
		}
		return value.String(s), nil
	default:
		return value.Void(), fmt.Errorf("%w: unknown type %v", ErrParse, dt)
	}
}

func parseFloat(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "nan":
		return value.NaN(), nil
	case "inf", "+inf":
		return value.Inf(), nil
	case "-inf":
		return value.NegInf(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// Strings renders every element of v.
func Strings(f Formatter, v *vector.Vector) []string {
	out := make([]string, v.Len())
	for i := range out {
		out[i] = f.Format(v.At(i), v.Type())
	}
	return out
}

// ParseStrings builds a vector of type dt from ss.
func ParseStrings(f Formatter, ss []string, dt value.DataType) (vector.Vector, error) {
	v, err := vector.New(dt, len(ss))
	if err != nil {
		return vector.Vector{}, err
	}
	for i, s := range ss {
		x, err := f.Parse(s, dt)
		if err == nil {
			err = v.Set(i, x)
		}
		if err != nil {
			v.Release()
			return vector.Vector{}, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return v, nil
}
