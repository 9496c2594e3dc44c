// Package format converts between values and their string form.
//
// A Formatter renders a value.Value for a column DataType and parses text
// back. Standard is the default implementation: numbers use strconv,
// DateTime cells (days since 1899-12-30) use a time layout, and Void renders
// as the empty string. Enumeration cells are indices into a field's allowed
// values; FormatEnum and ParseEnum translate them.
//
//	f := format.New(format.WithDateLayout(time.DateOnly))
//	f.Format(value.Double(45000), value.TypeDateTime) // "2023-03-15"
package format
