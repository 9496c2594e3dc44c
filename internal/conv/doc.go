// Package conv checks integer conversions of values decoded from table
// streams, where counts and lengths are untrusted.
package conv
