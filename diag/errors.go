package diag

import (
	"errors"
	"strings"
)

// Error is a classified failure.
//
// Packages declare their sentinel errors as *Error values so callers can use
// errors.Is against the sentinel and KindOf to classify any wrapped error.
type Error struct {
	Kind   Kind
	Source string
	Msg    string
	Err    error
}

// New returns a sentinel error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap returns an error of the given kind with source context and an
// underlying cause.
func Wrap(kind Kind, source string, err error, msg string) *Error {
	return &Error{Kind: kind, Source: source, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	var buf strings.Builder
	if e.Source != "" {
		buf.WriteString(e.Source)
		buf.WriteString(": ")
	}
	if e.Msg != "" {
		buf.WriteString(e.Msg)
		if e.Err != nil {
			buf.WriteString(": ")
			buf.WriteString(e.Err.Error())
		}
	} else if e.Err != nil {
		buf.WriteString(e.Err.Error())
	} else {
		buf.WriteString(e.Kind.String())
	}
	return buf.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain.
// A nil error is KindOK; an unclassified error is KindError.
func KindOf(err error) Kind {
	if err == nil {
		return KindOK
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindError
}
