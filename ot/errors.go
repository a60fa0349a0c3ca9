package ot

import (
	"errors"
	"fmt"

	"github.com/npillmayer/glyphpath/core"
)

// Decoding font binaries can fail in a small number of well-defined ways,
// and clients need to tell them apart (a truncated download warrants a
// different reaction than a glyph ID which simply is not in the font).
// Every failure of table-directory parsing or outline decoding is reported
// as a DecodeError carrying one of the kinds below.

// ErrorKind classifies a DecodeError.
type ErrorKind int

const (
	// InvalidMagic flags a byte blob which does not start with a known
	// sfnt version signature.
	InvalidMagic ErrorKind = iota + 1
	// TruncatedData flags reads which would run past the end of the font
	// blob or past the end of a table.
	TruncatedData
	// TableCountOverflow flags a table directory declaring a table count
	// for which the blob has no room at all.
	TableCountOverflow
	// UnknownGlyphID flags a glyph ID at or beyond the font's glyph count.
	UnknownGlyphID
	// CompositeCycle flags composite glyphs nested deeper than the
	// supported limit, including cyclic component references.
	CompositeCycle
	// MalformedContour flags outline data with inconsistent point, flag or
	// contour counts.
	MalformedContour
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidMagic:
		return "invalid magic"
	case TruncatedData:
		return "truncated data"
	case TableCountOverflow:
		return "table count overflow"
	case UnknownGlyphID:
		return "unknown glyph ID"
	case CompositeCycle:
		return "composite cycle"
	case MalformedContour:
		return "malformed contour"
	}
	return "unknown error kind"
}

// DecodeError is the error type for all failures to decode font binary
// data. It carries an ErrorKind and implements core.AppError.
type DecodeError struct {
	Kind    ErrorKind
	details string
}

// ErrDecode creates a DecodeError of a given kind.
func ErrDecode(kind ErrorKind, format string, v ...interface{}) error {
	return DecodeError{Kind: kind, details: fmt.Sprintf(format, v...)}
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.details)
}

// ErrorCode maps the error kind onto a core error code.
func (e DecodeError) ErrorCode() int {
	switch e.Kind {
	case UnknownGlyphID:
		return core.EMISSING
	default:
		return core.EINVALID
	}
}

// UserMessage returns a message suited for display to users.
func (e DecodeError) UserMessage() string {
	return fmt.Sprintf("font data unreadable (%s)", e.Kind)
}

var _ core.AppError = DecodeError{}

// KindOf extracts the ErrorKind from err's error chain. It returns 0 if
// err is nil or carries no DecodeError.
func KindOf(err error) ErrorKind {
	var e DecodeError
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// errTruncated is the workhorse error for bounds violations.
func errTruncated(where string) error {
	return ErrDecode(TruncatedData, "%s exceeds font data bounds", where)
}
