package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Token-level failures.
var (
	ErrUnexpectedEOF       = errors.New("unexpected end of input")
	ErrUnexpectedToken     = errors.New("unexpected token")
	ErrMalformedLength     = errors.New("malformed length prefix")
	ErrUnknownStringTag    = errors.New("unknown string tag")
	ErrMalformedInteger    = errors.New("malformed integer")
	ErrMalformedFloat      = errors.New("malformed float")
	ErrInvalidBoolEncoding = errors.New("invalid bool encoding")
	ErrUnexpectedNull      = errors.New("unexpected null value")
)

// Structural and consistency failures.
var (
	ErrUnknownField            = errors.New("unknown field")
	ErrInconsistentMatchField  = errors.New("match field changed between turns")
	ErrInconsistentPlayerField = errors.New("player field changed between turns")
	ErrUnknownMatchType        = errors.New("unknown match type")
	ErrPlayerCountChanged      = errors.New("player count changed between turns")
	ErrPlayerIndexOutOfRange   = errors.New("player index out of range")
	ErrDuplicatePlayer         = errors.New("duplicate player")
	ErrUnknownActivePlayer     = errors.New("active player not in roster")
	ErrDuplicateBuilding       = errors.New("duplicate building position")
	ErrDuplicateUnit           = errors.New("duplicate unit id")
	ErrMissingUnitPosition     = errors.New("unit has no position")
	ErrUnknownActionTurn       = errors.New("action batch does not match any turn")
	ErrDuplicateActionBatch    = errors.New("turn already has an action batch")
	ErrMalformedActionHeader   = errors.New("malformed action batch header")
	ErrOutOfOrderActions       = errors.New("out of order actions")
	ErrInvalidActionPayload    = errors.New("invalid action payload")
)

// Stream names used in DecodeError.
const (
	StreamState   = "state"
	StreamActions = "actions"
)

// DecodeError locates a decode failure inside an archive. Err is always one of
// the package's sentinel errors or an error returned by the ActionDecoder.
type DecodeError struct {
	Stream string // StreamState or StreamActions, empty for a bare cursor
	Record int    // zero-based turn or batch index
	Offset int    // byte offset into the stream
	Field  string // field being decoded, if any
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	if e.Stream != "" {
		fmt.Fprintf(&b, "%s stream record %d: ", e.Stream, e.Record)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "field %q: ", e.Field)
	}
	fmt.Fprintf(&b, "offset %d: %v", e.Offset, e.Err)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// withField tags err with the field being decoded, keeping the innermost name.
func withField(err error, field string) error {
	var de *DecodeError
	if errors.As(err, &de) {
		if de.Field == "" {
			de.Field = field
		}
		return err
	}
	return &DecodeError{Field: field, Err: err}
}

// withRecord tags err with the stream and record it came from.
func withRecord(err error, stream string, record, offset int) error {
	var de *DecodeError
	if errors.As(err, &de) {
		de.Stream = stream
		de.Record = record
		return err
	}
	return &DecodeError{Stream: stream, Record: record, Offset: offset, Err: err}
}
