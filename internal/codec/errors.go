package codec

import (
	"fmt"
	"strings"
)

// ValidationError reports a value that failed a domain constraint while a
// record was being assembled: a non-alphanumeric text field, an out-of-range
// number, or an unrecognized coded value. The value is rejected, never
// coerced.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("codec: invalid %s: %s", e.Field, e.Reason)
}

// FormatError reports a fixed-width slice that could not be parsed into its
// declared type during decoding.
type FormatError struct {
	Field  string
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("codec: cannot parse %s from %q: %s", e.Field, e.Input, e.Reason)
}

// LengthError reports an encoded field or record whose serialized form does
// not match its declared fixed width. This is an implementation bug rather
// than bad input: field encoders are width-exact by construction.
type LengthError struct {
	Field string
	Want  int
	Got   int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("codec: %s encoded to %d bytes, want %d", e.Field, e.Got, e.Want)
}

// FieldError ties a decode failure to the field it occurred in.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e FieldError) Unwrap() error { return e.Err }

// DecodeError aggregates per-field decode failures from one output record.
// Decoding is independent per field, so a DecodeError accompanies a
// partially populated record: callers can inspect Fields to decide whether
// the failures matter for their use of the record.
type DecodeError struct {
	Fields []FieldError
}

func (e *DecodeError) Error() string {
	names := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		names[i] = fe.Field
	}
	return fmt.Sprintf("codec: %d field(s) failed to decode: %s", len(e.Fields), strings.Join(names, ", "))
}

// Has reports whether the named field failed to decode.
func (e *DecodeError) Has(field string) bool {
	for _, fe := range e.Fields {
		if fe.Field == field {
			return true
		}
	}
	return false
}
