package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldSpec is one slot of the positional record layout: a name for error
// reporting, a 0-indexed byte offset from the start of the record, and a
// fixed byte width. The layout tables in input.go and output.go are the
// single source of truth; field order in a record is derived from Offset,
// never from declaration order.
type FieldSpec struct {
	Name   string
	Offset int
	Length int
}

// End returns the offset one past the field's last byte.
func (f FieldSpec) End() int { return f.Offset + f.Length }

// Slice extracts the field's bytes from a full record line.
func (f FieldSpec) Slice(line string) (string, error) {
	if len(line) < f.End() {
		return "", &FormatError{
			Field:  f.Name,
			Input:  line,
			Reason: fmt.Sprintf("record is %d bytes, field ends at byte %d", len(line), f.End()),
		}
	}
	return line[f.Offset:f.End()], nil
}

// leftJustify pads s with trailing blanks to width, truncating if s is
// longer. Text fields use this fill policy.
func leftJustify(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// zeroFill right-justifies n with leading zeros. Numeric and coded fields
// use this fill policy.
func zeroFill(n int, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

// parseInt parses a zero-filled numeric slice.
func (f FieldSpec) parseInt(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, &FormatError{Field: f.Name, Input: s, Reason: "blank where a number was expected"}
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &FormatError{Field: f.Name, Input: s, Reason: "not a number"}
	}
	return n, nil
}

// blank reports whether a sub-slot contains only spaces. An all-blank slot
// terminates a repeating group.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Range-constrained scalar fields validate on construction and never clamp.

// LengthOfStay is the length of stay in days, 0 through 45291.
type LengthOfStay int

const (
	minLengthOfStay = 0
	maxLengthOfStay = 45291
)

// NewLengthOfStay validates a length of stay.
func NewLengthOfStay(days int) (LengthOfStay, error) {
	if days < minLengthOfStay || days > maxLengthOfStay {
		return 0, &ValidationError{
			Field:  "los",
			Reason: fmt.Sprintf("%d is outside %d-%d", days, minLengthOfStay, maxLengthOfStay),
		}
	}
	return LengthOfStay(days), nil
}

// Days returns the length of stay as an int.
func (l LengthOfStay) Days() int { return int(l) }

// AgeYears is the patient age in years, 0 through 124.
type AgeYears int

const (
	minAge = 0
	maxAge = 124
)

// NewAge validates a patient age.
func NewAge(years int) (AgeYears, error) {
	if years < minAge || years > maxAge {
		return 0, &ValidationError{
			Field:  "age",
			Reason: fmt.Sprintf("%d is outside %d-%d", years, minAge, maxAge),
		}
	}
	return AgeYears(years), nil
}

// Years returns the age as an int.
func (a AgeYears) Years() int { return int(a) }
