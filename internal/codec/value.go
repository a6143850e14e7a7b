package codec

import (
	"fmt"
	"strings"
	"time"
)

// Serialized widths of the composite value types.
const (
	DateLength      = 10
	CodeLength      = 7
	DiagnosisLength = CodeLength + 1
)

const dateLayout = "01/02/2006"

// Date is an optional calendar date. The zero value is "no date" and
// serializes as ten spaces; a set date serializes as mm/dd/yyyy.
type Date struct {
	t   time.Time
	set bool
}

// NewDate returns a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), set: true}
}

// ParseDate parses a 10-byte mm/dd/yyyy slice. An all-blank (or empty) slice
// is a valid absent date, not an error.
func ParseDate(s string) (Date, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Date{}, nil
	}
	t, err := time.Parse(dateLayout, trimmed)
	if err != nil {
		return Date{}, &FormatError{Field: "date", Input: s, Reason: "want mm/dd/yyyy"}
	}
	return Date{t: t, set: true}, nil
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool { return !d.set }

// Time returns the underlying time and whether the date is set.
func (d Date) Time() (time.Time, bool) { return d.t, d.set }

// String serializes the date to exactly DateLength bytes.
func (d Date) String() string {
	if !d.set {
		return strings.Repeat(" ", DateLength)
	}
	return d.t.Format(dateLayout)
}

// stripDecimal removes the decimal point from an ICD-9/ICD-10 code. The
// grouper batch format stores codes without decimals ("J18.9" -> "J189").
func stripDecimal(code string) string {
	return strings.ReplaceAll(code, ".", "")
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !isAlnumRune(r) {
			return false
		}
	}
	return true
}

func isAlnumOrSpace(s string) bool {
	for _, r := range s {
		if !isAlnumRune(r) && r != ' ' {
			return false
		}
	}
	return true
}

func isAlnumRune(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// DiagnosisCode is an ICD-9/ICD-10 diagnosis code stored without its decimal
// point. The zero value is the valid "unset" code and serializes as blanks.
type DiagnosisCode struct {
	code string
}

// NewDiagnosisCode validates and stores a diagnosis code. Any decimal point
// is stripped before validation; the remaining text must be alphanumeric and
// at most CodeLength characters. An empty string is permitted.
func NewDiagnosisCode(code string) (DiagnosisCode, error) {
	code = stripDecimal(code)
	if code == "" {
		return DiagnosisCode{}, nil
	}
	if !isAlnum(code) {
		return DiagnosisCode{}, &ValidationError{Field: "diagnosis_code", Reason: fmt.Sprintf("%q is not alphanumeric", code)}
	}
	if len(code) > CodeLength {
		return DiagnosisCode{}, &ValidationError{Field: "diagnosis_code", Reason: fmt.Sprintf("%q exceeds %d characters", code, CodeLength)}
	}
	return DiagnosisCode{code: code}, nil
}

// IsEmpty reports whether the code is unset.
func (c DiagnosisCode) IsEmpty() bool { return c.code == "" }

// Value returns the stored code without padding.
func (c DiagnosisCode) Value() string { return c.code }

// String serializes the code left-justified and blank-filled to CodeLength.
func (c DiagnosisCode) String() string {
	return leftJustify(c.code, CodeLength)
}

// ProcedureCode is an ICD-9/ICD-10 procedure code stored without its decimal
// point. Same contract as DiagnosisCode.
type ProcedureCode struct {
	code string
}

// NewProcedureCode validates and stores a procedure code.
func NewProcedureCode(code string) (ProcedureCode, error) {
	code = stripDecimal(code)
	if code == "" {
		return ProcedureCode{}, nil
	}
	if !isAlnum(code) {
		return ProcedureCode{}, &ValidationError{Field: "procedure_code", Reason: fmt.Sprintf("%q is not alphanumeric", code)}
	}
	if len(code) > CodeLength {
		return ProcedureCode{}, &ValidationError{Field: "procedure_code", Reason: fmt.Sprintf("%q exceeds %d characters", code, CodeLength)}
	}
	return ProcedureCode{code: code}, nil
}

// IsEmpty reports whether the code is unset.
func (c ProcedureCode) IsEmpty() bool { return c.code == "" }

// Value returns the stored code without padding.
func (c ProcedureCode) Value() string { return c.code }

// String serializes the code left-justified and blank-filled to CodeLength.
func (c ProcedureCode) String() string {
	return leftJustify(c.code, CodeLength)
}

// Diagnosis couples a diagnosis code with its present-on-admission
// indicator. It serializes as the 7-byte code followed by the 1-byte POA
// flag. The zero value is an empty slot: blank code, no POA value.
type Diagnosis struct {
	Code DiagnosisCode
	POA  POA
}

// NewDiagnosis builds a diagnosis from an already-validated code and POA.
func NewDiagnosis(code DiagnosisCode, poa POA) Diagnosis {
	return Diagnosis{Code: code, POA: poa}
}

// IsEmpty reports whether the slot carries no diagnosis.
func (d Diagnosis) IsEmpty() bool {
	return d.Code.IsEmpty() && (d.POA == 0 || d.POA == POANone)
}

// String serializes the diagnosis to exactly DiagnosisLength bytes.
func (d Diagnosis) String() string {
	return d.Code.String() + d.POA.String()
}

// ParseDiagnosis decodes an 8-byte diagnosis slot.
func ParseDiagnosis(s string) (Diagnosis, error) {
	if len(s) != DiagnosisLength {
		return Diagnosis{}, &FormatError{Field: "diagnosis", Input: s, Reason: fmt.Sprintf("want %d bytes, got %d", DiagnosisLength, len(s))}
	}
	code, err := NewDiagnosisCode(strings.TrimSpace(s[:CodeLength]))
	if err != nil {
		return Diagnosis{}, err
	}
	poa, err := ParsePOA(s[CodeLength])
	if err != nil {
		return Diagnosis{}, err
	}
	return Diagnosis{Code: code, POA: poa}, nil
}
