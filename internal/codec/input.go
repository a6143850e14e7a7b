package codec

import (
	"fmt"
	"strings"
)

// InputRecordLength is the exact serialized width of one input record.
const InputRecordLength = 835

// Repeating-group capacities of the input layout.
const (
	MaxSecondaryDiagnoses  = 24
	MaxSecondaryProcedures = 24
	MaxProcedureDates      = 25
)

// Input record layout. Offsets and widths are fixed by the grouper batch
// format; any drift silently misaligns every following field.
var (
	SpecPatientName         = FieldSpec{"patient_name", 0, 31}
	SpecMedicalRecordNumber = FieldSpec{"medical_record_number", 31, 13}
	SpecAccountNumber       = FieldSpec{"account_number", 44, 17}
	SpecAdmitDate           = FieldSpec{"admit_date", 61, DateLength}
	SpecDischargeDate       = FieldSpec{"discharge_date", 71, DateLength}
	SpecDischargeStatus     = FieldSpec{"discharge_status", 81, 2}
	SpecPrimaryPayer        = FieldSpec{"primary_payer", 83, 2}
	SpecLOS                 = FieldSpec{"los", 85, 5}
	SpecBirthDate           = FieldSpec{"birth_date", 90, DateLength}
	SpecAge                 = FieldSpec{"age", 100, 3}
	SpecSex                 = FieldSpec{"sex", 103, 1}
	SpecAdmitDiagnosis      = FieldSpec{"admit_diagnosis", 104, CodeLength}
	SpecPrincipalDiagnosis  = FieldSpec{"principal_diagnosis", 111, DiagnosisLength}
	SpecSecondaryDiagnoses  = FieldSpec{"secondary_diagnoses", 119, MaxSecondaryDiagnoses * DiagnosisLength}
	SpecPrincipalProcedure  = FieldSpec{"principal_procedure", 311, CodeLength}
	SpecSecondaryProcedures = FieldSpec{"secondary_procedures", 318, MaxSecondaryProcedures * CodeLength}
	SpecProcedureDates      = FieldSpec{"procedure_dates", 486, MaxProcedureDates * DateLength}
	SpecApplyHACLogic       = FieldSpec{"apply_hac_logic", 736, 1}
	SpecUnused              = FieldSpec{"unused", 737, 1}
	SpecOptionalInformation = FieldSpec{"optional_information", 738, 72}
	SpecFiller              = FieldSpec{"filler", 810, 25}
)

// InputRecord is one patient encounter in the form the grouper ingests.
// Assemble the struct fully, then Encode; Encode validates every field
// before serializing and fails fast on the first violation.
type InputRecord struct {
	PatientName         string
	MedicalRecordNumber string
	AccountNumber       string
	AdmitDate           Date
	DischargeDate       Date
	DischargeStatus     DischargeDisposition
	PrimaryPayer        Payer
	LengthOfStay        LengthOfStay
	BirthDate           Date
	Age                 AgeYears
	Sex                 Sex
	AdmitDiagnosis      DiagnosisCode
	PrincipalDiagnosis  Diagnosis
	SecondaryDiagnoses  []Diagnosis
	PrincipalProcedure  ProcedureCode
	SecondaryProcedures []ProcedureCode
	ProcedureDates      []Date
	ApplyHACLogic       ApplyHACLogic
	OptionalInformation string
}

// Validate checks every domain constraint the encoder relies on. It repeats
// the range checks done by the typed constructors so that records built as
// struct literals get the same guarantees.
func (r *InputRecord) Validate() error {
	if !isAlnumOrSpace(r.PatientName) {
		return &ValidationError{Field: SpecPatientName.Name, Reason: fmt.Sprintf("%q must be alphanumeric or space", r.PatientName)}
	}
	if r.MedicalRecordNumber != "" && !isAlnum(r.MedicalRecordNumber) {
		return &ValidationError{Field: SpecMedicalRecordNumber.Name, Reason: fmt.Sprintf("%q must be alphanumeric", r.MedicalRecordNumber)}
	}
	if r.AccountNumber != "" && !isAlnum(r.AccountNumber) {
		return &ValidationError{Field: SpecAccountNumber.Name, Reason: fmt.Sprintf("%q must be alphanumeric", r.AccountNumber)}
	}
	if _, err := ParseDischargeDisposition(r.DischargeStatus.Code()); err != nil {
		return err
	}
	if _, err := ParsePayer(r.PrimaryPayer.Code()); err != nil {
		return err
	}
	if _, err := NewLengthOfStay(r.LengthOfStay.Days()); err != nil {
		return err
	}
	if _, err := NewAge(r.Age.Years()); err != nil {
		return err
	}
	if _, err := ParseSex(r.Sex.Code()); err != nil {
		return err
	}
	if r.ApplyHACLogic != 0 {
		if _, err := ParseApplyHACLogic(byte(r.ApplyHACLogic)); err != nil {
			return err
		}
	}
	if n := len(r.SecondaryDiagnoses); n > MaxSecondaryDiagnoses {
		return &ValidationError{Field: SpecSecondaryDiagnoses.Name, Reason: fmt.Sprintf("%d diagnoses exceed the %d slots", n, MaxSecondaryDiagnoses)}
	}
	if n := len(r.SecondaryProcedures); n > MaxSecondaryProcedures {
		return &ValidationError{Field: SpecSecondaryProcedures.Name, Reason: fmt.Sprintf("%d procedures exceed the %d slots", n, MaxSecondaryProcedures)}
	}
	if n := len(r.ProcedureDates); n > MaxProcedureDates {
		return &ValidationError{Field: SpecProcedureDates.Name, Reason: fmt.Sprintf("%d dates exceed the %d slots", n, MaxProcedureDates)}
	}
	// OptionalInformation is free text; it is truncated to its slot on
	// encode but never character-validated.
	return nil
}

// Encode serializes the record to exactly InputRecordLength bytes. The
// length check at the end guards the layout invariant; a failure there is a
// bug in the encoder, not bad input.
func (r *InputRecord) Encode() (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(InputRecordLength)

	b.WriteString(leftJustify(r.PatientName, SpecPatientName.Length))
	b.WriteString(leftJustify(r.MedicalRecordNumber, SpecMedicalRecordNumber.Length))
	b.WriteString(leftJustify(r.AccountNumber, SpecAccountNumber.Length))
	b.WriteString(r.AdmitDate.String())
	b.WriteString(r.DischargeDate.String())
	b.WriteString(zeroFill(r.DischargeStatus.Code(), SpecDischargeStatus.Length))
	b.WriteString(zeroFill(r.PrimaryPayer.Code(), SpecPrimaryPayer.Length))
	b.WriteString(zeroFill(r.LengthOfStay.Days(), SpecLOS.Length))
	b.WriteString(r.BirthDate.String())
	b.WriteString(zeroFill(r.Age.Years(), SpecAge.Length))
	b.WriteString(zeroFill(r.Sex.Code(), SpecSex.Length))
	b.WriteString(r.AdmitDiagnosis.String())
	b.WriteString(r.PrincipalDiagnosis.String())
	b.WriteString(encodeDiagnoses(r.SecondaryDiagnoses, MaxSecondaryDiagnoses))
	b.WriteString(r.PrincipalProcedure.String())
	b.WriteString(encodeProcedures(r.SecondaryProcedures, MaxSecondaryProcedures))
	b.WriteString(encodeDates(r.ProcedureDates, MaxProcedureDates))
	b.WriteString(r.ApplyHACLogic.String())
	b.WriteString(strings.Repeat(" ", SpecUnused.Length))
	b.WriteString(leftJustify(r.OptionalInformation, SpecOptionalInformation.Length))
	b.WriteString(strings.Repeat(" ", SpecFiller.Length))

	s := b.String()
	if len(s) != InputRecordLength {
		return "", &LengthError{Field: "input_record", Want: InputRecordLength, Got: len(s)}
	}
	return s, nil
}

// encodeDiagnoses packs diagnoses into n fixed slots, blank-filling the
// unused tail.
func encodeDiagnoses(list []Diagnosis, n int) string {
	var b strings.Builder
	b.Grow(n * DiagnosisLength)
	for i := 0; i < n; i++ {
		if i < len(list) {
			b.WriteString(list[i].String())
		} else {
			b.WriteString(Diagnosis{}.String())
		}
	}
	return b.String()
}

// encodeProcedures packs procedure codes into n fixed slots.
func encodeProcedures(list []ProcedureCode, n int) string {
	var b strings.Builder
	b.Grow(n * CodeLength)
	for i := 0; i < n; i++ {
		if i < len(list) {
			b.WriteString(list[i].String())
		} else {
			b.WriteString(ProcedureCode{}.String())
		}
	}
	return b.String()
}

// encodeDates packs dates into n fixed slots.
func encodeDates(list []Date, n int) string {
	var b strings.Builder
	b.Grow(n * DateLength)
	for i := 0; i < n; i++ {
		if i < len(list) {
			b.WriteString(list[i].String())
		} else {
			b.WriteString(Date{}.String())
		}
	}
	return b.String()
}
