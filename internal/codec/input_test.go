package codec

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// exampleRecord builds the reference encounter used across the package
// tests: a pneumonia admission with one secondary diagnosis and one
// procedure.
func exampleRecord(t *testing.T) *InputRecord {
	t.Helper()

	admitDx, err := NewDiagnosisCode("J18.9")
	if err != nil {
		t.Fatalf("admit diagnosis: %v", err)
	}
	secondaryDx, err := NewDiagnosisCode("E43")
	if err != nil {
		t.Fatalf("secondary diagnosis: %v", err)
	}
	procedure, err := NewProcedureCode("5A1955Z")
	if err != nil {
		t.Fatalf("procedure: %v", err)
	}
	los, err := NewLengthOfStay(8)
	if err != nil {
		t.Fatalf("length of stay: %v", err)
	}
	age, err := NewAge(35)
	if err != nil {
		t.Fatalf("age: %v", err)
	}

	return &InputRecord{
		PatientName:         "Jonathan Gupton",
		MedicalRecordNumber: "1234567",
		AccountNumber:       "0987654321",
		AdmitDate:           NewDate(2022, time.August, 1),
		DischargeDate:       NewDate(2022, time.August, 9),
		DischargeStatus:     DischargeHomeOrSelfCare,
		PrimaryPayer:        PayerInsuranceCompany,
		LengthOfStay:        los,
		BirthDate:           NewDate(1980, time.June, 19),
		Age:                 age,
		Sex:                 SexMale,
		AdmitDiagnosis:      admitDx,
		PrincipalDiagnosis:  NewDiagnosis(admitDx, POAYes),
		SecondaryDiagnoses:  []Diagnosis{NewDiagnosis(secondaryDx, POAYes)},
		PrincipalProcedure:  procedure,
		ProcedureDates:      []Date{NewDate(2022, time.August, 1)},
		ApplyHACLogic:       HACRequiresPOA,
	}
}

// =========== Encoding ===========

func TestInputRecord_EncodeLength(t *testing.T) {
	encoded, err := exampleRecord(t).Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(encoded) != InputRecordLength {
		t.Fatalf("expected %d bytes, got %d", InputRecordLength, len(encoded))
	}
}

func TestInputRecord_FieldPlacement(t *testing.T) {
	encoded, err := exampleRecord(t).Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	at := func(spec FieldSpec) string {
		return encoded[spec.Offset:spec.End()]
	}

	cases := []struct {
		spec FieldSpec
		want string
	}{
		{SpecPatientName, leftJustify("Jonathan Gupton", 31)},
		{SpecMedicalRecordNumber, leftJustify("1234567", 13)},
		{SpecAccountNumber, leftJustify("0987654321", 17)},
		{SpecAdmitDate, "08/01/2022"},
		{SpecDischargeDate, "08/09/2022"},
		{SpecDischargeStatus, "01"},
		{SpecPrimaryPayer, "07"},
		{SpecLOS, "00008"},
		{SpecBirthDate, "06/19/1980"},
		{SpecAge, "035"},
		{SpecSex, "1"},
		{SpecAdmitDiagnosis, "J189   "},
		{SpecPrincipalDiagnosis, "J189   Y"},
		{SpecPrincipalProcedure, "5A1955Z"},
		{SpecApplyHACLogic, "Z"},
		{SpecUnused, " "},
		{SpecFiller, strings.Repeat(" ", 25)},
	}
	for _, tc := range cases {
		if got := at(tc.spec); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.spec.Name, tc.want, got)
		}
	}

	// First secondary diagnosis slot, then 23 blank slots.
	secondaries := at(SpecSecondaryDiagnoses)
	if got := secondaries[:DiagnosisLength]; got != "E43    Y" {
		t.Errorf("first secondary slot: expected %q, got %q", "E43    Y", got)
	}
	if rest := secondaries[DiagnosisLength:]; rest != strings.Repeat(" ", 23*DiagnosisLength) {
		t.Error("expected remaining secondary diagnosis slots to be blank")
	}

	// First procedure date slot, then 24 blank slots.
	dates := at(SpecProcedureDates)
	if got := dates[:DateLength]; got != "08/01/2022" {
		t.Errorf("first procedure date: expected %q, got %q", "08/01/2022", got)
	}
	if rest := dates[DateLength:]; rest != strings.Repeat(" ", 24*DateLength) {
		t.Error("expected remaining procedure date slots to be blank")
	}
}

func TestInputRecord_EmptySecondaryProcedures(t *testing.T) {
	encoded, err := exampleRecord(t).Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := encoded[SpecSecondaryProcedures.Offset:SpecSecondaryProcedures.End()]
	if got != strings.Repeat(" ", MaxSecondaryProcedures*CodeLength) {
		t.Errorf("expected %d blank bytes for unused procedure slots", MaxSecondaryProcedures*CodeLength)
	}
}

func TestInputRecord_LayoutIsContiguous(t *testing.T) {
	specs := []FieldSpec{
		SpecPatientName, SpecMedicalRecordNumber, SpecAccountNumber,
		SpecAdmitDate, SpecDischargeDate, SpecDischargeStatus,
		SpecPrimaryPayer, SpecLOS, SpecBirthDate, SpecAge, SpecSex,
		SpecAdmitDiagnosis, SpecPrincipalDiagnosis, SpecSecondaryDiagnoses,
		SpecPrincipalProcedure, SpecSecondaryProcedures, SpecProcedureDates,
		SpecApplyHACLogic, SpecUnused, SpecOptionalInformation, SpecFiller,
	}
	offset := 0
	for _, spec := range specs {
		if spec.Offset != offset {
			t.Errorf("%s: expected offset %d, got %d", spec.Name, offset, spec.Offset)
		}
		offset = spec.End()
	}
	if offset != InputRecordLength {
		t.Errorf("layout ends at %d, expected %d", offset, InputRecordLength)
	}
}

// =========== Validation ===========

func TestInputRecord_RejectsInvalidText(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*InputRecord)
	}{
		{"patient name", func(r *InputRecord) { r.PatientName = "O'Brien, Conor" }},
		{"medical record number", func(r *InputRecord) { r.MedicalRecordNumber = "MRN-12" }},
		{"account number", func(r *InputRecord) { r.AccountNumber = "ACCT#9" }},
	}
	for _, tc := range cases {
		r := exampleRecord(t)
		tc.mutate(r)
		_, err := r.Encode()
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected ValidationError, got %T", tc.name, err)
		}
	}
}

func TestInputRecord_RejectsOutOfRangeScalars(t *testing.T) {
	r := exampleRecord(t)
	r.LengthOfStay = LengthOfStay(45292)
	if _, err := r.Encode(); err == nil {
		t.Error("expected error for out-of-range length of stay")
	}

	r = exampleRecord(t)
	r.Age = AgeYears(125)
	if _, err := r.Encode(); err == nil {
		t.Error("expected error for out-of-range age")
	}

	r = exampleRecord(t)
	r.ApplyHACLogic = ApplyHACLogic('Q')
	if _, err := r.Encode(); err == nil {
		t.Error("expected error for invalid HAC logic flag")
	}
}

func TestInputRecord_RejectsOverfullGroups(t *testing.T) {
	code, err := NewDiagnosisCode("E43")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := exampleRecord(t)
	for i := 0; i <= MaxSecondaryDiagnoses; i++ {
		r.SecondaryDiagnoses = append(r.SecondaryDiagnoses, NewDiagnosis(code, POANo))
	}
	if _, err := r.Encode(); err == nil {
		t.Error("expected error for too many secondary diagnoses")
	}
}

func TestInputRecord_OptionalInformationIsFreeText(t *testing.T) {
	r := exampleRecord(t)
	r.OptionalInformation = "Ref: 12/34 #X"
	encoded, err := r.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := encoded[SpecOptionalInformation.Offset:SpecOptionalInformation.End()]
	if got[:13] != "Ref: 12/34 #X" {
		t.Errorf("expected free text preserved, got %q", got)
	}

	r = exampleRecord(t)
	r.OptionalInformation = strings.Repeat("x", 100)
	encoded, err = r.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(encoded) != InputRecordLength {
		t.Errorf("expected %d bytes after truncation, got %d", InputRecordLength, len(encoded))
	}
}

func TestInputRecord_TruncatesLongName(t *testing.T) {
	r := exampleRecord(t)
	r.PatientName = "john jacob jingleheimer schmidt his name is my name too"
	encoded, err := r.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(encoded) != InputRecordLength {
		t.Errorf("expected %d bytes, got %d", InputRecordLength, len(encoded))
	}
	if got := encoded[:SpecPatientName.Length]; got != "john jacob jingleheimer schmidt"[:31] {
		t.Errorf("unexpected name slot %q", got)
	}
}
