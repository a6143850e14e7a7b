package codec

import (
	"strconv"
	"strings"
)

// OutputRecordLength is the exact serialized width of one grouper output
// record in single-line mode.
const OutputRecordLength = 1903

// Sub-slot geometry of the grouper-computed repeating groups.
const (
	editFlagLength        = 2
	maxEditFlags          = 4
	hacCriterionLength    = 2
	maxHACCriteria        = 5
	hacUsageLength        = 1
	maxHACUsageFlags      = 5
	dxReturnFlagsLength   = editFlagLength * maxEditFlags // 8 bytes per diagnosis
	dxHACCriteriaLength   = 10
	dxHACUsageLength      = 5
	procReturnFlagsLength = 8
	procHACCriteriaLength = 10
)

// Output record layout: the input layout echoed back, extended from byte 835
// with the grouper's results. SpecFinalMDC overlaps the last two bytes of
// SpecInitialMSIndicator's neighborhood exactly as the upstream grouper
// interface tables have it; decoding slices per field, so the overlap is
// preserved rather than corrected. TODO: verify the 841/844 run of offsets
// against a real formatted-output sample from the grouper software.
var (
	SpecVersionUsed            = FieldSpec{"msg_mce_version_used", 835, 3}
	SpecInitialDRG             = FieldSpec{"initial_drg", 838, 3}
	SpecInitialMSIndicator     = FieldSpec{"initial_medical_surgical_indicator", 841, 1}
	SpecFinalMDC               = FieldSpec{"final_mdc", 841, 3}
	SpecFinalDRG               = FieldSpec{"final_drg", 844, 3}
	SpecFinalMSIndicator       = FieldSpec{"final_medical_surgical_indicator", 847, 1}
	SpecDRGReturnCode          = FieldSpec{"drg_return_code", 848, 2}
	SpecEditReturnCode         = FieldSpec{"msg_mce_edit_return_code", 850, 4}
	SpecDiagnosisCount         = FieldSpec{"diagnosis_code_count", 854, 2}
	SpecProcedureCount         = FieldSpec{"procedure_code_count", 856, 2}
	SpecPrincipalDxEditFlags   = FieldSpec{"principal_diagnosis_edit_return_flags", 858, dxReturnFlagsLength}
	SpecPrincipalDxHACCriteria = FieldSpec{"principal_diagnosis_hac_assignment_criteria", 866, maxHACCriteria * hacCriterionLength}
	SpecPrincipalDxHACUsage    = FieldSpec{"principal_diagnosis_hac_usage", 876, maxHACUsageFlags * hacUsageLength}
	SpecSecondaryDxReturnFlags = FieldSpec{"secondary_diagnosis_return_flags", 881, MaxSecondaryDiagnoses * dxReturnFlagsLength}
	SpecSecondaryDxHACCriteria = FieldSpec{"secondary_diagnosis_hac_assignment_criteria", 1073, MaxSecondaryDiagnoses * dxHACCriteriaLength}
	SpecSecondaryDxHACUsage    = FieldSpec{"secondary_diagnosis_hac_usage", 1313, MaxSecondaryDiagnoses * dxHACUsageLength}
	SpecProcedureEditFlags     = FieldSpec{"procedure_edit_return_flags", 1433, MaxProcedureDates * procReturnFlagsLength}
	SpecProcedureHACCriteria   = FieldSpec{"procedure_hac_assignment_criteria", 1633, MaxProcedureDates * procHACCriteriaLength}
	SpecInitialFourDigitDRG    = FieldSpec{"initial_four_digit_drg", 1883, 4}
	SpecFinalFourDigitDRG      = FieldSpec{"final_four_digit_drg", 1887, 4}
	SpecFinalCCMCCUsage        = FieldSpec{"final_drg_cc_mcc_usage", 1891, 1}
	SpecInitialCCMCCUsage      = FieldSpec{"initial_drg_cc_mcc_usage", 1892, 1}
	SpecUniqueHACsMet          = FieldSpec{"unique_hospital_acquired_conditions_met", 1893, 2}
	SpecHACStatus              = FieldSpec{"hospital_acquired_condition_status", 1895, 1}
	SpecCostWeight             = FieldSpec{"cost_weight", 1896, 7}
)

// OutputRecord is one grouped encounter as returned by the grouper: the
// echoed input fields plus the grouper-computed results.
//
// The repeating groups kept as raw sub-slot strings (secondary diagnosis
// return flags, secondary diagnosis HAC criteria/usage, procedure edit
// flags, procedure HAC criteria) have sub-field semantics the grouper
// documentation does not pin down; they are surfaced verbatim, one string
// per occurrence, rather than given invented structure.
type OutputRecord struct {
	// Echoed input fields.
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

	// Grouper-computed fields.
	VersionUsed            string
	InitialDRG             int
	InitialMSIndicator     MedicalSurgicalIndicator
	FinalMDC               int
	FinalDRG               int
	FinalMSIndicator       MedicalSurgicalIndicator
	ReturnCode             DRGReturnCode
	EditReturnCode         EditReturnCode
	DiagnosisCount         int
	ProcedureCount         int
	PrincipalDxEditFlags   []DiagnosisEditFlag
	PrincipalDxHACCriteria []string
	PrincipalDxHACUsage    []HACUsage
	SecondaryDxReturnFlags []string
	SecondaryDxHACCriteria []string
	SecondaryDxHACUsage    []string
	ProcedureEditFlags     []string
	ProcedureHACCriteria   []string
	InitialFourDigitDRG    string
	FinalFourDigitDRG      string
	FinalCCMCCUsage        CCMCCUsage
	InitialCCMCCUsage      CCMCCUsage
	UniqueHACsMet          int
	HACStatus              HACStatus
	CostWeight             float64
}

type decodeStep struct {
	spec FieldSpec
	fn   func(*OutputRecord, FieldSpec, string) error
}

// outputSteps decodes every output field against the fixed position table.
// Each step is independent; failures are accumulated, not short-circuited.
var outputSteps = []decodeStep{
	{SpecPatientName, func(r *OutputRecord, _ FieldSpec, s string) error {
		r.PatientName = strings.TrimSpace(s)
		return nil
	}},
	{SpecMedicalRecordNumber, func(r *OutputRecord, _ FieldSpec, s string) error {
		r.MedicalRecordNumber = strings.TrimSpace(s)
		return nil
	}},
	{SpecAccountNumber, func(r *OutputRecord, _ FieldSpec, s string) error {
		r.AccountNumber = strings.TrimSpace(s)
		return nil
	}},
	{SpecAdmitDate, func(r *OutputRecord, _ FieldSpec, s string) error {
		d, err := ParseDate(s)
		r.AdmitDate = d
		return err
	}},
	{SpecDischargeDate, func(r *OutputRecord, _ FieldSpec, s string) error {
		d, err := ParseDate(s)
		r.DischargeDate = d
		return err
	}},
	{SpecDischargeStatus, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		if err != nil {
			return err
		}
		r.DischargeStatus, err = ParseDischargeDisposition(n)
		return err
	}},
	{SpecPrimaryPayer, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		if err != nil {
			return err
		}
		r.PrimaryPayer, err = ParsePayer(n)
		return err
	}},
	{SpecLOS, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		if err != nil {
			return err
		}
		r.LengthOfStay, err = NewLengthOfStay(n)
		return err
	}},
	{SpecBirthDate, func(r *OutputRecord, _ FieldSpec, s string) error {
		d, err := ParseDate(s)
		r.BirthDate = d
		return err
	}},
	{SpecAge, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		if err != nil {
			return err
		}
		r.Age, err = NewAge(n)
		return err
	}},
	{SpecSex, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		if err != nil {
			return err
		}
		r.Sex, err = ParseSex(n)
		return err
	}},
	{SpecAdmitDiagnosis, func(r *OutputRecord, _ FieldSpec, s string) error {
		c, err := NewDiagnosisCode(strings.TrimSpace(s))
		r.AdmitDiagnosis = c
		return err
	}},
	{SpecPrincipalDiagnosis, func(r *OutputRecord, _ FieldSpec, s string) error {
		d, err := ParseDiagnosis(s)
		r.PrincipalDiagnosis = d
		return err
	}},
	{SpecSecondaryDiagnoses, func(r *OutputRecord, _ FieldSpec, s string) error {
		list, err := decodeDiagnosisGroup(s, MaxSecondaryDiagnoses)
		r.SecondaryDiagnoses = list
		return err
	}},
	{SpecPrincipalProcedure, func(r *OutputRecord, _ FieldSpec, s string) error {
		c, err := NewProcedureCode(strings.TrimSpace(s))
		r.PrincipalProcedure = c
		return err
	}},
	{SpecSecondaryProcedures, func(r *OutputRecord, _ FieldSpec, s string) error {
		list, err := decodeProcedureGroup(s, MaxSecondaryProcedures)
		r.SecondaryProcedures = list
		return err
	}},
	{SpecProcedureDates, func(r *OutputRecord, _ FieldSpec, s string) error {
		list, err := decodeDateGroup(s, MaxProcedureDates)
		r.ProcedureDates = list
		return err
	}},
	{SpecApplyHACLogic, func(r *OutputRecord, _ FieldSpec, s string) error {
		if s == " " {
			return nil
		}
		v, err := ParseApplyHACLogic(s[0])
		r.ApplyHACLogic = v
		return err
	}},
	{SpecOptionalInformation, func(r *OutputRecord, _ FieldSpec, s string) error {
		r.OptionalInformation = strings.TrimSpace(s)
		return nil
	}},
	{SpecVersionUsed, func(r *OutputRecord, _ FieldSpec, s string) error {
		r.VersionUsed = strings.TrimSpace(s)
		return nil
	}},
	{SpecInitialDRG, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		r.InitialDRG = n
		return err
	}},
	{SpecInitialMSIndicator, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		if err != nil {
			return err
		}
		r.InitialMSIndicator, err = ParseMedicalSurgicalIndicator(n)
		return err
	}},
	{SpecFinalMDC, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		r.FinalMDC = n
		return err
	}},
	{SpecFinalDRG, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		r.FinalDRG = n
		return err
	}},
	{SpecFinalMSIndicator, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		if err != nil {
			return err
		}
		r.FinalMSIndicator, err = ParseMedicalSurgicalIndicator(n)
		return err
	}},
	{SpecDRGReturnCode, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		if err != nil {
			return err
		}
		r.ReturnCode, err = ParseDRGReturnCode(n)
		return err
	}},
	{SpecEditReturnCode, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		if err != nil {
			return err
		}
		r.EditReturnCode, err = ParseEditReturnCode(n)
		return err
	}},
	{SpecDiagnosisCount, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		r.DiagnosisCount = n
		return err
	}},
	{SpecProcedureCount, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		r.ProcedureCount = n
		return err
	}},
	{SpecPrincipalDxEditFlags, func(r *OutputRecord, spec FieldSpec, s string) error {
		flags, err := decodeEditFlagGroup(spec, s)
		r.PrincipalDxEditFlags = flags
		return err
	}},
	{SpecPrincipalDxHACCriteria, func(r *OutputRecord, _ FieldSpec, s string) error {
		r.PrincipalDxHACCriteria = decodeRawGroup(s, hacCriterionLength, maxHACCriteria, true)
		return nil
	}},
	{SpecPrincipalDxHACUsage, func(r *OutputRecord, spec FieldSpec, s string) error {
		flags, err := decodeHACUsageGroup(s)
		r.PrincipalDxHACUsage = flags
		return err
	}},
	{SpecSecondaryDxReturnFlags, func(r *OutputRecord, _ FieldSpec, s string) error {
		r.SecondaryDxReturnFlags = decodeRawGroup(s, dxReturnFlagsLength, MaxSecondaryDiagnoses, false)
		return nil
	}},
	{SpecSecondaryDxHACCriteria, func(r *OutputRecord, _ FieldSpec, s string) error {
		r.SecondaryDxHACCriteria = decodeRawGroup(s, dxHACCriteriaLength, MaxSecondaryDiagnoses, false)
		return nil
	}},
	{SpecSecondaryDxHACUsage, func(r *OutputRecord, _ FieldSpec, s string) error {
		r.SecondaryDxHACUsage = decodeRawGroup(s, dxHACUsageLength, MaxSecondaryDiagnoses, false)
		return nil
	}},
	{SpecProcedureEditFlags, func(r *OutputRecord, _ FieldSpec, s string) error {
		r.ProcedureEditFlags = decodeRawGroup(s, procReturnFlagsLength, MaxProcedureDates, false)
		return nil
	}},
	{SpecProcedureHACCriteria, func(r *OutputRecord, _ FieldSpec, s string) error {
		r.ProcedureHACCriteria = decodeRawGroup(s, procHACCriteriaLength, MaxProcedureDates, false)
		return nil
	}},
	{SpecInitialFourDigitDRG, func(r *OutputRecord, _ FieldSpec, s string) error {
		r.InitialFourDigitDRG = strings.TrimSpace(s)
		return nil
	}},
	{SpecFinalFourDigitDRG, func(r *OutputRecord, _ FieldSpec, s string) error {
		r.FinalFourDigitDRG = strings.TrimSpace(s)
		return nil
	}},
	{SpecFinalCCMCCUsage, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		if err != nil {
			return err
		}
		r.FinalCCMCCUsage, err = ParseCCMCCUsage(n)
		return err
	}},
	{SpecInitialCCMCCUsage, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		if err != nil {
			return err
		}
		r.InitialCCMCCUsage, err = ParseCCMCCUsage(n)
		return err
	}},
	{SpecUniqueHACsMet, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		r.UniqueHACsMet = n
		return err
	}},
	{SpecHACStatus, func(r *OutputRecord, spec FieldSpec, s string) error {
		n, err := spec.parseInt(s)
		if err != nil {
			return err
		}
		r.HACStatus, err = ParseHACStatus(n)
		return err
	}},
	{SpecCostWeight, func(r *OutputRecord, spec FieldSpec, s string) error {
		w, err := parseCostWeight(spec, s)
		r.CostWeight = w
		return err
	}},
}

// DecodeOutputRecord parses one output line against the fixed position
// table. Every field is decoded independently: a malformed trailer field
// never hides failures in the clinically important leading fields. The
// partially populated record is always returned; if any field failed, the
// error is a *DecodeError listing every failure.
func DecodeOutputRecord(line string) (*OutputRecord, error) {
	line = strings.TrimRight(line, "\r\n")
	rec := &OutputRecord{}
	var failed []FieldError

	for _, step := range outputSteps {
		s, err := step.spec.Slice(line)
		if err == nil {
			err = step.fn(rec, step.spec, s)
		}
		if err != nil {
			failed = append(failed, FieldError{Field: step.spec.Name, Err: err})
		}
	}

	if len(failed) > 0 {
		return rec, &DecodeError{Fields: failed}
	}
	return rec, nil
}

// DecodeOutputRecordStrict is the fail-fast variant: it stops at the first
// field that cannot be decoded.
func DecodeOutputRecordStrict(line string) (*OutputRecord, error) {
	line = strings.TrimRight(line, "\r\n")
	rec := &OutputRecord{}

	for _, step := range outputSteps {
		s, err := step.spec.Slice(line)
		if err == nil {
			err = step.fn(rec, step.spec, s)
		}
		if err != nil {
			return nil, FieldError{Field: step.spec.Name, Err: err}
		}
	}
	return rec, nil
}

// decodeDiagnosisGroup parses up to n 8-byte diagnosis slots, stopping at
// the first all-blank slot. Trailing repeats are omitted in observed grouper
// output rather than explicitly filled, so the decoded slice holds only the
// populated prefix.
func decodeDiagnosisGroup(s string, n int) ([]Diagnosis, error) {
	var list []Diagnosis
	for i := 0; i < n; i++ {
		slot := s[i*DiagnosisLength : (i+1)*DiagnosisLength]
		if blank(slot) {
			break
		}
		d, err := ParseDiagnosis(slot)
		if err != nil {
			return list, err
		}
		list = append(list, d)
	}
	return list, nil
}

// decodeProcedureGroup parses up to n 7-byte procedure code slots, stopping
// at the first blank slot.
func decodeProcedureGroup(s string, n int) ([]ProcedureCode, error) {
	var list []ProcedureCode
	for i := 0; i < n; i++ {
		slot := s[i*CodeLength : (i+1)*CodeLength]
		if blank(slot) {
			break
		}
		c, err := NewProcedureCode(strings.TrimSpace(slot))
		if err != nil {
			return list, err
		}
		list = append(list, c)
	}
	return list, nil
}

// decodeDateGroup parses up to n 10-byte date slots, stopping at the first
// blank slot.
func decodeDateGroup(s string, n int) ([]Date, error) {
	var list []Date
	for i := 0; i < n; i++ {
		slot := s[i*DateLength : (i+1)*DateLength]
		if blank(slot) {
			break
		}
		d, err := ParseDate(slot)
		if err != nil {
			return list, err
		}
		list = append(list, d)
	}
	return list, nil
}

// decodeEditFlagGroup parses up to four two-digit edit flags. Flag 00 is
// the group terminator, as is a blank slot.
func decodeEditFlagGroup(spec FieldSpec, s string) ([]DiagnosisEditFlag, error) {
	var flags []DiagnosisEditFlag
	for i := 0; i < maxEditFlags; i++ {
		slot := s[i*editFlagLength : (i+1)*editFlagLength]
		if blank(slot) {
			break
		}
		n, err := spec.parseInt(slot)
		if err != nil {
			return flags, err
		}
		if DiagnosisEditFlag(n) == DiagnosisEditNone {
			break
		}
		f, err := ParseDiagnosisEditFlag(n)
		if err != nil {
			return flags, err
		}
		flags = append(flags, f)
	}
	return flags, nil
}

// decodeHACUsageGroup parses the five one-byte usage flags attached to the
// principal diagnosis. A blank byte is itself a value (not applicable), so
// all five slots are decoded.
func decodeHACUsageGroup(s string) ([]HACUsage, error) {
	flags := make([]HACUsage, 0, maxHACUsageFlags)
	for i := 0; i < maxHACUsageFlags; i++ {
		u, err := ParseHACUsage(s[i])
		if err != nil {
			return flags, err
		}
		flags = append(flags, u)
	}
	return flags, nil
}

// decodeRawGroup splits a repeating group into its fixed-width sub-slots
// without interpreting them. When stopAtBlank is set, an all-blank slot
// terminates the group; otherwise every slot is kept verbatim, matching the
// upstream interface for the groups whose sub-field semantics are
// undetermined.
func decodeRawGroup(s string, subLen, n int, stopAtBlank bool) []string {
	var out []string
	for i := 0; i < n; i++ {
		slot := s[i*subLen : (i+1)*subLen]
		if stopAtBlank && blank(slot) {
			break
		}
		out = append(out, slot)
	}
	return out
}

// parseCostWeight parses the 7-byte DRG cost weight. The documented display
// form is two digits, a decimal point, and four digits; some grouper
// versions emit seven digits with four implied decimal places instead
// ("0012345" -> 1.2345). Both are accepted.
func parseCostWeight(spec FieldSpec, s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, &FormatError{Field: spec.Name, Input: s, Reason: "blank where a number was expected"}
	}
	if strings.Contains(trimmed, ".") {
		w, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, &FormatError{Field: spec.Name, Input: s, Reason: "not a number"}
		}
		return w, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &FormatError{Field: spec.Name, Input: s, Reason: "not a number"}
	}
	return float64(n) / 10000, nil
}
