// Package encounter exposes the JSON face of the batch interface: an
// inpatient encounter submitted by a caller, converted to a fixed-width
// claim record, and the grouping result mapped back out of the grouper's
// output record.
package encounter

import (
	"fmt"

	"github.com/msdrg/batchgroup/internal/codec"
)

// DiagnosisInput is one diagnosis code with its present-on-admission
// indicator as submitted by the caller.
type DiagnosisInput struct {
	Code string `json:"code"`
	POA  string `json:"poa,omitempty"`
}

// Encounter is one inpatient stay as submitted for grouping. Dates are
// mm/dd/yyyy strings, matching the claim format they are written into.
type Encounter struct {
	PatientName         string           `json:"patient_name,omitempty"`
	MedicalRecordNumber string           `json:"medical_record_number,omitempty"`
	AccountNumber       string           `json:"account_number,omitempty"`
	AdmitDate           string           `json:"admit_date,omitempty"`
	DischargeDate       string           `json:"discharge_date,omitempty"`
	DischargeStatus     int              `json:"discharge_status"`
	PrimaryPayer        int              `json:"primary_payer"`
	LengthOfStay        int              `json:"length_of_stay"`
	BirthDate           string           `json:"birth_date,omitempty"`
	Age                 int              `json:"age"`
	Sex                 int              `json:"sex"`
	AdmitDiagnosis      string           `json:"admit_diagnosis,omitempty"`
	PrincipalDiagnosis  *DiagnosisInput  `json:"principal_diagnosis,omitempty"`
	SecondaryDiagnoses  []DiagnosisInput `json:"secondary_diagnoses,omitempty"`
	PrincipalProcedure  string           `json:"principal_procedure,omitempty"`
	SecondaryProcedures []string         `json:"secondary_procedures,omitempty"`
	ProcedureDates      []string         `json:"procedure_dates,omitempty"`
	ApplyHACLogic       string           `json:"apply_hac_logic,omitempty"`
	OptionalInformation string           `json:"optional_information,omitempty"`
}

func parsePOA(s string) (codec.POA, error) {
	if s == "" {
		return codec.POANone, nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("poa indicator %q is not a single character", s)
	}
	return codec.ParsePOA(s[0])
}

func parseDiagnosis(in DiagnosisInput) (codec.Diagnosis, error) {
	code, err := codec.NewDiagnosisCode(in.Code)
	if err != nil {
		return codec.Diagnosis{}, err
	}
	poa, err := parsePOA(in.POA)
	if err != nil {
		return codec.Diagnosis{}, err
	}
	return codec.NewDiagnosis(code, poa), nil
}

// ToRecord converts the encounter into a claim record, validating every
// field on the way. The error names the offending JSON field.
func (e *Encounter) ToRecord() (*codec.InputRecord, error) {
	rec := &codec.InputRecord{
		PatientName:         e.PatientName,
		MedicalRecordNumber: e.MedicalRecordNumber,
		AccountNumber:       e.AccountNumber,
		OptionalInformation: e.OptionalInformation,
	}

	var err error
	if rec.AdmitDate, err = codec.ParseDate(e.AdmitDate); err != nil {
		return nil, fmt.Errorf("admit_date: %w", err)
	}
	if rec.DischargeDate, err = codec.ParseDate(e.DischargeDate); err != nil {
		return nil, fmt.Errorf("discharge_date: %w", err)
	}
	if rec.BirthDate, err = codec.ParseDate(e.BirthDate); err != nil {
		return nil, fmt.Errorf("birth_date: %w", err)
	}
	if rec.DischargeStatus, err = codec.ParseDischargeDisposition(e.DischargeStatus); err != nil {
		return nil, fmt.Errorf("discharge_status: %w", err)
	}
	if rec.PrimaryPayer, err = codec.ParsePayer(e.PrimaryPayer); err != nil {
		return nil, fmt.Errorf("primary_payer: %w", err)
	}
	if rec.LengthOfStay, err = codec.NewLengthOfStay(e.LengthOfStay); err != nil {
		return nil, fmt.Errorf("length_of_stay: %w", err)
	}
	if rec.Age, err = codec.NewAge(e.Age); err != nil {
		return nil, fmt.Errorf("age: %w", err)
	}
	if rec.Sex, err = codec.ParseSex(e.Sex); err != nil {
		return nil, fmt.Errorf("sex: %w", err)
	}
	if rec.AdmitDiagnosis, err = codec.NewDiagnosisCode(e.AdmitDiagnosis); err != nil {
		return nil, fmt.Errorf("admit_diagnosis: %w", err)
	}

	if e.PrincipalDiagnosis != nil {
		if rec.PrincipalDiagnosis, err = parseDiagnosis(*e.PrincipalDiagnosis); err != nil {
			return nil, fmt.Errorf("principal_diagnosis: %w", err)
		}
	}
	if len(e.SecondaryDiagnoses) > codec.MaxSecondaryDiagnoses {
		return nil, fmt.Errorf("secondary_diagnoses: at most %d allowed, got %d", codec.MaxSecondaryDiagnoses, len(e.SecondaryDiagnoses))
	}
	for i, in := range e.SecondaryDiagnoses {
		dx, err := parseDiagnosis(in)
		if err != nil {
			return nil, fmt.Errorf("secondary_diagnoses[%d]: %w", i, err)
		}
		rec.SecondaryDiagnoses = append(rec.SecondaryDiagnoses, dx)
	}

	if rec.PrincipalProcedure, err = codec.NewProcedureCode(e.PrincipalProcedure); err != nil {
		return nil, fmt.Errorf("principal_procedure: %w", err)
	}
	if len(e.SecondaryProcedures) > codec.MaxSecondaryProcedures {
		return nil, fmt.Errorf("secondary_procedures: at most %d allowed, got %d", codec.MaxSecondaryProcedures, len(e.SecondaryProcedures))
	}
	for i, in := range e.SecondaryProcedures {
		pr, err := codec.NewProcedureCode(in)
		if err != nil {
			return nil, fmt.Errorf("secondary_procedures[%d]: %w", i, err)
		}
		rec.SecondaryProcedures = append(rec.SecondaryProcedures, pr)
	}
	if len(e.ProcedureDates) > codec.MaxProcedureDates {
		return nil, fmt.Errorf("procedure_dates: at most %d allowed, got %d", codec.MaxProcedureDates, len(e.ProcedureDates))
	}
	for i, in := range e.ProcedureDates {
		d, err := codec.ParseDate(in)
		if err != nil {
			return nil, fmt.Errorf("procedure_dates[%d]: %w", i, err)
		}
		rec.ProcedureDates = append(rec.ProcedureDates, d)
	}

	switch e.ApplyHACLogic {
	case "":
		// left blank on the claim
	case "X":
		rec.ApplyHACLogic = codec.HACExempt
	case "Z":
		rec.ApplyHACLogic = codec.HACRequiresPOA
	default:
		return nil, fmt.Errorf("apply_hac_logic: want X or Z, got %q", e.ApplyHACLogic)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// GroupResult is the grouping outcome of one encounter, mapped out of the
// grouper's output record into JSON-friendly types.
type GroupResult struct {
	MedicalRecordNumber string  `json:"medical_record_number,omitempty"`
	AccountNumber       string  `json:"account_number,omitempty"`
	VersionUsed         string  `json:"version_used"`
	InitialDRG          int     `json:"initial_drg"`
	FinalDRG            int     `json:"final_drg"`
	FinalMDC            int     `json:"final_mdc"`
	MedicalSurgical     int     `json:"medical_surgical"`
	ReturnCode          int     `json:"return_code"`
	EditReturnCode      int     `json:"edit_return_code"`
	DiagnosisCount      int     `json:"diagnosis_count"`
	ProcedureCount      int     `json:"procedure_count"`
	InitialFourDigitDRG string  `json:"initial_four_digit_drg,omitempty"`
	FinalFourDigitDRG   string  `json:"final_four_digit_drg,omitempty"`
	FinalCCMCCUsage     int     `json:"final_cc_mcc_usage"`
	InitialCCMCCUsage   int     `json:"initial_cc_mcc_usage"`
	UniqueHACsMet       int     `json:"unique_hacs_met"`
	HACStatus           int     `json:"hac_status"`
	CostWeight          float64 `json:"cost_weight"`
}

// NewGroupResult maps a decoded output record to a result.
func NewGroupResult(rec *codec.OutputRecord) GroupResult {
	return GroupResult{
		MedicalRecordNumber: rec.MedicalRecordNumber,
		AccountNumber:       rec.AccountNumber,
		VersionUsed:         rec.VersionUsed,
		InitialDRG:          rec.InitialDRG,
		FinalDRG:            rec.FinalDRG,
		FinalMDC:            rec.FinalMDC,
		MedicalSurgical:     int(rec.FinalMSIndicator),
		ReturnCode:          int(rec.ReturnCode),
		EditReturnCode:      int(rec.EditReturnCode),
		DiagnosisCount:      rec.DiagnosisCount,
		ProcedureCount:      rec.ProcedureCount,
		InitialFourDigitDRG: rec.InitialFourDigitDRG,
		FinalFourDigitDRG:   rec.FinalFourDigitDRG,
		FinalCCMCCUsage:     int(rec.FinalCCMCCUsage),
		InitialCCMCCUsage:   int(rec.InitialCCMCCUsage),
		UniqueHACsMet:       rec.UniqueHACsMet,
		HACStatus:           int(rec.HACStatus),
		CostWeight:          rec.CostWeight,
	}
}
