package codec

import "fmt"

// The batch format represents categorical fields as closed sets of numeric
// or single-character codes. Each type below maps the external code to a
// named value and back; constructing one from a code outside its set is a
// ValidationError.

// POA is the present-on-admission indicator carried in the eighth byte of a
// diagnosis slot.
type POA byte

const (
	POANone         POA = ' ' // no indicator reported
	POAYes          POA = 'Y'
	POANo           POA = 'N'
	POAUnknown      POA = 'U'
	POAUndetermined POA = 'W' // clinically undetermined
	POAExempt       POA = '1' // code exempt from POA reporting
)

// ParsePOA validates a POA indicator byte.
func ParsePOA(b byte) (POA, error) {
	switch POA(b) {
	case POANone, POAYes, POANo, POAUnknown, POAUndetermined, POAExempt:
		return POA(b), nil
	}
	return 0, &ValidationError{Field: "poa", Reason: fmt.Sprintf("unrecognized indicator %q", string(b))}
}

// String serializes the indicator to exactly one byte. The zero value
// serializes as POANone so that an empty Diagnosis slot is all blanks.
func (p POA) String() string {
	if p == 0 {
		return string(POANone)
	}
	return string(p)
}

// Sex is the numeric administrative sex code.
type Sex int

const (
	SexUnknown Sex = 0
	SexMale    Sex = 1
	SexFemale  Sex = 2
)

// ParseSex validates a sex code.
func ParseSex(code int) (Sex, error) {
	switch Sex(code) {
	case SexUnknown, SexMale, SexFemale:
		return Sex(code), nil
	}
	return 0, &ValidationError{Field: "sex", Reason: fmt.Sprintf("unrecognized code %d", code)}
}

// Code returns the external numeric code.
func (s Sex) Code() int { return int(s) }

// Payer is the primary pay source code.
type Payer int

const (
	PayerMedicare            Payer = 1
	PayerMedicaid            Payer = 2
	PayerTitleV              Payer = 3
	PayerOtherGovernment     Payer = 4
	PayerWorkersCompensation Payer = 5
	PayerBlueCross           Payer = 6
	PayerInsuranceCompany    Payer = 7
	PayerSelfPay             Payer = 8
	PayerOther               Payer = 9
	PayerNoCharge            Payer = 10
)

// ParsePayer validates a payer code.
func ParsePayer(code int) (Payer, error) {
	if code < int(PayerMedicare) || code > int(PayerNoCharge) {
		return 0, &ValidationError{Field: "primary_payer", Reason: fmt.Sprintf("unrecognized code %d", code)}
	}
	return Payer(code), nil
}

// Code returns the external numeric code.
func (p Payer) Code() int { return int(p) }

// DischargeDisposition is the UB-04 discharge status code.
type DischargeDisposition int

const (
	DischargeHomeOrSelfCare        DischargeDisposition = 1
	DischargeShortTermHospital     DischargeDisposition = 2
	DischargeSkilledNursing        DischargeDisposition = 3
	DischargeIntermediateCare      DischargeDisposition = 4
	DischargeOtherInstitution      DischargeDisposition = 5
	DischargeHomeHealthService     DischargeDisposition = 6
	DischargeAgainstMedicalAdvice  DischargeDisposition = 7
	DischargeExpired               DischargeDisposition = 20
	DischargeCourtLawEnforcement   DischargeDisposition = 21
	DischargeStillPatient          DischargeDisposition = 30
	DischargeFederalHospital       DischargeDisposition = 43
	DischargeHospiceHome           DischargeDisposition = 50
	DischargeHospiceMedicalFacility DischargeDisposition = 51
	DischargeSwingBed              DischargeDisposition = 61
	DischargeRehabFacility         DischargeDisposition = 62
	DischargeLongTermCareHospital  DischargeDisposition = 63
	DischargeMedicaidNursingFacility DischargeDisposition = 64
	DischargePsychiatricHospital   DischargeDisposition = 65
	DischargeCriticalAccessHospital DischargeDisposition = 66
	DischargeOtherSpecialFacility  DischargeDisposition = 70
)

var dischargeDispositions = map[DischargeDisposition]struct{}{
	DischargeHomeOrSelfCare:          {},
	DischargeShortTermHospital:       {},
	DischargeSkilledNursing:          {},
	DischargeIntermediateCare:        {},
	DischargeOtherInstitution:        {},
	DischargeHomeHealthService:       {},
	DischargeAgainstMedicalAdvice:    {},
	DischargeExpired:                 {},
	DischargeCourtLawEnforcement:     {},
	DischargeStillPatient:            {},
	DischargeFederalHospital:         {},
	DischargeHospiceHome:             {},
	DischargeHospiceMedicalFacility:  {},
	DischargeSwingBed:                {},
	DischargeRehabFacility:           {},
	DischargeLongTermCareHospital:    {},
	DischargeMedicaidNursingFacility: {},
	DischargePsychiatricHospital:     {},
	DischargeCriticalAccessHospital:  {},
	DischargeOtherSpecialFacility:    {},
}

// ParseDischargeDisposition validates a UB-04 discharge status code.
func ParseDischargeDisposition(code int) (DischargeDisposition, error) {
	d := DischargeDisposition(code)
	if _, ok := dischargeDispositions[d]; !ok {
		return 0, &ValidationError{Field: "discharge_status", Reason: fmt.Sprintf("unrecognized code %d", code)}
	}
	return d, nil
}

// Code returns the external numeric code.
func (d DischargeDisposition) Code() int { return int(d) }

// ApplyHACLogic tells the grouper whether the hospital is subject to POA
// reporting and therefore to hospital-acquired-condition logic.
type ApplyHACLogic byte

const (
	HACExempt      ApplyHACLogic = 'X' // exempt from POA indicator reporting
	HACRequiresPOA ApplyHACLogic = 'Z' // requires POA indicator reporting
)

// ParseApplyHACLogic validates an apply-HAC-logic flag byte.
func ParseApplyHACLogic(b byte) (ApplyHACLogic, error) {
	switch ApplyHACLogic(b) {
	case HACExempt, HACRequiresPOA:
		return ApplyHACLogic(b), nil
	}
	return 0, &ValidationError{Field: "apply_hac_logic", Reason: fmt.Sprintf("want X or Z, got %q", string(b))}
}

// String serializes the flag to exactly one byte. The zero value leaves
// the field blank.
func (a ApplyHACLogic) String() string {
	if a == 0 {
		return " "
	}
	return string(a)
}

// MedicalSurgicalIndicator classifies an assigned DRG as medical or
// surgical.
type MedicalSurgicalIndicator int

const (
	MSUnknown  MedicalSurgicalIndicator = 0
	MSMedical  MedicalSurgicalIndicator = 1
	MSSurgical MedicalSurgicalIndicator = 2
)

// ParseMedicalSurgicalIndicator validates a medical/surgical indicator code.
func ParseMedicalSurgicalIndicator(code int) (MedicalSurgicalIndicator, error) {
	switch MedicalSurgicalIndicator(code) {
	case MSUnknown, MSMedical, MSSurgical:
		return MedicalSurgicalIndicator(code), nil
	}
	return 0, &ValidationError{Field: "medical_surgical_indicator", Reason: fmt.Sprintf("unrecognized code %d", code)}
}

// DRGReturnCode reports whether the grouper assigned a DRG and, when it did
// not, why.
type DRGReturnCode int

const (
	DRGAssigned                  DRGReturnCode = 0
	DRGInvalidPrincipalDiagnosis DRGReturnCode = 1
	DRGRecordDoesNotMeetCriteria DRGReturnCode = 2
	DRGInvalidAge                DRGReturnCode = 3
	DRGInvalidSex                DRGReturnCode = 4
	DRGInvalidDischargeStatus    DRGReturnCode = 5
)

// ParseDRGReturnCode validates a DRG return code.
func ParseDRGReturnCode(code int) (DRGReturnCode, error) {
	if code < int(DRGAssigned) || code > int(DRGInvalidDischargeStatus) {
		return 0, &ValidationError{Field: "drg_return_code", Reason: fmt.Sprintf("unrecognized code %d", code)}
	}
	return DRGReturnCode(code), nil
}

// EditReturnCode is the four-digit MSG/MCE editor return code.
type EditReturnCode int

const (
	EditNoErrors            EditReturnCode = 0
	EditInvalidDiagnosis    EditReturnCode = 1
	EditInvalidProcedure    EditReturnCode = 2
	EditInvalidAge          EditReturnCode = 3
	EditInvalidSex          EditReturnCode = 4
	EditInvalidDischargeStatus EditReturnCode = 5
)

// ParseEditReturnCode validates an MSG/MCE edit return code.
func ParseEditReturnCode(code int) (EditReturnCode, error) {
	if code < int(EditNoErrors) || code > int(EditInvalidDischargeStatus) {
		return 0, &ValidationError{Field: "msg_mce_edit_return_code", Reason: fmt.Sprintf("unrecognized code %d", code)}
	}
	return EditReturnCode(code), nil
}

// DiagnosisEditFlag is one of up to four two-digit edit flags the editor
// attaches to a diagnosis code. Flag 00 means "no flag" and terminates the
// flag group.
type DiagnosisEditFlag int

const (
	DiagnosisEditNone           DiagnosisEditFlag = 0
	DiagnosisEditNonSpecific    DiagnosisEditFlag = 1
	DiagnosisEditNotAllowedAsPrincipal DiagnosisEditFlag = 2
	DiagnosisEditAgeConflict    DiagnosisEditFlag = 3
	DiagnosisEditSexConflict    DiagnosisEditFlag = 4
	DiagnosisEditQuestionableAdmission DiagnosisEditFlag = 5
	DiagnosisEditUnacceptablePrincipal DiagnosisEditFlag = 6
)

// ParseDiagnosisEditFlag validates a diagnosis edit return flag.
func ParseDiagnosisEditFlag(code int) (DiagnosisEditFlag, error) {
	if code < int(DiagnosisEditNone) || code > int(DiagnosisEditUnacceptablePrincipal) {
		return 0, &ValidationError{Field: "diagnosis_edit_return_flag", Reason: fmt.Sprintf("unrecognized flag %02d", code)}
	}
	return DiagnosisEditFlag(code), nil
}

// HACUsage is the one-byte hospital-acquired-condition usage flag attached
// to a diagnosis.
type HACUsage byte

const (
	HACUsageNotApplicable  HACUsage = ' '
	HACUsageCriteriaNotMet HACUsage = '0'
	HACUsageCriteriaMet    HACUsage = '1'
)

// ParseHACUsage validates a HAC usage flag byte.
func ParseHACUsage(b byte) (HACUsage, error) {
	switch HACUsage(b) {
	case HACUsageNotApplicable, HACUsageCriteriaNotMet, HACUsageCriteriaMet:
		return HACUsage(b), nil
	}
	return 0, &ValidationError{Field: "hac_usage", Reason: fmt.Sprintf("unrecognized flag %q", string(b))}
}

// CCMCCUsage reports whether a complication/comorbidity affected the DRG
// assignment.
type CCMCCUsage int

const (
	CCMCCNotAffected  CCMCCUsage = 0
	CCMCCAffectedByMCC CCMCCUsage = 1
	CCMCCAffectedByCC  CCMCCUsage = 2
)

// ParseCCMCCUsage validates a CC/MCC usage code.
func ParseCCMCCUsage(code int) (CCMCCUsage, error) {
	switch CCMCCUsage(code) {
	case CCMCCNotAffected, CCMCCAffectedByMCC, CCMCCAffectedByCC:
		return CCMCCUsage(code), nil
	}
	return 0, &ValidationError{Field: "cc_mcc_usage", Reason: fmt.Sprintf("unrecognized code %d", code)}
}

// HACStatus summarizes the hospital-acquired-condition outcome for the
// whole record.
type HACStatus int

const (
	HACStatusNotApplicable HACStatus = 0
	HACStatusPresent       HACStatus = 1
	HACStatusNotPresent    HACStatus = 2
)

// ParseHACStatus validates a HAC status code.
func ParseHACStatus(code int) (HACStatus, error) {
	switch HACStatus(code) {
	case HACStatusNotApplicable, HACStatusPresent, HACStatusNotPresent:
		return HACStatus(code), nil
	}
	return 0, &ValidationError{Field: "hac_status", Reason: fmt.Sprintf("unrecognized code %d", code)}
}
