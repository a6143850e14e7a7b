package codec

import (
	"errors"
	"testing"
)

// =========== POA ===========

func TestParsePOA(t *testing.T) {
	for _, b := range []byte{'Y', 'N', 'U', 'W', '1', ' '} {
		p, err := ParsePOA(b)
		if err != nil {
			t.Errorf("unexpected error for %q: %v", string(b), err)
			continue
		}
		if p.String() != string(b) {
			t.Errorf("expected %q back, got %q", string(b), p.String())
		}
	}

	if _, err := ParsePOA('Q'); err == nil {
		t.Error("expected error for Q")
	}
}

func TestPOA_ZeroValueIsBlank(t *testing.T) {
	var p POA
	if p.String() != " " {
		t.Errorf("expected blank, got %q", p.String())
	}
}

// =========== Numeric code sets ===========

func TestParseSex(t *testing.T) {
	for code, want := range map[int]Sex{0: SexUnknown, 1: SexMale, 2: SexFemale} {
		got, err := ParseSex(code)
		if err != nil {
			t.Errorf("unexpected error for %d: %v", code, err)
			continue
		}
		if got != want {
			t.Errorf("code %d: expected %v, got %v", code, want, got)
		}
	}
	if _, err := ParseSex(3); err == nil {
		t.Error("expected error for 3")
	}
}

func TestParsePayer(t *testing.T) {
	p, err := ParsePayer(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != PayerInsuranceCompany {
		t.Errorf("expected PayerInsuranceCompany, got %v", p)
	}
	if _, err := ParsePayer(0); err == nil {
		t.Error("expected error for 0")
	}
	if _, err := ParsePayer(11); err == nil {
		t.Error("expected error for 11")
	}
}

func TestParseDischargeDisposition(t *testing.T) {
	d, err := ParseDischargeDisposition(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != DischargeHomeOrSelfCare {
		t.Errorf("expected DischargeHomeOrSelfCare, got %v", d)
	}

	if _, err := ParseDischargeDisposition(99); err == nil {
		t.Error("expected error for 99")
	}

	var ve *ValidationError
	_, err = ParseDischargeDisposition(-1)
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestParseApplyHACLogic(t *testing.T) {
	for _, b := range []byte{'X', 'Z'} {
		v, err := ParseApplyHACLogic(b)
		if err != nil {
			t.Errorf("unexpected error for %q: %v", string(b), err)
			continue
		}
		if v.String() != string(b) {
			t.Errorf("expected %q, got %q", string(b), v.String())
		}
	}
	if _, err := ParseApplyHACLogic('A'); err == nil {
		t.Error("expected error for A")
	}
}

func TestParseMedicalSurgicalIndicator(t *testing.T) {
	if _, err := ParseMedicalSurgicalIndicator(2); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseMedicalSurgicalIndicator(9); err == nil {
		t.Error("expected error for 9")
	}
}

func TestParseDRGReturnCode(t *testing.T) {
	c, err := ParseDRGReturnCode(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != DRGAssigned {
		t.Errorf("expected DRGAssigned, got %v", c)
	}
	if _, err := ParseDRGReturnCode(42); err == nil {
		t.Error("expected error for 42")
	}
}

func TestParseCCMCCUsage(t *testing.T) {
	if _, err := ParseCCMCCUsage(1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseCCMCCUsage(5); err == nil {
		t.Error("expected error for 5")
	}
}

func TestParseHACStatus(t *testing.T) {
	if _, err := ParseHACStatus(0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseHACStatus(7); err == nil {
		t.Error("expected error for 7")
	}
}

func TestParseHACUsage(t *testing.T) {
	for _, b := range []byte{' ', '0', '1'} {
		if _, err := ParseHACUsage(b); err != nil {
			t.Errorf("unexpected error for %q: %v", string(b), err)
		}
	}
	if _, err := ParseHACUsage('9'); err == nil {
		t.Error("expected error for 9")
	}
}
