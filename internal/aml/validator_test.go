package aml

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"bankdocs-backend/internal/fields"
)

func fixedValidator() *Validator {
	v := NewValidator(DefaultRuleSet())
	v.now = func() time.Time {
		return time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	}
	return v
}

func mk(name, value string) fields.ExtractedField {
	return fields.New(name, value, 0.90)
}

func completeProfile() []fields.ExtractedField {
	return []fields.ExtractedField{
		mk("customer_name", "Ahmed Ali"),
		mk("date_of_birth", "1985-06-15"),
		mk("nationality", "United Arab Emirates"),
		mk("source_of_funds", "Employment salary"),
		mk("occupation", "Software Engineer"),
		mk("politically_exposed", "no"),
	}
}

func TestCompleteKYCPasses(t *testing.T) {
	v := fixedValidator()
	result := v.ValidateKYC(completeProfile(), "kyc_form")

	if result.Status != StatusPassed {
		t.Errorf("status = %s, want passed (failed: %v)", result.Status, result.ChecksFailed)
	}
	if result.RiskScore != 0 {
		t.Errorf("risk_score = %v, want 0", result.RiskScore)
	}
	if result.Recommendation != "APPROVED - All compliance checks passed." {
		t.Errorf("recommendation = %q", result.Recommendation)
	}
	if len(result.Flags) != 0 {
		t.Errorf("flags = %v, want none", result.Flags)
	}
}

func TestMissingFieldsFlagged(t *testing.T) {
	v := fixedValidator()
	result := v.ValidateKYC([]fields.ExtractedField{
		mk("customer_name", "Ahmed Ali"),
	}, "kyc_form")

	if result.Status == StatusPassed {
		t.Error("status should not be passed")
	}
	found := false
	for _, c := range result.ChecksFailed {
		if strings.Contains(c, "Missing required fields") {
			found = true
			if c != "Missing required fields: date_of_birth, nationality, source_of_funds, occupation" {
				t.Errorf("completeness message = %q", c)
			}
		}
	}
	if !found {
		t.Errorf("missing completeness failure in %v", result.ChecksFailed)
	}
	if math.Abs(result.RiskScore-riskCompleteness) > 1e-9 {
		t.Errorf("risk_score = %v, want %v", result.RiskScore, riskCompleteness)
	}
	if result.Status != StatusNeedsManualReview {
		t.Errorf("status = %s, want needs_manual_review", result.Status)
	}
}

func TestHighRiskJurisdiction(t *testing.T) {
	v := fixedValidator()
	extracted := []fields.ExtractedField{
		mk("customer_name", "Test User"),
		mk("date_of_birth", "1990-01-01"),
		mk("nationality", "Iran"),
		mk("source_of_funds", "Business"),
		mk("occupation", "Trader"),
	}
	result := v.ValidateKYC(extracted, "kyc_form")

	if !hasFlag(result, "FATF_HIGH_RISK") {
		t.Errorf("flags = %v, want FATF_HIGH_RISK", result.Flags)
	}
	if result.RiskScore < 0.3 {
		t.Errorf("risk_score = %v, want >= 0.3", result.RiskScore)
	}
}

func TestMonitoredJurisdiction(t *testing.T) {
	v := fixedValidator()
	extracted := completeProfile()
	extracted[2] = mk("nationality", "Nigeria")
	result := v.ValidateKYC(extracted, "kyc_form")

	if !hasFlag(result, "FATF_MONITORING") {
		t.Errorf("flags = %v, want FATF_MONITORING", result.Flags)
	}
	if math.Abs(result.RiskScore-riskJurisdiction) > 1e-9 {
		t.Errorf("risk_score = %v, want %v", result.RiskScore, riskJurisdiction)
	}
	if result.Status != StatusNeedsManualReview {
		t.Errorf("status = %s, want needs_manual_review", result.Status)
	}
}

func TestSanctionsHitRejects(t *testing.T) {
	v := fixedValidator()
	extracted := completeProfile()
	extracted[0] = mk("customer_name", "Sanctioned_Entity_1 Holdings")
	result := v.ValidateKYC(extracted, "kyc_form")

	if !hasFlag(result, "SANCTIONS_HIT") {
		t.Errorf("flags = %v, want SANCTIONS_HIT", result.Flags)
	}
	if result.Status != StatusFailed {
		t.Errorf("status = %s, want failed", result.Status)
	}
	if result.Recommendation != "REJECT - High-risk indicators detected. Escalate to compliance." {
		t.Errorf("recommendation = %q", result.Recommendation)
	}
}

func TestSanctionsFallsBackToFullName(t *testing.T) {
	v := fixedValidator()
	result := v.ValidateKYC([]fields.ExtractedField{
		mk("full_name", "sanctioned_entity_2"),
	}, "id_card")
	if !hasFlag(result, "SANCTIONS_HIT") {
		t.Errorf("flags = %v, want SANCTIONS_HIT via full_name", result.Flags)
	}
}

func TestPEPIdentified(t *testing.T) {
	v := fixedValidator()
	cases := []string{"yes", "YES", "true", "1"}
	for _, val := range cases {
		extracted := completeProfile()
		extracted[5] = mk("politically_exposed", val)
		result := v.ValidateKYC(extracted, "kyc_form")
		if !hasFlag(result, "PEP_IDENTIFIED") {
			t.Errorf("pep=%q flags = %v, want PEP_IDENTIFIED", val, result.Flags)
		}
		if math.Abs(result.RiskScore-riskPEP) > 1e-9 {
			t.Errorf("pep=%q risk_score = %v, want %v", val, result.RiskScore, riskPEP)
		}
	}

	result := v.ValidateKYC(completeProfile(), "kyc_form")
	if hasFlag(result, "PEP_IDENTIFIED") {
		t.Error("pep=no should not flag")
	}
}

func TestIDExpiry(t *testing.T) {
	v := fixedValidator() // today is 2024-06-01
	cases := []struct {
		name       string
		expiry     string
		wantFailed bool
		wantNote   string
	}{
		{"expired iso", "2023-12-31", true, "ID document expired: 2023-12-31"},
		{"valid iso", "2030-01-01", false, "ID document is valid and not expired"},
		{"expires today", "2024-06-01", false, "ID document is valid and not expired"},
		{"valid dmy", "15/07/2025", false, "ID document is valid and not expired"},
		{"expired dmy", "15/01/2020", true, "ID document expired: 15/01/2020"},
		{"unrecognized", "sometime in 2025", false, "ID expiry date format unrecognized - manual check needed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			extracted := append(completeProfile(), mk("expiry_date", tc.expiry))
			result := v.ValidateKYC(extracted, "id_card")
			list := result.ChecksPassed
			if tc.wantFailed {
				list = result.ChecksFailed
			}
			if !contains(list, tc.wantNote) {
				t.Errorf("expected %q in %v", tc.wantNote, list)
			}
		})
	}

	result := v.ValidateKYC(completeProfile(), "kyc_form")
	if !contains(result.ChecksPassed, "ID expiry check skipped - no expiry field found") {
		t.Errorf("missing skip note in %v", result.ChecksPassed)
	}

	extracted := append(completeProfile(), mk("id_expiry", "2020-01-01"))
	result = v.ValidateKYC(extracted, "kyc_form")
	if !contains(result.ChecksFailed, "ID document expired: 2020-01-01") {
		t.Errorf("id_expiry alias not honored: %v", result.ChecksFailed)
	}
}

func TestLowConfidenceCriticalFields(t *testing.T) {
	v := fixedValidator()
	extracted := []fields.ExtractedField{
		fields.New("customer_name", "Test", 0.50),
		fields.New("date_of_birth", "1990-01-01", 0.75),
		fields.New("nationality", "UAE", 0.60),
		fields.New("source_of_funds", "Salary", 0.90),
		fields.New("occupation", "Engineer", 0.90),
	}
	result := v.ValidateKYC(extracted, "kyc_form")

	want := "Low confidence on critical fields: customer_name, date_of_birth, nationality"
	if !contains(result.ChecksFailed, want) {
		t.Errorf("checks_failed = %v, want %q", result.ChecksFailed, want)
	}
}

func TestConfidenceFloorIgnoresNonCritical(t *testing.T) {
	v := fixedValidator()
	extracted := append(completeProfile(), fields.New("payee_name", "Someone", 0.10))
	result := v.ValidateKYC(extracted, "kyc_form")
	if result.Status != StatusPassed {
		t.Errorf("status = %s, non-critical low confidence should not fail", result.Status)
	}
}

func TestRiskScoreClamped(t *testing.T) {
	v := fixedValidator()
	extracted := []fields.ExtractedField{
		fields.New("customer_name", "sanctioned_entity_1", 0.50),
		fields.New("nationality", "Iran", 0.50),
		mk("politically_exposed", "yes"),
		mk("expiry_date", "2000-01-01"),
	}
	result := v.ValidateKYC(extracted, "kyc_form")
	if result.RiskScore != 1.0 {
		t.Errorf("risk_score = %v, want clamp at 1.0", result.RiskScore)
	}
	if result.Status != StatusFailed {
		t.Errorf("status = %s, want failed", result.Status)
	}
}

func TestValidationIdempotent(t *testing.T) {
	v := fixedValidator()
	extracted := append(completeProfile(), mk("nationality", "Syria"))
	first := v.ValidateKYC(extracted, "kyc_form")
	second := v.ValidateKYC(extracted, "kyc_form")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ:\n%+v\n%+v", first, second)
	}
}

func TestCheckOrderStable(t *testing.T) {
	v := fixedValidator()
	result := v.ValidateKYC(completeProfile(), "kyc_form")
	want := []string{
		"All required KYC fields present",
		"ID expiry check skipped - no expiry field found",
		"Sanctions screening: CLEAR",
		"Jurisdiction check: United Arab Emirates - CLEAR",
		"PEP check: Not a PEP",
		"All critical fields meet confidence threshold",
	}
	if !reflect.DeepEqual(result.ChecksPassed, want) {
		t.Errorf("checks_passed = %v, want %v", result.ChecksPassed, want)
	}
}

func hasFlag(r Result, flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
