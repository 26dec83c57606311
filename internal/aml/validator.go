package aml

import (
	"fmt"
	"log"
	"strings"
	"time"

	"bankdocs-backend/internal/fields"
)

// Status is the overall outcome of a validation run.
type Status string

const (
	StatusPassed            Status = "passed"
	StatusFailed            Status = "failed"
	StatusNeedsManualReview Status = "needs_manual_review"
)

// Result is the outcome of the compliance check suite. ChecksPassed and
// ChecksFailed hold human-readable descriptions in check execution order;
// Flags carry machine-readable markers for downstream routing.
type Result struct {
	Status         Status   `json:"status"`
	ChecksPassed   []string `json:"checks_passed"`
	ChecksFailed   []string `json:"checks_failed"`
	RiskScore      float64  `json:"risk_score"`
	Flags          []string `json:"flags"`
	Recommendation string   `json:"recommendation"`
}

// Risk increments per failed check. Sanctions dominate on purpose: a single
// hit crosses the rejection line on its own.
const (
	riskCompleteness = 0.15
	riskIDValidity   = 0.10
	riskSanctions    = 0.50
	riskJurisdiction = 0.30
	riskPEP          = 0.25
	riskConfidence   = 0.10
)

// Validator runs the KYC/AML rule suite over extracted fields.
type Validator struct {
	rules RuleSet
	now   func() time.Time
}

// NewValidator builds a Validator with the given rules.
func NewValidator(rules RuleSet) *Validator {
	return &Validator{rules: rules, now: time.Now}
}

// ValidateKYC runs the six compliance checks in fixed order: completeness,
// ID validity, sanctions, jurisdiction, PEP, extraction confidence. The
// function is pure over its inputs and the clock; re-running it on the same
// fields yields the same Result.
func (v *Validator) ValidateKYC(extracted []fields.ExtractedField, documentType string) Result {
	var passed, failed, flags []string
	score := 0.0

	fieldMap := fields.BuildMap(extracted)

	if !v.checkCompleteness(fieldMap, &passed, &failed) {
		score += riskCompleteness
	}
	if !v.checkIDValidity(fieldMap, &passed, &failed) {
		score += riskIDValidity
	}
	if !v.checkSanctions(fieldMap, &passed, &failed, &flags) {
		score += riskSanctions
	}
	if !v.checkJurisdiction(fieldMap, &passed, &failed, &flags) {
		score += riskJurisdiction
	}
	if !v.checkPEP(fieldMap, &passed, &failed, &flags) {
		score += riskPEP
	}
	if !v.checkConfidence(extracted, &passed, &failed) {
		score += riskConfidence
	}

	if score > 1.0 {
		score = 1.0
	}

	var status Status
	var recommendation string
	switch {
	case len(failed) == 0:
		status = StatusPassed
		recommendation = "APPROVED - All compliance checks passed."
	case score >= 0.5:
		status = StatusFailed
		recommendation = "REJECT - High-risk indicators detected. Escalate to compliance."
	default:
		status = StatusNeedsManualReview
		recommendation = "REVIEW - Some checks failed. Manual review required by compliance officer."
	}

	log.Printf("aml: validation document_type=%s status=%s risk_score=%.2f passed=%d failed=%d",
		documentType, status, score, len(passed), len(failed))

	return Result{
		Status:         status,
		ChecksPassed:   passed,
		ChecksFailed:   failed,
		RiskScore:      score,
		Flags:          flags,
		Recommendation: recommendation,
	}
}

func (v *Validator) checkCompleteness(m fields.Map, passed, failed *[]string) bool {
	var missing []string
	for _, name := range v.rules.RequiredFields {
		if _, ok := m.Value(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		*failed = append(*failed, fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
		return false
	}
	*passed = append(*passed, "All required KYC fields present")
	return true
}

// checkIDValidity fails only when an expiry date parses and lies in the
// past. Absent or unrecognized dates pass with an explanatory note so they
// do not inflate the risk score.
func (v *Validator) checkIDValidity(m fields.Map, passed, failed *[]string) bool {
	value, ok := m.Value("expiry_date")
	if !ok {
		value, ok = m.Value("id_expiry")
	}
	if !ok {
		*passed = append(*passed, "ID expiry check skipped - no expiry field found")
		return true
	}

	today := v.today()
	for _, format := range v.rules.ExpiryDateFormats {
		expiry, err := time.Parse(format, value)
		if err != nil {
			continue
		}
		if expiry.Before(today) {
			*failed = append(*failed, fmt.Sprintf("ID document expired: %s", value))
			return false
		}
		*passed = append(*passed, "ID document is valid and not expired")
		return true
	}
	*passed = append(*passed, "ID expiry date format unrecognized - manual check needed")
	return true
}

func (v *Validator) checkSanctions(m fields.Map, passed, failed, flags *[]string) bool {
	name, ok := m.Value("customer_name")
	if !ok {
		name, ok = m.Value("full_name")
	}
	if !ok {
		*passed = append(*passed, "Sanctions screening skipped - no name found")
		return true
	}

	lower := strings.ToLower(name)
	for _, keyword := range v.rules.SanctionsKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			*failed = append(*failed, fmt.Sprintf("SANCTIONS MATCH: %s", name))
			*flags = append(*flags, "SANCTIONS_HIT")
			return false
		}
	}
	*passed = append(*passed, "Sanctions screening: CLEAR")
	return true
}

func (v *Validator) checkJurisdiction(m fields.Map, passed, failed, flags *[]string) bool {
	nationality, ok := m.Value("nationality")
	if !ok {
		*passed = append(*passed, "Jurisdiction check skipped - no nationality found")
		return true
	}

	country := strings.TrimSpace(nationality)
	for _, c := range v.rules.FATFHighRisk {
		if country == c {
			*failed = append(*failed, fmt.Sprintf("FATF High-Risk Jurisdiction: %s", country))
			*flags = append(*flags, "FATF_HIGH_RISK")
			return false
		}
	}
	for _, c := range v.rules.FATFMonitoring {
		if country == c {
			*failed = append(*failed, fmt.Sprintf("FATF Increased Monitoring: %s", country))
			*flags = append(*flags, "FATF_MONITORING")
			return false
		}
	}
	*passed = append(*passed, fmt.Sprintf("Jurisdiction check: %s - CLEAR", country))
	return true
}

func (v *Validator) checkPEP(m fields.Map, passed, failed, flags *[]string) bool {
	pep, ok := m.Value("politically_exposed")
	if !ok {
		*passed = append(*passed, "PEP check skipped - no PEP field found")
		return true
	}

	switch strings.ToLower(pep) {
	case "yes", "true", "1":
		*failed = append(*failed, "Customer is a Politically Exposed Person (PEP)")
		*flags = append(*flags, "PEP_IDENTIFIED")
		return false
	}
	*passed = append(*passed, "PEP check: Not a PEP")
	return true
}

func (v *Validator) checkConfidence(extracted []fields.ExtractedField, passed, failed *[]string) bool {
	required := make(map[string]bool, len(v.rules.RequiredFields))
	for _, name := range v.rules.RequiredFields {
		required[name] = true
	}

	var low []string
	for _, f := range extracted {
		if required[f.FieldName] && f.Confidence < v.rules.ConfidenceFloor {
			low = append(low, f.FieldName)
		}
	}
	if len(low) > 0 {
		*failed = append(*failed, fmt.Sprintf("Low confidence on critical fields: %s", strings.Join(low, ", ")))
		return false
	}
	*passed = append(*passed, "All critical fields meet confidence threshold")
	return true
}

// today truncates the clock to a date so an ID expiring today still counts
// as valid.
func (v *Validator) today() time.Time {
	now := v.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
