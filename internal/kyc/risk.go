package kyc

import "strings"

// RiskFactors holds the weights and watchlists for the initial KYC risk
// pre-screen. The pre-screen is advisory triage only; the AML rule engine
// performs the authoritative compliance scoring.
type RiskFactors struct {
	HighRiskCountries   []string
	HighRiskOccupations []string
	PEPMultiplier       float64
	MissingFieldPenalty float64
}

// DefaultRiskFactors returns the standard pre-screen weights.
func DefaultRiskFactors() RiskFactors {
	return RiskFactors{
		HighRiskCountries: []string{
			"Iran", "North Korea", "Syria", "Yemen", "Libya",
			"Somalia", "South Sudan", "Myanmar",
		},
		HighRiskOccupations: []string{
			"money exchanger", "casino", "gambling", "cryptocurrency",
			"arms dealer", "precious metals", "real estate agent",
		},
		PEPMultiplier:       2.0,
		MissingFieldPenalty: 0.1,
	}
}

// criticalFields are the profile fields whose absence raises the pre-screen
// score.
var criticalFields = []string{
	"customer_name", "date_of_birth", "nationality",
	"source_of_funds", "occupation",
}

// RateRisk maps an extracted KYC profile to a coarse risk rating. Country
// match is exact after trimming, occupation is a case-insensitive substring
// scan, and PEP status doubles the accumulated score before its own
// increment. The score is clamped to [0, 1] before banding.
func (rf RiskFactors) RateRisk(data map[string]string) string {
	score := 0.0

	nationality := strings.TrimSpace(data["nationality"])
	for _, country := range rf.HighRiskCountries {
		if nationality == country {
			score += 0.4
			break
		}
	}

	occupation := strings.ToLower(data["occupation"])
	for _, risky := range rf.HighRiskOccupations {
		if strings.Contains(occupation, risky) {
			score += 0.3
			break
		}
	}

	pep := strings.ToLower(data["politically_exposed"])
	if pep == "yes" || pep == "true" || pep == "1" {
		score *= rf.PEPMultiplier
		score += 0.3
	}

	for _, field := range criticalFields {
		if data[field] == "" {
			score += rf.MissingFieldPenalty
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}

	switch {
	case score >= 0.7:
		return "very_high"
	case score >= 0.4:
		return "high"
	case score >= 0.2:
		return "medium"
	default:
		return "low"
	}
}
