package aml

// RuleSet carries the reference data the compliance checks run against. In
// production the sanctions list would come from a screening API; the
// embedded defaults keep the engine deterministic and testable.
type RuleSet struct {
	RequiredFields    []string
	SanctionsKeywords []string
	FATFHighRisk      []string
	FATFMonitoring    []string
	ConfidenceFloor   float64
	ExpiryDateFormats []string
}

// DefaultRuleSet returns the standard UAE Central Bank / FATF aligned rule
// data.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		RequiredFields: []string{
			"customer_name",
			"date_of_birth",
			"nationality",
			"source_of_funds",
			"occupation",
		},
		SanctionsKeywords: []string{
			"sanctioned_entity_1",
			"sanctioned_entity_2",
		},
		FATFHighRisk: []string{
			"Iran", "North Korea", "Myanmar",
		},
		FATFMonitoring: []string{
			"Syria", "Yemen", "South Sudan", "Libya",
			"Haiti", "Nigeria", "Philippines",
		},
		ConfidenceFloor: 0.80,
		ExpiryDateFormats: []string{
			"2006-01-02",
			"02/01/2006",
			"01/02/2006",
		},
	}
}
