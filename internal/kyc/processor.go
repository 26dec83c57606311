package kyc

import (
	"context"
	"log"
	"strings"

	"bankdocs-backend/internal/fields"
	"bankdocs-backend/internal/llm"
	"bankdocs-backend/internal/shared/util"
)

// Result holds the customer profile extracted from a KYC form plus the
// initial risk rating.
type Result struct {
	CustomerName       *fields.ExtractedField `json:"customer_name,omitempty"`
	DateOfBirth        *fields.ExtractedField `json:"date_of_birth,omitempty"`
	Nationality        *fields.ExtractedField `json:"nationality,omitempty"`
	Occupation         *fields.ExtractedField `json:"occupation,omitempty"`
	Employer           *fields.ExtractedField `json:"employer,omitempty"`
	AnnualIncome       *fields.ExtractedField `json:"annual_income,omitempty"`
	SourceOfFunds      *fields.ExtractedField `json:"source_of_funds,omitempty"`
	PurposeOfAccount   *fields.ExtractedField `json:"purpose_of_account,omitempty"`
	PoliticallyExposed *fields.ExtractedField `json:"politically_exposed,omitempty"`
	RiskRating         string                 `json:"risk_rating"`
	IDDocuments        []IDDocument           `json:"id_documents,omitempty"`
}

// IDDocument describes an identity document referenced on the form.
type IDDocument struct {
	Type   string `json:"type"`
	Number string `json:"number"`
	Expiry string `json:"expiry"`
}

// oracleConfidence is assigned to every field the extraction model returns.
// The model does not report per-field confidence, so a single conservative
// value stands in for all of them.
const oracleConfidence = 0.85

// Processor extracts structured KYC profiles from form text using an LLM
// and runs the initial risk pre-screen.
type Processor struct {
	llm  llm.Client
	risk RiskFactors
}

// NewProcessor builds a KYC Processor around the given LLM client.
func NewProcessor(client llm.Client, risk RiskFactors) *Processor {
	return &Processor{llm: client, risk: risk}
}

// Process extracts the KYC profile from layout text. An LLM failure is not
// fatal: the profile comes back empty and the risk pre-screen runs on what
// little is known, which pushes the score up through missing-field
// penalties.
func (p *Processor) Process(ctx context.Context, extracted []fields.ExtractedField) (*Result, error) {
	text := fields.TextContent(extracted)

	data := p.extract(ctx, text)

	result := &Result{
		CustomerName:       makeField("customer_name", data["customer_name"]),
		DateOfBirth:        makeField("date_of_birth", data["date_of_birth"]),
		Nationality:        makeField("nationality", data["nationality"]),
		Occupation:         makeField("occupation", data["occupation"]),
		Employer:           makeField("employer", data["employer"]),
		AnnualIncome:       makeField("annual_income", data["annual_income"]),
		SourceOfFunds:      makeField("source_of_funds", data["source_of_funds"]),
		PurposeOfAccount:   makeField("purpose_of_account", data["purpose_of_account"]),
		PoliticallyExposed: makeField("politically_exposed", data["politically_exposed"]),
	}

	result.RiskRating = p.risk.RateRisk(data)

	if data["id_type"] != "" || data["id_number"] != "" {
		result.IDDocuments = []IDDocument{{
			Type:   orDefault(data["id_type"], "Unknown"),
			Number: data["id_number"],
			Expiry: data["id_expiry"],
		}}
	}

	name := "N/A"
	if result.CustomerName != nil {
		name = util.Mask(result.CustomerName.Text(), 3)
	}
	log.Printf("kyc: processed customer=%s risk=%s", name, result.RiskRating)
	return result, nil
}

// extract runs the LLM extraction and decodes its JSON into a flat map.
// Errors degrade to an empty profile.
func (p *Processor) extract(ctx context.Context, text string) map[string]string {
	raw, err := p.llm.ExtractKYC(ctx, llm.ExtractInput{DocumentText: text})
	if err != nil {
		log.Printf("kyc: extraction failed err=%v", err)
		return map[string]string{}
	}
	data, err := llm.DecodeStringMap(raw)
	if err != nil {
		log.Printf("kyc: extraction decode failed err=%v", err)
		return map[string]string{}
	}
	return data
}

// makeField builds an ExtractedField unless the value is empty or a model
// spelling of absence.
func makeField(name, value string) *fields.ExtractedField {
	switch strings.ToLower(value) {
	case "", "null", "none", "n/a":
		return nil
	}
	f := fields.New(name, value, oracleConfidence)
	return &f
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// Fields flattens the Result into a field slice for persistence and
// confidence gating. The risk rating and ID documents are carried
// separately.
func (r *Result) Fields() []fields.ExtractedField {
	var out []fields.ExtractedField
	for _, f := range []*fields.ExtractedField{
		r.CustomerName, r.DateOfBirth, r.Nationality, r.Occupation,
		r.Employer, r.AnnualIncome, r.SourceOfFunds, r.PurposeOfAccount,
		r.PoliticallyExposed,
	} {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}
