package kyc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"bankdocs-backend/internal/fields"
	"bankdocs-backend/internal/llm"
)

type fakeLLM struct {
	response json.RawMessage
	err      error
	gotText  string
}

func (f *fakeLLM) ExtractKYC(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	f.gotText = input.DocumentText
	return f.response, f.err
}

func (f *fakeLLM) Classify(ctx context.Context, input llm.ClassifyInput) (json.RawMessage, error) {
	return nil, llm.ErrNotImplemented
}

func TestProcessBuildsProfile(t *testing.T) {
	fake := &fakeLLM{response: json.RawMessage(`{
		"customer_name": "Jane Doe",
		"date_of_birth": "1990-04-12",
		"nationality": "India",
		"occupation": "Engineer",
		"source_of_funds": "Salary",
		"politically_exposed": "no",
		"employer": "null",
		"id_type": "passport",
		"id_number": "P1234567",
		"id_expiry": "2030-01-01"
	}`)}
	p := NewProcessor(fake, DefaultRiskFactors())

	res, err := p.Process(context.Background(), []fields.ExtractedField{
		fields.New(fields.TextLine, "Customer Name: Jane Doe", 1.0),
		fields.New(fields.TextLine, "Nationality: India", 1.0),
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if fake.gotText != "Customer Name: Jane Doe\nNationality: India" {
		t.Errorf("document text = %q", fake.gotText)
	}
	if res.CustomerName == nil || res.CustomerName.Text() != "Jane Doe" {
		t.Errorf("customer_name = %+v", res.CustomerName)
	}
	if res.CustomerName.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", res.CustomerName.Confidence)
	}
	if res.Employer != nil {
		t.Errorf("employer should drop the literal null, got %+v", res.Employer)
	}
	if res.RiskRating != "low" {
		t.Errorf("risk_rating = %q, want low", res.RiskRating)
	}
	if len(res.IDDocuments) != 1 {
		t.Fatalf("id_documents = %d, want 1", len(res.IDDocuments))
	}
	doc := res.IDDocuments[0]
	if doc.Type != "passport" || doc.Number != "P1234567" || doc.Expiry != "2030-01-01" {
		t.Errorf("id_document = %+v", doc)
	}
}

func TestProcessLLMFailureDegrades(t *testing.T) {
	fake := &fakeLLM{err: errors.New("boom")}
	p := NewProcessor(fake, DefaultRiskFactors())

	res, err := p.Process(context.Background(), nil)
	if err != nil {
		t.Fatalf("Process should not fail on LLM error: %v", err)
	}
	if res.CustomerName != nil {
		t.Errorf("expected empty profile, got %+v", res.CustomerName)
	}
	// Five missing critical fields at 0.1 each put the score in the high band.
	if res.RiskRating != "high" {
		t.Errorf("risk_rating = %q, want high", res.RiskRating)
	}
}

func TestProcessIDDocumentDefaults(t *testing.T) {
	fake := &fakeLLM{response: json.RawMessage(`{"id_number": "784-1990-1234567-1"}`)}
	p := NewProcessor(fake, DefaultRiskFactors())
	res, err := p.Process(context.Background(), nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(res.IDDocuments) != 1 || res.IDDocuments[0].Type != "Unknown" {
		t.Errorf("id_documents = %+v, want Unknown type default", res.IDDocuments)
	}
}

func TestRateRisk(t *testing.T) {
	full := func(over map[string]string) map[string]string {
		m := map[string]string{
			"customer_name":   "A",
			"date_of_birth":   "1990-01-01",
			"nationality":     "India",
			"source_of_funds": "Salary",
			"occupation":      "Teacher",
		}
		for k, v := range over {
			m[k] = v
		}
		return m
	}

	cases := []struct {
		name string
		data map[string]string
		want string
	}{
		{"clean profile", full(nil), "low"},
		{"high risk country", full(map[string]string{"nationality": "Iran"}), "high"},
		{"high risk occupation substring", full(map[string]string{"occupation": "Senior Cryptocurrency Trader"}), "medium"},
		{"country plus occupation", full(map[string]string{"nationality": "Syria", "occupation": "casino manager"}), "very_high"},
		{"pep doubles then adds", full(map[string]string{"nationality": "Iran", "politically_exposed": "yes"}), "very_high"},
		{"pep alone", full(map[string]string{"politically_exposed": "true"}), "medium"},
		{"one missing field", full(map[string]string{"occupation": ""}), "low"},
		{"two missing fields", full(map[string]string{"occupation": "", "source_of_funds": ""}), "medium"},
		{"everything missing", map[string]string{}, "high"},
		{"country match is exact", full(map[string]string{"nationality": "iran"}), "low"},
	}
	rf := DefaultRiskFactors()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rf.RateRisk(tc.data); got != tc.want {
				t.Errorf("RateRisk = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRateRiskClamped(t *testing.T) {
	// Country + occupation doubled by PEP plus misses would exceed 1.0
	// unclamped; the band is the same either way but the clamp keeps the
	// arithmetic bounded.
	data := map[string]string{
		"nationality":         "North Korea",
		"occupation":          "arms dealer",
		"politically_exposed": "1",
	}
	rf := DefaultRiskFactors()
	if got := rf.RateRisk(data); got != "very_high" {
		t.Errorf("RateRisk = %q, want very_high", got)
	}
}

func TestResultFields(t *testing.T) {
	fake := &fakeLLM{response: json.RawMessage(`{
		"customer_name": "Jane Doe",
		"nationality": "India"
	}`)}
	p := NewProcessor(fake, DefaultRiskFactors())
	res, _ := p.Process(context.Background(), nil)
	got := res.Fields()
	if len(got) != 2 {
		t.Fatalf("Fields() len = %d, want 2", len(got))
	}
}
