package cheques

import (
	"testing"

	"bankdocs-backend/internal/fields"
	"bankdocs-backend/internal/layout"
)

func textLines(lines ...string) []fields.ExtractedField {
	out := make([]fields.ExtractedField, 0, len(lines))
	for _, l := range lines {
		out = append(out, fields.New(fields.TextLine, l, 1.0))
	}
	return out
}

func TestProcessMICRPlain(t *testing.T) {
	p := NewProcessor(nil)
	res := p.Process(textLines("123456 789012345 1234567890"), nil)

	if res.ChequeNumber == nil || res.ChequeNumber.Text() != "123456" {
		t.Fatalf("cheque_number = %+v, want 123456", res.ChequeNumber)
	}
	if res.ChequeNumber.Confidence != 0.90 {
		t.Errorf("cheque_number confidence = %v, want 0.90", res.ChequeNumber.Confidence)
	}
	if res.MICRCode == nil || res.MICRCode.Text() != "123456 789012345 1234567890" {
		t.Errorf("micr_code = %+v", res.MICRCode)
	}
	if res.MICRCode.Confidence != 0.88 {
		t.Errorf("micr_code confidence = %v, want 0.88", res.MICRCode.Confidence)
	}
	if res.AccountNumber == nil || res.AccountNumber.Text() != "1234567890" {
		t.Errorf("account_number = %+v", res.AccountNumber)
	}
	if res.BankName == nil || res.BankName.Text() != "Unknown Bank" {
		t.Errorf("bank_name = %+v, want Unknown Bank for prefix 789", res.BankName)
	}
}

func TestProcessMICRTransitSymbols(t *testing.T) {
	p := NewProcessor(nil)
	res := p.Process(textLines("⑆123456⑆ ⑇044123456⑇ 99887766"), nil)

	if res.ChequeNumber == nil || res.ChequeNumber.Text() != "123456" {
		t.Fatalf("cheque_number = %+v", res.ChequeNumber)
	}
	if res.BankName == nil || res.BankName.Text() != "Emirates NBD" {
		t.Errorf("bank_name = %+v, want Emirates NBD", res.BankName)
	}
	if res.AccountNumber == nil || res.AccountNumber.Text() != "99887766" {
		t.Errorf("account_number = %+v", res.AccountNumber)
	}
}

func TestProcessNoMICR(t *testing.T) {
	p := NewProcessor(nil)
	res := p.Process(textLines("Pay to: Jane Doe", "AED 500.00"), nil)
	if res.ChequeNumber != nil || res.MICRCode != nil || res.AccountNumber != nil || res.BankName != nil {
		t.Errorf("expected nil MICR-derived fields, got %+v", res)
	}
	if res.AmountInFigures == nil || res.AmountInFigures.Text() != "500.00" {
		t.Errorf("amount_in_figures = %+v", res.AmountInFigures)
	}
}

func TestExtractAmountFigures(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"currency prefix", "Amount: AED 50,000.00 due", "50000.00"},
		{"dollar sign", "$5,000", "5000"},
		{"currency suffix", "1,250.50 AED", "1250.50"},
		{"rupee slash suffix", "2000/-", "2000"},
		{"asterisk wrapped", "***1,234.50***", "1234.50"},
		{"prefix beats suffix", "AED 100 and 200/-", "100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := extractAmountFigures(tc.text)
			if f == nil {
				t.Fatalf("extractAmountFigures(%q) = nil", tc.text)
			}
			if f.Text() != tc.want {
				t.Errorf("value = %q, want %q", f.Text(), tc.want)
			}
			if f.Confidence != 0.85 {
				t.Errorf("confidence = %v, want 0.85", f.Confidence)
			}
		})
	}
	if f := extractAmountFigures("no amounts here"); f != nil {
		t.Errorf("expected nil, got %+v", f)
	}
}

func TestExtractAmountWords(t *testing.T) {
	f := extractAmountWords("Dirhams Fifty Thousand Only")
	if f == nil {
		t.Fatal("expected match")
	}
	if f.Text() != "Fifty Thousand" {
		t.Errorf("value = %q, want %q", f.Text(), "Fifty Thousand")
	}
	if f.Confidence != 0.80 {
		t.Errorf("confidence = %v, want 0.80", f.Confidence)
	}
	if f := extractAmountWords("Fifty Thousand"); f != nil {
		t.Errorf("no label and no Only terminator should not match, got %+v", f)
	}
}

func TestExtractDateOrder(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"labelled date", "Date: 15/03/2024", "15/03/2024"},
		{"labelled two digit year", "Dated 1-2-24", "1-2-24"},
		{"month name", "Issued 15 March 2024", "15 March 2024"},
		{"bare date", "valid 15/03/2024 thereafter", "15/03/2024"},
		{"label wins over bare", "01/01/2020 Date: 15/03/2024", "15/03/2024"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := extractDate(tc.text)
			if f == nil {
				t.Fatalf("extractDate(%q) = nil", tc.text)
			}
			if f.Text() != tc.want {
				t.Errorf("value = %q, want %q", f.Text(), tc.want)
			}
		})
	}
	if f := extractDate("no date present"); f != nil {
		t.Errorf("expected nil, got %+v", f)
	}
}

func TestExtractPayee(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"newline terminated", "Pay: John Smith\nAED 100", "John Smith"},
		{"or bearer", "Pay: Acme Trading LLC or bearer", "Acme Trading LLC"},
		{"or order", "Payee: Jane Doe or order", "Jane Doe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := extractPayee(tc.text)
			if f == nil {
				t.Fatalf("extractPayee(%q) = nil", tc.text)
			}
			if f.Text() != tc.want {
				t.Errorf("value = %q, want %q", f.Text(), tc.want)
			}
			if f.Confidence != 0.80 {
				t.Errorf("confidence = %v, want 0.80", f.Confidence)
			}
		})
	}
}

func TestDetectSignature(t *testing.T) {
	bottomRight := &layout.Result{Pages: []layout.Page{{
		Number: 1, Width: 8.5, Height: 11,
		Lines: []layout.Line{{Content: "scrawl", Polygon: []float64{5.0, 9.0, 6.0, 9.5}}},
	}}}
	if !detectSignature(bottomRight) {
		t.Error("bottom-right line should count as signature")
	}

	topLeft := &layout.Result{Pages: []layout.Page{{
		Number: 1, Width: 8.5, Height: 11,
		Lines: []layout.Line{{Content: "Bank of Testing", Polygon: []float64{0.5, 0.5}}},
	}}}
	if detectSignature(topLeft) {
		t.Error("top-left line should not count")
	}

	defaultDims := &layout.Result{Pages: []layout.Page{{
		Number: 1,
		Lines:  []layout.Line{{Content: "mark", Polygon: []float64{600, 800}}},
	}}}
	if !detectSignature(defaultDims) {
		t.Error("missing dimensions should fall back to 1000 units")
	}

	if detectSignature(nil) {
		t.Error("nil layout result should not detect a signature")
	}
	if detectSignature(&layout.Result{}) {
		t.Error("no pages should not detect a signature")
	}
}

func TestResultFields(t *testing.T) {
	p := NewProcessor(nil)
	res := p.Process(textLines(
		"Pay: John Smith\nDirhams One Hundred Only",
		"Date: 15/03/2024",
		"AED 100.00",
		"123456 033123456 555666777",
	), nil)

	got := res.Fields()
	names := make(map[string]bool, len(got))
	for _, f := range got {
		names[f.FieldName] = true
	}
	for _, want := range []string{
		"cheque_number", "micr_code", "account_number", "bank_name",
		"amount_in_figures", "amount_in_words", "cheque_date", "payee_name",
	} {
		if !names[want] {
			t.Errorf("Fields() missing %s", want)
		}
	}
	if res.BankName.Text() != "ADCB - Abu Dhabi Commercial Bank" {
		t.Errorf("bank_name = %q", res.BankName.Text())
	}
}
