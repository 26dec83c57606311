package cheques

import (
	"log"

	"bankdocs-backend/internal/fields"
	"bankdocs-backend/internal/layout"
	"bankdocs-backend/internal/shared/util"
)

// Result holds the structured fields extracted from a cheque. Pointer slots
// are nil when the corresponding extractor found nothing.
type Result struct {
	ChequeNumber    *fields.ExtractedField `json:"cheque_number,omitempty"`
	MICRCode        *fields.ExtractedField `json:"micr_code,omitempty"`
	AccountNumber   *fields.ExtractedField `json:"account_number,omitempty"`
	BankName        *fields.ExtractedField `json:"bank_name,omitempty"`
	AmountInFigures *fields.ExtractedField `json:"amount_in_figures,omitempty"`
	AmountInWords   *fields.ExtractedField `json:"amount_in_words,omitempty"`
	ChequeDate      *fields.ExtractedField `json:"cheque_date,omitempty"`
	PayeeName       *fields.ExtractedField `json:"payee_name,omitempty"`
	SignatureOK     bool                   `json:"signature_detected"`
}

// DefaultRoutingCodes maps the leading three digits of a routing code to the
// issuing bank. UAE and India institutions commonly seen on inbound cheques.
func DefaultRoutingCodes() map[string]string {
	return map[string]string{
		"033": "ADCB - Abu Dhabi Commercial Bank",
		"044": "Emirates NBD",
		"046": "Abu Dhabi Islamic Bank",
		"035": "First Abu Dhabi Bank (FAB)",
		"050": "Mashreq Bank",
		"060": "State Bank of India",
		"002": "HDFC Bank",
		"004": "ICICI Bank",
		"029": "Axis Bank",
	}
}

// Processor runs cheque-specific extraction over layout output.
type Processor struct {
	routing map[string]string
}

// NewProcessor builds a Processor with the given routing code table. A nil
// table falls back to DefaultRoutingCodes.
func NewProcessor(routing map[string]string) *Processor {
	if routing == nil {
		routing = DefaultRoutingCodes()
	}
	return &Processor{routing: routing}
}

// Process assembles a cheque Result from the extracted fields and the raw
// layout output. All extractors are best-effort; a cheque with no MICR line
// still yields a Result with whatever else matched.
func (p *Processor) Process(extracted []fields.ExtractedField, raw *layout.Result) *Result {
	result := &Result{}
	text := fields.TextContent(extracted)

	if micr := extractMICR(text); micr != nil {
		cheque := fields.New("cheque_number", micr.ChequeNumber, confMICRCheque)
		code := fields.New("micr_code", micr.FullMICR, confMICRCode)
		account := fields.New("account_number", micr.AccountNumber, confMICRAccount)
		result.ChequeNumber = &cheque
		result.MICRCode = &code
		result.AccountNumber = &account

		bank := p.bankForRouting(micr.RoutingCode)
		bankField := fields.New("bank_name", bank, confBankName)
		result.BankName = &bankField
	}

	result.AmountInFigures = extractAmountFigures(text)
	result.AmountInWords = extractAmountWords(text)
	if result.AmountInFigures != nil && result.AmountInWords != nil {
		// Figures vs words agreement needs a number-to-words model; for now
		// both values are surfaced for manual review.
		log.Printf("cheques: amount cross-check figures=%s words=%q",
			result.AmountInFigures.Text(), result.AmountInWords.Text())
	}

	result.ChequeDate = extractDate(text)
	result.PayeeName = extractPayee(text)
	result.SignatureOK = detectSignature(raw)

	chequeNum := "N/A"
	if result.ChequeNumber != nil {
		chequeNum = util.Mask(result.ChequeNumber.Text(), 4)
	}
	log.Printf("cheques: processed cheque_number=%s signature=%t", chequeNum, result.SignatureOK)
	return result
}

// bankForRouting resolves a bank name from the first three digits of the
// routing code. Unrecognized prefixes map to "Unknown Bank".
func (p *Processor) bankForRouting(code string) string {
	prefix := code
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if name, ok := p.routing[prefix]; ok {
		return name
	}
	return "Unknown Bank"
}

// Fields flattens the Result back into a field slice for persistence and
// confidence gating.
func (r *Result) Fields() []fields.ExtractedField {
	var out []fields.ExtractedField
	for _, f := range []*fields.ExtractedField{
		r.ChequeNumber, r.MICRCode, r.AccountNumber, r.BankName,
		r.AmountInFigures, r.AmountInWords, r.ChequeDate, r.PayeeName,
	} {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}
