package cheques

import (
	"fmt"
	"regexp"
	"strings"

	"bankdocs-backend/internal/fields"
)

// Heuristic confidence constants per extractor. These express trust in the
// parsing heuristic, not a calibrated probability, and are deliberately
// fixed rather than configurable.
const (
	confMICRCheque  = 0.90
	confMICRCode    = 0.88
	confMICRAccount = 0.90
	confBankName    = 0.85
	confFigures     = 0.85
	confWords       = 0.80
	confDate        = 0.85
	confPayee       = 0.80
)

// MICR line: [cheque_number] [bank_routing_code] [account_number], with
// optional transit symbols around the first two groups. The symbol-delimited
// pattern is tried first, then the plain whitespace fallback; first match
// wins.
var (
	micrPattern     = regexp.MustCompile(`[\x{2446}]?(\d{6})[\x{2446}]?\s*[\x{2447}]?(\d{9})[\x{2447}]?\s*(\d{6,12})`)
	micrAltPattern  = regexp.MustCompile(`(\d{6})\s+(\d{9})\s+(\d{6,12})`)
	amountPatterns  = compileAll(figuresPatterns)
	datePatterns    = compileAll(chequeDatePatterns)
	amountWordsRe   = regexp.MustCompile(`(?i)(?:Rupees?|Dirhams?|Dollars?|Pay)[\s:]+(.+?)(?:Only)`)
	payeePattern    = regexp.MustCompile(`(?i)(?:Pay|Pay to|Payee)[\s:]+(.+?)(?:\n|or bearer|or order)`)
	figuresPatterns = []string{
		`(?i)(?:AED|USD|INR|Rs\.?|SAR|\$|£|€)\s*([\d,]+\.?\d*)`,
		`(?i)([\d,]+\.?\d*)\s*(?:AED|USD|INR|SAR|/-)`,
		`\*{1,3}\s*([\d,]+\.?\d*)\s*\*{1,3}`,
	}
	chequeDatePatterns = []string{
		`(?i)(?:Date|Dated?)[\s:]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
		`(?i)(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\w*\s+\d{4})`,
		`(\d{1,2}[/-]\d{1,2}[/-]\d{4})`,
	}
)

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// micrData holds the parsed MICR groups.
type micrData struct {
	ChequeNumber  string
	RoutingCode   string
	AccountNumber string
	FullMICR      string
}

// extractMICR parses the MICR line out of cheque text. Returns nil when
// neither pattern matches; a miss is not an error.
func extractMICR(text string) *micrData {
	for _, re := range []*regexp.Regexp{micrPattern, micrAltPattern} {
		if m := re.FindStringSubmatch(text); m != nil {
			return &micrData{
				ChequeNumber:  m[1],
				RoutingCode:   m[2],
				AccountNumber: m[3],
				FullMICR:      fmt.Sprintf("%s %s %s", m[1], m[2], m[3]),
			}
		}
	}
	return nil
}

// extractAmountFigures pulls the numeric amount. Matchers run in a fixed
// order (currency prefix, currency suffix, asterisk-wrapped) and the first
// match wins; thousands separators are stripped but no currency
// normalization is attempted.
func extractAmountFigures(text string) *fields.ExtractedField {
	for _, re := range amountPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			amount := strings.ReplaceAll(m[1], ",", "")
			f := fields.New("amount_in_figures", amount, confFigures)
			return &f
		}
	}
	return nil
}

// extractAmountWords pulls the written amount, e.g. "Fifty Thousand Only".
// The words are kept verbatim; no numeric parsing is attempted.
func extractAmountWords(text string) *fields.ExtractedField {
	if m := amountWordsRe.FindStringSubmatch(text); m != nil {
		f := fields.New("amount_in_words", strings.TrimSpace(m[1]), confWords)
		return &f
	}
	return nil
}

// extractDate pulls the cheque date. Matcher order is a documented
// contract: labelled date first, then day-monthname-year, then a bare
// slash/dash date with a 4-digit year. Raw matched substring is returned
// without normalization.
func extractDate(text string) *fields.ExtractedField {
	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			f := fields.New("cheque_date", m[1], confDate)
			return &f
		}
	}
	return nil
}

// extractPayee pulls the payee name following a Pay/Payee label, stopping at
// a line break or the customary "or bearer"/"or order" phrases.
func extractPayee(text string) *fields.ExtractedField {
	if m := payeePattern.FindStringSubmatch(text); m != nil {
		f := fields.New("payee_name", strings.TrimSpace(m[1]), confPayee)
		return &f
	}
	return nil
}
