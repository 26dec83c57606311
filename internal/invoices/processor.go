package invoices

import (
	"log"
	"math"
	"strconv"
	"strings"

	"bankdocs-backend/internal/fields"
	"bankdocs-backend/internal/layout"
)

// Result holds the structured fields extracted from a vendor invoice.
// Slots map one-to-one to the prebuilt invoice model's field names; nil
// means the model did not recognize the field.
type Result struct {
	VendorName    *fields.ExtractedField `json:"vendor_name,omitempty"`
	VendorAddress *fields.ExtractedField `json:"vendor_address,omitempty"`
	InvoiceNumber *fields.ExtractedField `json:"invoice_number,omitempty"`
	InvoiceDate   *fields.ExtractedField `json:"invoice_date,omitempty"`
	DueDate       *fields.ExtractedField `json:"due_date,omitempty"`
	Subtotal      *fields.ExtractedField `json:"subtotal,omitempty"`
	TaxAmount     *fields.ExtractedField `json:"tax_amount,omitempty"`
	TotalAmount   *fields.ExtractedField `json:"total_amount,omitempty"`
	Currency      *fields.ExtractedField `json:"currency,omitempty"`
	PurchaseOrder *fields.ExtractedField `json:"purchase_order,omitempty"`
	LineItems     []map[string]any       `json:"line_items"`
	TotalsCheck   CrossCheckOutcome      `json:"totals_check"`
}

// CrossCheckOutcome reports the subtotal + tax = total arithmetic check.
// The check is advisory: a mismatch is logged and surfaced here but never
// blocks or mutates the extraction.
type CrossCheckOutcome string

const (
	// CrossCheckOK means subtotal + tax agreed with the stated total
	// within a 0.01 tolerance.
	CrossCheckOK CrossCheckOutcome = "ok"
	// CrossCheckMismatch means the arithmetic disagreed beyond tolerance.
	CrossCheckMismatch CrossCheckOutcome = "mismatch"
	// CrossCheckSkipped means one of the three amounts was missing or
	// unparseable.
	CrossCheckSkipped CrossCheckOutcome = "skipped"
)

const totalsTolerance = 0.01

// Processor maps prebuilt invoice model output into a Result.
type Processor struct{}

// NewProcessor returns an invoice Processor.
func NewProcessor() *Processor { return &Processor{} }

// Process assembles an invoice Result from extracted fields and the raw
// layout output. Field names follow the prebuilt invoice model vocabulary
// (VendorName, InvoiceId, SubTotal and so on).
func (p *Processor) Process(extracted []fields.ExtractedField, raw *layout.Result) *Result {
	result := &Result{LineItems: []map[string]any{}}
	fieldMap := fields.BuildMap(extracted)

	result.VendorName = lookup(fieldMap, "VendorName")
	result.VendorAddress = lookup(fieldMap, "VendorAddress")
	result.InvoiceNumber = lookup(fieldMap, "InvoiceId")
	result.InvoiceDate = lookup(fieldMap, "InvoiceDate")
	result.DueDate = lookup(fieldMap, "DueDate")
	result.Subtotal = lookup(fieldMap, "SubTotal")
	result.TaxAmount = lookup(fieldMap, "TotalTax")
	result.TotalAmount = lookup(fieldMap, "InvoiceTotal")
	result.Currency = lookup(fieldMap, "CurrencyCode")
	result.PurchaseOrder = lookup(fieldMap, "PurchaseOrder")

	result.LineItems = extractLineItems(raw)
	result.TotalsCheck = p.checkTotals(result)

	invoiceNum, total := "N/A", "N/A"
	if result.InvoiceNumber != nil {
		invoiceNum = result.InvoiceNumber.Text()
	}
	if result.TotalAmount != nil {
		total = result.TotalAmount.Text()
	}
	log.Printf("invoices: processed invoice_number=%s total=%s line_items=%d totals_check=%s",
		invoiceNum, total, len(result.LineItems), result.TotalsCheck)
	return result
}

func lookup(m fields.Map, name string) *fields.ExtractedField {
	if f, ok := m[name]; ok {
		return &f
	}
	return nil
}

// extractLineItems flattens the Items array of each analyzed document into
// loose maps. Per item value the preference order is string, number,
// currency amount, then raw content; valueless entries are dropped.
func extractLineItems(raw *layout.Result) []map[string]any {
	items := []map[string]any{}
	if raw == nil {
		return items
	}
	for _, doc := range raw.Documents {
		itemsField, ok := doc.Fields["Items"]
		if !ok {
			continue
		}
		for _, entry := range itemsField.ValueArray {
			if entry.ValueObject == nil {
				continue
			}
			item := map[string]any{}
			for key, val := range entry.ValueObject {
				switch {
				case val.ValueString != "":
					item[key] = val.ValueString
				case val.ValueNumber != nil:
					item[key] = *val.ValueNumber
				case val.ValueCurrency != nil:
					item[key] = val.ValueCurrency.Amount
				case val.Content != "":
					item[key] = val.Content
				}
			}
			items = append(items, item)
		}
	}
	return items
}

// checkTotals verifies subtotal + tax against the stated total. Mismatches
// are logged as warnings only; downstream review queues decide what to do
// with them.
func (p *Processor) checkTotals(r *Result) CrossCheckOutcome {
	subtotal, ok1 := parseAmount(r.Subtotal)
	tax, ok2 := parseAmount(r.TaxAmount)
	total, ok3 := parseAmount(r.TotalAmount)
	if !ok1 || !ok2 || !ok3 {
		return CrossCheckSkipped
	}
	expected := subtotal + tax
	if math.Abs(expected-total) > totalsTolerance {
		log.Printf("invoices: total mismatch subtotal=%v tax=%v expected=%v total=%v",
			subtotal, tax, expected, total)
		return CrossCheckMismatch
	}
	return CrossCheckOK
}

// parseAmount reads a monetary field as a float, tolerating thousands
// separators and a leading dollar sign.
func parseAmount(f *fields.ExtractedField) (float64, bool) {
	if f == nil || !f.HasValue() {
		return 0, false
	}
	s := strings.ReplaceAll(f.Text(), ",", "")
	s = strings.ReplaceAll(s, "$", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Fields flattens the Result back into a field slice for persistence and
// confidence gating. Line items are carried separately.
func (r *Result) Fields() []fields.ExtractedField {
	var out []fields.ExtractedField
	for _, f := range []*fields.ExtractedField{
		r.VendorName, r.VendorAddress, r.InvoiceNumber, r.InvoiceDate,
		r.DueDate, r.Subtotal, r.TaxAmount, r.TotalAmount, r.Currency,
		r.PurchaseOrder,
	} {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}
