package fields

import "strings"

// TextLine is the pseudo-field name used for raw OCR text lines. Text lines
// are full-text passthrough from the layout service, not extracted data, and
// always carry confidence 1.0.
const TextLine = "text_line"

// ExtractedField is a single datum pulled from a document, with the
// confidence reported by whichever source produced it: a calibrated OCR
// probability for layout fields, or a fixed heuristic constant for
// pattern-extractor output. A nil Value means "not found", which is distinct
// from an empty string.
type ExtractedField struct {
	FieldName   string    `json:"field_name"`
	Value       *string   `json:"value,omitempty"`
	Confidence  float64   `json:"confidence"`
	BoundingBox []float64 `json:"bounding_box,omitempty"`
	PageNumber  int       `json:"page_number,omitempty"`
}

// New builds a field with a concrete value.
func New(name, value string, confidence float64) ExtractedField {
	return ExtractedField{FieldName: name, Value: &value, Confidence: confidence}
}

// HasValue reports whether the field carries a non-nil value.
func (f ExtractedField) HasValue() bool {
	return f.Value != nil
}

// Text returns the field value, or "" when the field has no value.
func (f ExtractedField) Text() string {
	if f.Value == nil {
		return ""
	}
	return *f.Value
}

// Map indexes fields by name. Built once per extraction pass and treated as
// read-only during validation.
type Map map[string]ExtractedField

// BuildMap indexes a field slice by field name, last write wins on duplicates.
func BuildMap(extracted []ExtractedField) Map {
	m := make(Map, len(extracted))
	for _, f := range extracted {
		m[f.FieldName] = f
	}
	return m
}

// Value returns the value stored under name, reporting whether a field with a
// non-empty value exists.
func (m Map) Value(name string) (string, bool) {
	f, ok := m[name]
	if !ok || f.Value == nil || *f.Value == "" {
		return "", false
	}
	return *f.Value, true
}

// TextContent joins the values of all text_line fields with newlines, in
// input order. Pattern extractors search this concatenated content.
func TextContent(extracted []ExtractedField) string {
	var lines []string
	for _, f := range extracted {
		if f.FieldName == TextLine && f.Value != nil && *f.Value != "" {
			lines = append(lines, *f.Value)
		}
	}
	return strings.Join(lines, "\n")
}
