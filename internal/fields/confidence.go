package fields

import "fmt"

// CheckConfidence reports whether every extracted field meets the deployment
// confidence threshold. Raw text_line fields are skipped: they are full-text
// passthrough, not extracted data. The returned descriptions follow input
// order. Pure function, no side effects.
func CheckConfidence(extracted []ExtractedField, threshold float64) (bool, []string) {
	var low []string
	for _, f := range extracted {
		if f.FieldName == TextLine {
			continue
		}
		if f.Confidence < threshold {
			low = append(low, fmt.Sprintf("%s: %.2f (threshold: %g)", f.FieldName, f.Confidence, threshold))
		}
	}
	return len(low) == 0, low
}
