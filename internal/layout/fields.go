package layout

import (
	"fmt"
	"strconv"
	"strings"

	"bankdocs-backend/internal/fields"
)

// ToFields flattens a layout result into the extracted-field list the rest
// of the pipeline consumes: prebuilt typed fields first, then every OCR line
// as a text_line pseudo-field (confidence 1.0), then one table_N
// pseudo-field per table.
func ToFields(result *Result) []fields.ExtractedField {
	if result == nil {
		return nil
	}

	var out []fields.ExtractedField

	for _, doc := range result.Documents {
		for name, field := range doc.Fields {
			out = append(out, convertField(name, field))
		}
	}

	for _, page := range result.Pages {
		for _, line := range page.Lines {
			f := fields.New(fields.TextLine, line.Content, 1.0)
			f.PageNumber = page.Number
			out = append(out, f)
		}
	}

	for i, table := range result.Tables {
		out = append(out, fields.New(fmt.Sprintf("table_%d", i), renderTable(table), 1.0))
	}

	return out
}

// convertField maps the service's polymorphic field value onto a plain
// string, preferring string > number > date > currency > raw content.
func convertField(name string, field DocumentField) fields.ExtractedField {
	var value *string
	switch {
	case field.ValueString != "":
		value = &field.ValueString
	case field.ValueNumber != nil:
		s := strconv.FormatFloat(*field.ValueNumber, 'f', -1, 64)
		value = &s
	case field.ValueDate != "":
		value = &field.ValueDate
	case field.ValueCurrency != nil:
		s := fmt.Sprintf("%s%s", field.ValueCurrency.Symbol, strconv.FormatFloat(field.ValueCurrency.Amount, 'f', -1, 64))
		value = &s
	case field.Content != "":
		value = &field.Content
	}

	return fields.ExtractedField{
		FieldName:   name,
		Value:       value,
		Confidence:  field.Confidence,
		BoundingBox: field.Polygon,
		PageNumber:  field.PageNumber,
	}
}

func renderTable(table Table) string {
	var b strings.Builder
	for i, cell := range table.Cells {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "[%d,%d] %s", cell.RowIndex, cell.ColumnIndex, cell.Content)
	}
	return b.String()
}
