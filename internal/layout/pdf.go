package layout

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFFallback extracts raw text lines from a PDF without the layout
// service, using github.com/ledongthuc/pdf. Used when the service is
// unavailable so that pattern extraction can still run over plain text.
// No geometry or confidence data is available on this path.
func PDFFallback(data []byte) (*Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdf fallback: open: %w", err)
	}

	result := &Result{}
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		page := Page{Number: i}
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			page.Lines = append(page.Lines, Line{Content: line})
		}
		result.Pages = append(result.Pages, page)
	}

	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("pdf fallback: no extractable text")
	}
	return result, nil
}
