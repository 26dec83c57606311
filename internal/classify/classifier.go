package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"bankdocs-backend/internal/documents"
	"bankdocs-backend/internal/llm"
)

// mediaTypes maps file extensions to the MIME types sent with the inline
// image payload.
var mediaTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".tiff": "image/tiff",
	".bmp":  "image/bmp",
}

// Classifier determines the banking document type of an uploaded file using
// a vision-capable LLM.
type Classifier struct {
	llm llm.Client
}

// NewClassifier builds a Classifier around the given LLM client.
func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{llm: client}
}

// classification is the JSON shape the model is instructed to return.
type classification struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
	Reasoning    string  `json:"reasoning"`
}

// Classify determines the document type from raw file bytes. Failures never
// propagate: any error degrades to (unknown, 0, reason) so the pipeline can
// continue and route the document to review.
func (c *Classifier) Classify(ctx context.Context, fileBytes []byte, filename string) (documents.DocumentType, float64, string) {
	mediaType := MediaTypeFor(filename)
	log.Printf("classify: start filename=%s media_type=%s size=%d", filename, mediaType, len(fileBytes))

	raw, err := c.llm.Classify(ctx, llm.ClassifyInput{
		FileBytes: fileBytes,
		MediaType: mediaType,
	})
	if err != nil {
		log.Printf("classify: llm call failed filename=%s err=%v", filename, err)
		return documents.TypeUnknown, 0, fmt.Sprintf("Classification error: %v", err)
	}

	var parsed classification
	if err := json.Unmarshal([]byte(llm.StripCodeFences(string(raw))), &parsed); err != nil {
		log.Printf("classify: decode failed filename=%s err=%v", filename, err)
		return documents.TypeUnknown, 0, fmt.Sprintf("Classification error: %v", err)
	}

	docType := documents.ParseDocumentType(parsed.DocumentType)
	reasoning := parsed.Reasoning
	if reasoning == "" {
		reasoning = "No reasoning provided"
	}

	log.Printf("classify: result filename=%s type=%s confidence=%.2f", filename, docType, parsed.Confidence)
	return docType, parsed.Confidence, reasoning
}

// MediaTypeFor resolves the MIME type from the file extension, defaulting
// to application/octet-stream.
func MediaTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mt, ok := mediaTypes[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}
