package layout

import (
	"context"
	"errors"
)

// Model identifiers understood by the layout service.
const (
	ModelLayout  = "prebuilt-layout"
	ModelInvoice = "prebuilt-invoice"
	ModelReceipt = "prebuilt-receipt"
	ModelIDCard  = "prebuilt-idDocument"
)

// ModelFor picks the analysis model for a document type. Cheques and forms
// get generic layout analysis plus downstream post-processing; invoices and
// the like use prebuilt models.
func ModelFor(documentType string) string {
	switch documentType {
	case "invoice":
		return ModelInvoice
	case "receipt":
		return ModelReceipt
	case "id_card":
		return ModelIDCard
	default:
		return ModelLayout
	}
}

// Client abstracts the layout/OCR analysis service.
type Client interface {
	Analyze(ctx context.Context, fileBytes []byte, modelID string) (*Result, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("layout service not configured")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// Analyze returns ErrNotConfigured.
func (PlaceholderClient) Analyze(ctx context.Context, fileBytes []byte, modelID string) (*Result, error) {
	_ = ctx
	_ = fileBytes
	_ = modelID
	return nil, ErrNotConfigured
}
