package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for document classification and KYC field
// extraction.
type Client interface {
	ExtractKYC(ctx context.Context, input ExtractInput) (json.RawMessage, error)
	Classify(ctx context.Context, input ClassifyInput) (json.RawMessage, error)
}

// ExtractInput captures the inputs for structured KYC field extraction.
type ExtractInput struct {
	DocumentText string
}

// ClassifyInput captures the inputs for vision-based document
// classification. MediaType is the MIME type used to build the inline data
// URL.
type ClassifyInput struct {
	FileBytes []byte
	MediaType string
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// ExtractKYC returns ErrNotImplemented.
func (PlaceholderClient) ExtractKYC(ctx context.Context, input ExtractInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}

// Classify returns ErrNotImplemented.
func (PlaceholderClient) Classify(ctx context.Context, input ClassifyInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}
