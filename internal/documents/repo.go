package documents

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document ID has no stored result.
var ErrNotFound = errors.New("document not found")

// Repo defines persistence for processed documents and their audit trail.
type Repo interface {
	// Save stores a pipeline result and appends a DOCUMENT_PROCESSED audit
	// entry.
	Save(ctx context.Context, doc ProcessedDocument) error
	// Get returns a stored result by document ID.
	Get(ctx context.Context, documentID string) (ProcessedDocument, error)
	// AuditTrail returns audit entries for a document, oldest first.
	AuditTrail(ctx context.Context, documentID string) ([]AuditEntry, error)
}
