package documents

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo for local development
// and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	docs  map[string]ProcessedDocument
	audit map[string][]AuditEntry
	seq   int64
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		docs:  make(map[string]ProcessedDocument),
		audit: make(map[string][]AuditEntry),
	}
}

// Save stores a pipeline result and appends the audit entry.
func (r *MemoryRepo) Save(ctx context.Context, doc ProcessedDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.ProcessedBy == "" {
		doc.ProcessedBy = "system"
	}
	r.docs[doc.DocumentID] = doc
	r.seq++
	r.audit[doc.DocumentID] = append(r.audit[doc.DocumentID], AuditEntry{
		LogID:       r.seq,
		DocumentID:  doc.DocumentID,
		Action:      "DOCUMENT_PROCESSED",
		Details:     fmt.Sprintf("Type: %s, Status: %s", doc.DocumentType, doc.Status),
		PerformedBy: doc.ProcessedBy,
		Timestamp:   time.Now().UTC(),
	})
	return nil
}

// Get returns a stored result by document ID.
func (r *MemoryRepo) Get(ctx context.Context, documentID string) (ProcessedDocument, error) {
	if err := ctx.Err(); err != nil {
		return ProcessedDocument{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return ProcessedDocument{}, ErrNotFound
	}
	return doc, nil
}

// AuditTrail returns audit entries for a document, oldest first.
func (r *MemoryRepo) AuditTrail(ctx context.Context, documentID string) ([]AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.audit[documentID]
	out := make([]AuditEntry, len(entries))
	copy(out, entries)
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
