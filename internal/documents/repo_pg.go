package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bankdocs-backend/internal/aml"
	"bankdocs-backend/internal/fields"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Save inserts the pipeline result and its audit entry.
func (r *PGRepo) Save(ctx context.Context, doc ProcessedDocument) error {
	const query = `
INSERT INTO processed_documents (
    document_id,
    document_type,
    status,
    classification_confidence,
    extracted_data,
    extraction_result,
    validation_result,
    processing_time_ms,
    pages_processed,
    needs_human_review,
    review_reason,
    file_hash,
    processed_by,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	extractedData, err := json.Marshal(doc.ExtractedFields)
	if err != nil {
		return fmt.Errorf("marshal extracted fields: %w", err)
	}

	var extractionResult sql.NullString
	if len(doc.ExtractionResult) > 0 {
		extractionResult = sql.NullString{String: string(doc.ExtractionResult), Valid: true}
	}

	var validation sql.NullString
	if doc.Validation != nil {
		raw, err := json.Marshal(doc.Validation)
		if err != nil {
			return fmt.Errorf("marshal validation: %w", err)
		}
		validation = sql.NullString{String: string(raw), Valid: true}
	}

	var reviewReason sql.NullString
	if doc.ReviewReason != "" {
		reviewReason = sql.NullString{String: doc.ReviewReason, Valid: true}
	}

	processedBy := doc.ProcessedBy
	if processedBy == "" {
		processedBy = "system"
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.DocumentID,
		string(doc.DocumentType),
		string(doc.Status),
		doc.ClassificationConfidence,
		string(extractedData),
		extractionResult,
		validation,
		doc.ProcessingTimeMS,
		doc.PagesProcessed,
		doc.NeedsHumanReview,
		reviewReason,
		doc.FileHash,
		processedBy,
		doc.CreatedAt,
	)
	if err != nil {
		return err
	}

	const auditQuery = `
INSERT INTO audit_log (document_id, action, details, performed_by)
VALUES ($1, $2, $3, $4)`
	_, err = r.DB.ExecContext(
		ctx,
		auditQuery,
		doc.DocumentID,
		"DOCUMENT_PROCESSED",
		fmt.Sprintf("Type: %s, Status: %s", doc.DocumentType, doc.Status),
		processedBy,
	)
	return err
}

// Get returns a stored result by document ID.
func (r *PGRepo) Get(ctx context.Context, documentID string) (ProcessedDocument, error) {
	const query = `
SELECT document_id, document_type, status, classification_confidence,
       extracted_data, extraction_result, validation_result,
       processing_time_ms, pages_processed, needs_human_review,
       review_reason, file_hash, processed_by, created_at
FROM processed_documents
WHERE document_id = $1`

	var doc ProcessedDocument
	var docType, status string
	var extractedData string
	var extractionResult sql.NullString
	var validation sql.NullString
	var reviewReason sql.NullString
	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&doc.DocumentID,
		&docType,
		&status,
		&doc.ClassificationConfidence,
		&extractedData,
		&extractionResult,
		&validation,
		&doc.ProcessingTimeMS,
		&doc.PagesProcessed,
		&doc.NeedsHumanReview,
		&reviewReason,
		&doc.FileHash,
		&doc.ProcessedBy,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProcessedDocument{}, ErrNotFound
		}
		return ProcessedDocument{}, err
	}

	doc.DocumentType = DocumentType(docType)
	doc.Status = ProcessingStatus(status)
	if extractedData != "" {
		var extracted []fields.ExtractedField
		if err := json.Unmarshal([]byte(extractedData), &extracted); err != nil {
			return ProcessedDocument{}, fmt.Errorf("unmarshal extracted fields: %w", err)
		}
		doc.ExtractedFields = extracted
	}
	if extractionResult.Valid {
		doc.ExtractionResult = json.RawMessage(extractionResult.String)
	}
	if validation.Valid {
		var v aml.Result
		if err := json.Unmarshal([]byte(validation.String), &v); err != nil {
			return ProcessedDocument{}, fmt.Errorf("unmarshal validation: %w", err)
		}
		doc.Validation = &v
	}
	if reviewReason.Valid {
		doc.ReviewReason = reviewReason.String
	}
	return doc, nil
}

// AuditTrail returns audit entries for a document, oldest first.
func (r *PGRepo) AuditTrail(ctx context.Context, documentID string) ([]AuditEntry, error) {
	const query = `
SELECT log_id, document_id, action, details, performed_by, timestamp
FROM audit_log
WHERE document_id = $1
ORDER BY log_id ASC`

	rows, err := r.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		if err := rows.Scan(
			&entry.LogID,
			&entry.DocumentID,
			&entry.Action,
			&entry.Details,
			&entry.PerformedBy,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
