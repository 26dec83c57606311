package documents

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"bankdocs-backend/internal/aml"
	"bankdocs-backend/internal/fields"
)

func TestPGRepoSaveWritesDocumentAndAudit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	doc := ProcessedDocument{
		DocumentID:               "DOC-ABC123DEF456",
		Status:                   StatusCompleted,
		DocumentType:             TypeKYCForm,
		ClassificationConfidence: 0.93,
		ExtractedFields: []fields.ExtractedField{
			fields.New("customer_name", "Ahmed Ali", 0.85),
		},
		Validation: &aml.Result{
			Status:         aml.StatusPassed,
			Recommendation: "APPROVED - All compliance checks passed.",
		},
		ProcessingTimeMS: 1200.5,
		PagesProcessed:   2,
		FileHash:         "deadbeef",
		CreatedAt:        time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO processed_documents").
		WithArgs(
			doc.DocumentID,
			"kyc_form",
			"completed",
			doc.ClassificationConfidence,
			sqlmock.AnyArg(), // extracted_data
			nil,              // extraction_result
			sqlmock.AnyArg(), // validation_result
			doc.ProcessingTimeMS,
			doc.PagesProcessed,
			false,
			nil,
			doc.FileHash,
			"system",
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(
			doc.DocumentID,
			"DOCUMENT_PROCESSED",
			"Type: kyc_form, Status: completed",
			"system",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM processed_documents").
		WithArgs("DOC-MISSING00000").
		WillReturnRows(sqlmock.NewRows([]string{"document_id"}))

	_, err = repo.Get(context.Background(), "DOC-MISSING00000")
	if err != ErrNotFound {
		t.Fatalf("Get err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoGetRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	extracted, _ := json.Marshal([]fields.ExtractedField{
		fields.New("customer_name", "Ahmed Ali", 0.85),
	})
	validation, _ := json.Marshal(aml.Result{Status: aml.StatusPassed})
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"document_id", "document_type", "status", "classification_confidence",
		"extracted_data", "extraction_result", "validation_result",
		"processing_time_ms", "pages_processed", "needs_human_review",
		"review_reason", "file_hash", "processed_by", "created_at",
	}).AddRow(
		"DOC-ABC123DEF456", "kyc_form", "completed", 0.93,
		string(extracted), nil, string(validation),
		1200.5, 2, true,
		"Validation: REVIEW", "deadbeef", "system", created,
	)
	mock.ExpectQuery("SELECT (.+) FROM processed_documents").
		WithArgs("DOC-ABC123DEF456").
		WillReturnRows(rows)

	doc, err := repo.Get(context.Background(), "DOC-ABC123DEF456")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.DocumentType != TypeKYCForm || doc.Status != StatusCompleted {
		t.Errorf("doc = %+v", doc)
	}
	if len(doc.ExtractedFields) != 1 || doc.ExtractedFields[0].FieldName != "customer_name" {
		t.Errorf("extracted_fields = %+v", doc.ExtractedFields)
	}
	if doc.Validation == nil || doc.Validation.Status != aml.StatusPassed {
		t.Errorf("validation = %+v", doc.Validation)
	}
	if !doc.NeedsHumanReview || doc.ReviewReason != "Validation: REVIEW" {
		t.Errorf("review = %v %q", doc.NeedsHumanReview, doc.ReviewReason)
	}
}
