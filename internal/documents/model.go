package documents

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"bankdocs-backend/internal/aml"
	"bankdocs-backend/internal/fields"
)

// DocumentType is a supported banking document category.
type DocumentType string

const (
	TypeInvoice       DocumentType = "invoice"
	TypeCheque        DocumentType = "cheque"
	TypeIDCard        DocumentType = "id_card"
	TypeKYCForm       DocumentType = "kyc_form"
	TypeTradeFinance  DocumentType = "trade_finance"
	TypeReceipt       DocumentType = "receipt"
	TypeBankStatement DocumentType = "bank_statement"
	TypeUnknown       DocumentType = "unknown"
)

// ParseDocumentType maps a string to a known DocumentType, falling back to
// TypeUnknown.
func ParseDocumentType(s string) DocumentType {
	switch DocumentType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeInvoice:
		return TypeInvoice
	case TypeCheque:
		return TypeCheque
	case TypeIDCard:
		return TypeIDCard
	case TypeKYCForm:
		return TypeKYCForm
	case TypeTradeFinance:
		return TypeTradeFinance
	case TypeReceipt:
		return TypeReceipt
	case TypeBankStatement:
		return TypeBankStatement
	default:
		return TypeUnknown
	}
}

// ProcessingStatus tracks a document through the pipeline.
type ProcessingStatus string

const (
	StatusPending     ProcessingStatus = "pending"
	StatusClassifying ProcessingStatus = "classifying"
	StatusExtracting  ProcessingStatus = "extracting"
	StatusValidating  ProcessingStatus = "validating"
	StatusCompleted   ProcessingStatus = "completed"
	StatusFailed      ProcessingStatus = "failed"
	StatusNeedsReview ProcessingStatus = "needs_review"
)

// ProcessedDocument is the persisted outcome of one pipeline run.
type ProcessedDocument struct {
	DocumentID               string                  `json:"document_id"`
	Status                   ProcessingStatus        `json:"status"`
	DocumentType             DocumentType            `json:"document_type"`
	ClassificationConfidence float64                 `json:"classification_confidence"`
	ExtractedFields          []fields.ExtractedField `json:"extracted_fields"`
	ExtractionResult         json.RawMessage         `json:"extraction_result,omitempty"`
	Validation               *aml.Result             `json:"validation,omitempty"`
	ProcessingTimeMS         float64                 `json:"processing_time_ms"`
	PagesProcessed           int                     `json:"pages_processed"`
	NeedsHumanReview         bool                    `json:"needs_human_review"`
	ReviewReason             string                  `json:"review_reason,omitempty"`
	FileHash                 string                  `json:"file_hash,omitempty"`
	ProcessedBy              string                  `json:"processed_by,omitempty"`
	CreatedAt                time.Time               `json:"created_at"`
}

// AuditEntry is one row of the compliance audit trail.
type AuditEntry struct {
	LogID       int64     `json:"log_id"`
	DocumentID  string    `json:"document_id"`
	Action      string    `json:"action"`
	Details     string    `json:"details"`
	PerformedBy string    `json:"performed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewDocumentID generates a document processing ID of the form
// DOC-3F2A9C1B04D7.
func NewDocumentID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "DOC-" + strings.ToUpper(hex[:12])
}

// NewBatchID generates a batch ID. The DOC infix is kept for continuity
// with existing audit records.
func NewBatchID() string {
	return "BATCH-" + NewDocumentID()
}
