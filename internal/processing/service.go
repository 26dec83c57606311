package processing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strings"
	"time"

	"bankdocs-backend/internal/aml"
	"bankdocs-backend/internal/cheques"
	"bankdocs-backend/internal/documents"
	"bankdocs-backend/internal/fields"
	"bankdocs-backend/internal/invoices"
	"bankdocs-backend/internal/kyc"
	"bankdocs-backend/internal/layout"
	"bankdocs-backend/internal/queue"
	"bankdocs-backend/internal/shared/metrics"
	"bankdocs-backend/internal/shared/storage/object"
	"bankdocs-backend/internal/shared/util"
)

// Upload validation failures. Everything else that goes wrong inside the
// pipeline is folded into a failed result instead of an error.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// ErrAsyncUnavailable is returned by Submit when no object store or queue is
// wired.
var ErrAsyncUnavailable = errors.New("async processing not configured")

// Classifier decides the document type when the caller does not declare one.
type Classifier interface {
	Classify(ctx context.Context, fileBytes []byte, filename string) (documents.DocumentType, float64, string)
}

// Config carries the per-deployment pipeline knobs.
type Config struct {
	ConfidenceThreshold float64
	MaxFileSizeMB       int
	AllowedExtensions   []string
}

// Service runs the document pipeline: validate, classify, extract, assemble,
// gate on confidence, validate compliance, persist.
type Service struct {
	Classifier Classifier
	Layout     layout.Client
	Invoices   *invoices.Processor
	Cheques    *cheques.Processor
	KYC        *kyc.Processor
	Validator  *aml.Validator
	Repo       documents.Repo
	Cfg        Config

	// Store and Queue are optional. When both are set, Submit offers an
	// asynchronous path: original bytes land in the store and a worker picks
	// the job up from the queue.
	Store object.ObjectStore
	Queue queue.Client

	clock func() time.Time
}

// NewService wires a Service with default invoice and cheque processors.
func NewService(classifier Classifier, layoutClient layout.Client, kycProc *kyc.Processor, validator *aml.Validator, repo documents.Repo, cfg Config) *Service {
	return &Service{
		Classifier: classifier,
		Layout:     layoutClient,
		Invoices:   invoices.NewProcessor(),
		Cheques:    cheques.NewProcessor(nil),
		KYC:        kycProc,
		Validator:  validator,
		Repo:       repo,
		Cfg:        cfg,
		clock:      time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return time.Now()
}

// Process runs one document through the full pipeline. The returned error is
// non-nil only for upload validation failures (bad extension, oversized
// file); any failure past that point yields a failed ProcessedDocument so a
// batch sibling can still complete.
func (s *Service) Process(ctx context.Context, filename string, fileBytes []byte, declaredType string) (documents.ProcessedDocument, error) {
	return s.processAs(ctx, documents.NewDocumentID(), filename, fileBytes, declaredType)
}

func (s *Service) processAs(ctx context.Context, docID, filename string, fileBytes []byte, declaredType string) (documents.ProcessedDocument, error) {
	start := s.now()

	if err := s.validateUpload(filename, fileBytes); err != nil {
		return documents.ProcessedDocument{}, err
	}

	metrics.IncDocumentStarted()

	doc, err := s.run(ctx, start, docID, filename, fileBytes, declaredType)
	if err != nil {
		log.Printf("processing failed document_id=%s err=%v", docID, err)
		metrics.IncDocumentFailed()
		elapsed := roundMillis(s.now().Sub(start))
		metrics.ObserveProcessingDurationMs(elapsed)
		return documents.ProcessedDocument{
			DocumentID:               docID,
			Status:                   documents.StatusFailed,
			DocumentType:             documents.TypeUnknown,
			ClassificationConfidence: 0,
			ProcessingTimeMS:         elapsed,
			NeedsHumanReview:         true,
			ReviewReason:             fmt.Sprintf("Processing error: %v", err),
			CreatedAt:                s.now().UTC(),
		}, nil
	}

	metrics.IncDocumentCompleted()
	if doc.NeedsHumanReview {
		metrics.IncDocumentNeedsReview()
	}
	metrics.ObserveProcessingDurationMs(doc.ProcessingTimeMS)
	return doc, nil
}

func (s *Service) validateUpload(filename string, fileBytes []byte) error {
	if !util.ValidExtension(filename, s.Cfg.AllowedExtensions) {
		return fmt.Errorf("%w. Allowed: %s", ErrUnsupportedFileType, strings.Join(s.Cfg.AllowedExtensions, ", "))
	}
	if size := util.FileSizeMB(fileBytes); size > float64(s.Cfg.MaxFileSizeMB) {
		return fmt.Errorf("%w (%.1fMB). Max: %dMB", ErrFileTooLarge, size, s.Cfg.MaxFileSizeMB)
	}
	return nil
}

// Submit stores the upload and enqueues it for a worker instead of
// processing inline. The returned ID can be polled via Get once the worker
// finishes.
func (s *Service) Submit(ctx context.Context, filename string, fileBytes []byte, declaredType, requestID string) (string, error) {
	if s.Store == nil || s.Queue == nil {
		return "", ErrAsyncUnavailable
	}
	if err := s.validateUpload(filename, fileBytes); err != nil {
		return "", err
	}

	docID := documents.NewDocumentID()
	key, size, mimeType, err := s.Store.Save(ctx, docID, filename, bytes.NewReader(fileBytes))
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	log.Printf("document stored document_id=%s key=%s size=%d mime=%s", docID, key, size, mimeType)

	msg := queue.Message{
		DocumentID:   docID,
		StorageKey:   key,
		Filename:     filename,
		DocumentType: strings.TrimSpace(declaredType),
		RequestID:    requestID,
		EnqueuedAt:   s.now().UTC().Format(time.RFC3339),
		Version:      1,
	}
	if err := s.Queue.Send(ctx, msg); err != nil {
		return "", fmt.Errorf("enqueue document: %w", err)
	}

	log.Printf("document enqueued document_id=%s request_id=%s", docID, requestID)
	return docID, nil
}

// ProcessFromQueue handles one queued submission: it reloads the stored
// bytes and runs the pipeline under the document ID minted at submit time.
// The returned error is non-nil only when the stored object cannot be read,
// which is worth a redelivery; pipeline failures persist as failed results.
func (s *Service) ProcessFromQueue(ctx context.Context, msg queue.Message) error {
	if s.Store == nil {
		return errors.New("object store not configured")
	}

	rc, err := s.Store.Open(ctx, msg.StorageKey)
	if err != nil {
		return fmt.Errorf("open stored object %s: %w", msg.StorageKey, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("read stored object %s: %w", msg.StorageKey, err)
	}

	if _, err := s.processAs(ctx, msg.DocumentID, msg.Filename, data, msg.DocumentType); err != nil {
		return err
	}
	return nil
}

func (s *Service) run(ctx context.Context, start time.Time, docID, filename string, fileBytes []byte, declaredType string) (documents.ProcessedDocument, error) {
	fileHash := util.FileHash(fileBytes)
	log.Printf("processing document document_id=%s filename=%s size_mb=%.2f hash=%s", docID, filename, util.FileSizeMB(fileBytes), fileHash[:12])

	var (
		docType                  documents.DocumentType
		classificationConfidence float64
	)
	if strings.TrimSpace(declaredType) != "" {
		docType = documents.ParseDocumentType(declaredType)
		if docType == documents.TypeUnknown && !strings.EqualFold(strings.TrimSpace(declaredType), string(documents.TypeUnknown)) {
			return documents.ProcessedDocument{}, fmt.Errorf("invalid document type %q", declaredType)
		}
		classificationConfidence = 1.0
	} else {
		var reasoning string
		docType, classificationConfidence, reasoning = s.Classifier.Classify(ctx, fileBytes, filename)
		log.Printf("classified document_id=%s type=%s confidence=%.2f reasoning=%q", docID, docType, classificationConfidence, reasoning)
	}

	raw := s.analyze(ctx, docID, fileBytes, filename, docType)
	extracted := layout.ToFields(raw)

	var extractionResult json.RawMessage
	switch docType {
	case documents.TypeInvoice:
		result := s.Invoices.Process(extracted, raw)
		extractionResult = marshalResult(result)
	case documents.TypeCheque:
		result := s.Cheques.Process(extracted, raw)
		extracted = append(extracted, result.Fields()...)
		extractionResult = marshalResult(result)
	case documents.TypeKYCForm:
		result, err := s.KYC.Process(ctx, extracted)
		if err != nil {
			return documents.ProcessedDocument{}, err
		}
		extracted = append(extracted, result.Fields()...)
		extractionResult = marshalResult(result)
	}

	confidenceOK, lowFields := fields.CheckConfidence(extracted, s.Cfg.ConfidenceThreshold)

	var validation *aml.Result
	if docType == documents.TypeKYCForm || docType == documents.TypeIDCard {
		v := s.Validator.ValidateKYC(extracted, string(docType))
		validation = &v
	}

	needsReview := false
	reviewReason := ""
	switch {
	case !confidenceOK:
		needsReview = true
		reviewReason = "Low confidence fields: " + strings.Join(lowFields, ", ")
	case validation != nil && validation.Status != aml.StatusPassed:
		needsReview = true
		reviewReason = "Validation: " + validation.Recommendation
	}

	pages := 1
	if len(raw.Pages) > 0 {
		pages = len(raw.Pages)
	}

	doc := documents.ProcessedDocument{
		DocumentID:               docID,
		Status:                   documents.StatusCompleted,
		DocumentType:             docType,
		ClassificationConfidence: classificationConfidence,
		ExtractedFields:          extracted,
		ExtractionResult:         extractionResult,
		Validation:               validation,
		ProcessingTimeMS:         roundMillis(s.now().Sub(start)),
		PagesProcessed:           pages,
		NeedsHumanReview:         needsReview,
		ReviewReason:             reviewReason,
		FileHash:                 fileHash,
		ProcessedBy:              "system",
		CreatedAt:                s.now().UTC(),
	}

	if err := s.Repo.Save(ctx, doc); err != nil {
		return documents.ProcessedDocument{}, fmt.Errorf("save result: %w", err)
	}
	s.archiveResult(ctx, doc)

	log.Printf("document processed document_id=%s type=%s duration_ms=%.0f review=%t", docID, docType, doc.ProcessingTimeMS, needsReview)
	return doc, nil
}

// archiveResult writes a JSON copy of the result next to the original bytes
// for compliance retention. Best effort; the database row is authoritative.
func (s *Service) archiveResult(ctx context.Context, doc documents.ProcessedDocument) {
	if s.Store == nil {
		return
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return
	}
	key := doc.DocumentID + "/result.json"
	if _, err := s.Store.SaveWithKey(ctx, key, "application/json", bytes.NewReader(data)); err != nil {
		log.Printf("result archive failed document_id=%s err=%v", doc.DocumentID, err)
	}
}

// analyze calls the layout service and degrades instead of failing: a PDF
// falls back to plain text extraction, anything else proceeds with zero
// extracted fields.
func (s *Service) analyze(ctx context.Context, docID string, fileBytes []byte, filename string, docType documents.DocumentType) *layout.Result {
	raw, err := s.Layout.Analyze(ctx, fileBytes, layout.ModelFor(string(docType)))
	if err == nil && raw != nil {
		return raw
	}
	if err != nil {
		log.Printf("layout analysis failed document_id=%s err=%v", docID, err)
	}
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		fallback, ferr := layout.PDFFallback(fileBytes)
		if ferr == nil {
			log.Printf("pdf text fallback used document_id=%s pages=%d", docID, len(fallback.Pages))
			return fallback
		}
		log.Printf("pdf text fallback failed document_id=%s err=%v", docID, ferr)
	}
	return &layout.Result{}
}

// ProcessBatch runs the pipeline over each item independently. A failed item
// never aborts its siblings.
func (s *Service) ProcessBatch(ctx context.Context, items []BatchItem, declaredType string) BatchResult {
	start := s.now()
	out := BatchResult{
		BatchID:        documents.NewBatchID(),
		TotalDocuments: len(items),
		Results:        make([]documents.ProcessedDocument, 0, len(items)),
	}

	for _, item := range items {
		doc, err := s.Process(ctx, item.Filename, item.Data, declaredType)
		if err != nil {
			out.FailureCount++
			log.Printf("batch item rejected batch_id=%s filename=%s err=%v", out.BatchID, item.Filename, err)
			continue
		}
		out.Results = append(out.Results, doc)
		if doc.Status == documents.StatusCompleted {
			out.SuccessCount++
		}
		if doc.NeedsHumanReview {
			out.ReviewCount++
		}
	}

	out.TotalProcessingTimeMS = roundMillis(s.now().Sub(start))
	return out
}

// Get returns a previously processed document.
func (s *Service) Get(ctx context.Context, documentID string) (documents.ProcessedDocument, error) {
	return s.Repo.Get(ctx, documentID)
}

// AuditTrail returns the audit entries for a document, oldest first.
func (s *Service) AuditTrail(ctx context.Context, documentID string) ([]documents.AuditEntry, error) {
	return s.Repo.AuditTrail(ctx, documentID)
}

// Revalidate re-runs the compliance suite over a document's stored fields.
func (s *Service) Revalidate(ctx context.Context, documentID string) (aml.Result, error) {
	doc, err := s.Repo.Get(ctx, documentID)
	if err != nil {
		return aml.Result{}, err
	}
	return s.Validator.ValidateKYC(doc.ExtractedFields, string(doc.DocumentType)), nil
}

func marshalResult(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("extraction result marshal failed err=%v", err)
		return nil
	}
	return data
}

func roundMillis(d time.Duration) float64 {
	ms := float64(d.Microseconds()) / 1000.0
	return math.Round(ms*100) / 100
}
