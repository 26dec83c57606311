package processing

import "bankdocs-backend/internal/documents"

// BatchItem is one upload inside a batch request.
type BatchItem struct {
	Filename string
	Data     []byte
}

// BatchResult summarizes a batch run. Results holds the per-document
// outcomes for every item that entered the pipeline; items rejected before
// the pipeline (bad extension, oversized) only count toward FailureCount.
type BatchResult struct {
	BatchID               string                        `json:"batch_id"`
	TotalDocuments        int                           `json:"total_documents"`
	Results               []documents.ProcessedDocument `json:"results"`
	TotalProcessingTimeMS float64                       `json:"total_processing_time_ms"`
	SuccessCount          int                           `json:"success_count"`
	FailureCount          int                           `json:"failure_count"`
	ReviewCount           int                           `json:"review_count"`
}
