package processing

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"bankdocs-backend/internal/documents"
	"bankdocs-backend/internal/shared/server/middleware"
	"bankdocs-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the processing service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document processing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/process", h.processDocument)
	rg.POST("/documents/submit", h.submitDocument)
	rg.POST("/documents/batch", h.processBatch)
	rg.GET("/documents/:id", h.getDocument)
	rg.GET("/documents/:id/audit", h.getAuditTrail)
	rg.GET("/documents/:id/validate", h.revalidateDocument)
}

func (h *Handler) processDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	data, err := readUpload(fileHeader)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read upload", nil)
		return
	}

	doc, err := h.Svc.Process(c.Request.Context(), fileHeader.Filename, data, c.PostForm("document_type"))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedFileType), errors.Is(err, ErrFileTooLarge):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process document", nil)
		}
		return
	}

	c.Set("documentId", doc.DocumentID)
	c.Set("documentType", string(doc.DocumentType))
	respond.JSON(c, http.StatusOK, doc)
}

func (h *Handler) submitDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	data, err := readUpload(fileHeader)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read upload", nil)
		return
	}

	requestID := middleware.RequestIDFromContext(c)
	docID, err := h.Svc.Submit(c.Request.Context(), fileHeader.Filename, data, c.PostForm("document_type"), requestID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAsyncUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, "not_configured", "async processing not configured", nil)
		case errors.Is(err, ErrUnsupportedFileType), errors.Is(err, ErrFileTooLarge):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit document", nil)
		}
		return
	}

	c.Set("documentId", docID)
	respond.JSON(c, http.StatusAccepted, gin.H{
		"document_id": docID,
		"status":      documents.StatusPending,
	})
}

func (h *Handler) processBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart form", nil)
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one file is required", nil)
		return
	}

	items := make([]BatchItem, 0, len(files))
	for _, fileHeader := range files {
		data, err := readUpload(fileHeader)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read upload", nil)
			return
		}
		items = append(items, BatchItem{Filename: fileHeader.Filename, Data: data})
	}

	result := h.Svc.ProcessBatch(c.Request.Context(), items, c.PostForm("document_type"))
	c.Set("batchId", result.BatchID)
	respond.JSON(c, http.StatusOK, result)
}

func (h *Handler) getDocument(c *gin.Context) {
	documentID := c.Param("id")
	if documentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
		return
	}

	doc, err := h.Svc.Get(c.Request.Context(), documentID)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
		}
		return
	}

	c.Set("documentId", doc.DocumentID)
	c.Set("documentType", string(doc.DocumentType))
	respond.JSON(c, http.StatusOK, doc)
}

func (h *Handler) getAuditTrail(c *gin.Context) {
	documentID := c.Param("id")
	if documentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
		return
	}

	entries, err := h.Svc.AuditTrail(c.Request.Context(), documentID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch audit trail", nil)
		return
	}

	c.Set("documentId", documentID)
	respond.JSON(c, http.StatusOK, gin.H{
		"document_id": documentID,
		"entries":     entries,
	})
}

func (h *Handler) revalidateDocument(c *gin.Context) {
	documentID := c.Param("id")
	if documentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
		return
	}

	result, err := h.Svc.Revalidate(c.Request.Context(), documentID)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to validate document", nil)
		}
		return
	}

	c.Set("documentId", documentID)
	respond.JSON(c, http.StatusOK, result)
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
