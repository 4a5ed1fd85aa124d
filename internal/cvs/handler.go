package cvs

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cv-backend/internal/shared/server/respond"
	"cv-backend/internal/uploads"
)

const defaultMaxUploadBytes = 10 << 20 // 10MB

// Stager stages one multipart file for the duration of a request.
type Stager interface {
	Receive(ctx context.Context, fh *multipart.FileHeader) (*uploads.Document, error)
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	Uploads  Stager
	MaxBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, stager Stager, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, Uploads: stager, MaxBytes: maxBytes}
}

// RegisterRoutes attaches CV routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/upload", h.upload)
	rg.GET("/cvs", h.list)
}

func (h *Handler) upload(c *gin.Context) {
	c.Set("strategy", h.Svc.Strategy)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "no_file", ErrNoFile.Error(), nil)
		return
	}

	doc, err := h.Uploads.Receive(c.Request.Context(), fileHeader)
	if err != nil {
		if errors.Is(err, ErrNoFile) {
			respond.Error(c, http.StatusBadRequest, "no_file", ErrNoFile.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "upload_failed", "unable to stage upload", nil)
		return
	}
	defer func() { _ = doc.Release(c.Request.Context()) }()
	c.Set("fileName", doc.FileName)

	data, err := doc.Bytes(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "upload_failed", "unable to read upload", nil)
		return
	}

	rec, err := h.Svc.Process(c.Request.Context(), Upload{
		FileName: doc.FileName,
		MimeType: doc.MimeType,
		Data:     data,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnreadableDocument):
			respond.Error(c, http.StatusInternalServerError, "unreadable_document", err.Error(), nil)
		case errors.Is(err, ErrServiceUnavailable):
			respond.Error(c, http.StatusInternalServerError, "extraction_unavailable", err.Error(), nil)
		case errors.Is(err, ErrMalformedServiceReply):
			respond.Error(c, http.StatusInternalServerError, "malformed_service_reply", err.Error(), nil)
		case errors.Is(err, ErrExtraction):
			respond.Error(c, http.StatusInternalServerError, "extraction_failed", err.Error(), nil)
		case errors.Is(err, ErrStorage):
			respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to store CV", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process upload", nil)
		}
		return
	}

	c.Set("cvId", rec.ID)
	respond.OK(c, rec)
}

func (h *Handler) list(c *gin.Context) {
	records, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to list CVs", nil)
		return
	}
	respond.OK(c, records)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
