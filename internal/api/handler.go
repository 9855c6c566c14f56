package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/a3tai/proof-comments/internal/pdf"
	"github.com/a3tai/proof-comments/internal/proof"
	"github.com/a3tai/proof-comments/internal/report"
)

const (
	// RunIDHeader carries the run identifier of a generated workbook
	RunIDHeader = "X-Run-ID"

	// maxUploadFiles and multipartOverhead size the request body limit
	maxUploadFiles    = 20
	multipartOverhead = 64 << 10

	noFilesMessage    = "Please upload at least one PDF file."
	decodeFailMessage = "One of the uploaded files could not be read as a PDF. No report was generated."
	tooLargeMessage   = "Upload too large. No report was generated."
)

// Handler handles API requests
type Handler struct {
	service         *pdf.Service
	logger          *slog.Logger
	maxRequestBytes int64 // 0 means unlimited
}

// NewHandler creates a new handler
func NewHandler(service *pdf.Service, logger *slog.Logger) *Handler {
	var maxRequestBytes int64
	if maxFile := service.GetMaxFileSize(); maxFile > 0 {
		maxRequestBytes = maxFile*maxUploadFiles + multipartOverhead
	}
	return &Handler{
		service:         service,
		logger:          logger,
		maxRequestBytes: maxRequestBytes,
	}
}

// HealthCheck provides a simple health check endpoint
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"decoder":   string(h.service.LibraryType()),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// ExtractComments turns the uploaded proofs into comments.xlsx. Files are
// processed in the order they were sent.
func (h *Handler) ExtractComments(c *gin.Context) {
	if h.maxRequestBytes > 0 {
		if c.Request.ContentLength > h.maxRequestBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": tooLargeMessage})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxRequestBytes)
	}

	var headers []*multipart.FileHeader
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": tooLargeMessage})
			return
		}
	} else {
		headers = form.File["files"]
	}

	uploadDate := strings.TrimSpace(c.PostForm("upload_date"))
	if uploadDate != "" {
		if err := proof.ValidateDate(uploadDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	h.logger.Info("extract.selection", "selection", proof.SelectionSummary(len(headers)))
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": noFilesMessage})
		return
	}

	// declared sizes are checked before any upload is read into memory
	for _, fh := range headers {
		if err := h.service.ValidateUpload(fh.Filename, fh.Size); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}

	sources := make([]proof.Source, 0, len(headers))
	for _, fh := range headers {
		src, err := readUpload(fh)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("could not read upload %s", fh.Filename)})
			return
		}
		sources = append(sources, src)
	}

	result, data, err := h.service.ExtractUploads(c.Request.Context(), uploadDate, sources)
	if err != nil {
		_ = c.Error(err)
		var validationErr *pdf.ValidationError
		var decodeErr *proof.DecodeError
		switch {
		case errors.Is(err, proof.ErrNoFiles):
			c.JSON(http.StatusBadRequest, gin.H{"error": noFilesMessage})
		case errors.As(err, &validationErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": validationErr.Error()})
		case errors.As(err, &decodeErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": decodeFailMessage})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Header(RunIDHeader, result.RunID)
	c.Data(http.StatusOK, report.ContentType, data)
}

// FilenameRequest is the body of POST /api/filename
type FilenameRequest struct {
	Name string `json:"name" binding:"required"`
}

// ParseFilename returns the metadata derived from a proof filename
func (h *Handler) ParseFilename(c *gin.Context) {
	var req FilenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	c.JSON(http.StatusOK, proof.ParseFilename(req.Name))
}

func readUpload(fh *multipart.FileHeader) (proof.Source, error) {
	f, err := fh.Open()
	if err != nil {
		return proof.Source{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return proof.Source{}, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return proof.Source{Name: fh.Filename, Data: data}, nil
}
