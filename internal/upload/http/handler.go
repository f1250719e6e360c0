package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suiholar/research-dao-backend/internal/logging"
	"github.com/suiholar/research-dao-backend/internal/walrus"
)

const (
	msgUploadFailed = "Failed to upload file to Walrus Relay."
	msgNoFile       = "Request must be multipart/form-data with a file part."
)

// Uploader forwards one file stream to blob storage.
type Uploader interface {
	Upload(ctx context.Context, field, filename, contentType string, r io.Reader) (string, error)
}

// Handler proxies multipart uploads to the Walrus relay without buffering them.
type Handler struct {
	relay Uploader
}

func New(relay Uploader) *Handler {
	return &Handler{relay: relay}
}

// Register mounts POST /upload-walrus; other methods get 405 with an Allow header.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.Any("/upload-walrus", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Allow", "POST")
		c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	logger := logging.NewLogger(c.Request.Context())

	mr, err := c.Request.MultipartReader()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoFile, "details": err.Error()})
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgNoFile, "details": err.Error()})
			return
		}
		if part.FileName() == "" {
			_ = part.Close()
			continue
		}

		contentType := part.Header.Get("Content-Type")
		blobID, err := h.relay.Upload(c.Request.Context(), part.FormName(), part.FileName(), contentType, part)
		_ = part.Close()
		if err != nil {
			h.writeRelayError(c, err)
			return
		}

		logger.LogInfof("upload_walrus", "field=%s filename=%s blob_id=%s", part.FormName(), part.FileName(), blobID)
		c.JSON(http.StatusOK, gin.H{"blobId": blobID})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": msgNoFile})
}

func (h *Handler) writeRelayError(c *gin.Context, err error) {
	var relayErr *walrus.RelayError
	if !errors.As(err, &relayErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgUploadFailed, "details": err.Error()})
		return
	}

	// Relay bodies are usually JSON; pass them through structured when they are.
	var details any = relayErr.Body
	var parsed any
	if json.Unmarshal([]byte(relayErr.Body), &parsed) == nil {
		details = parsed
	}

	status := relayErr.Status
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": msgUploadFailed, "details": details})
}
