package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suiholar/research-dao-backend/internal/keystore/domain"
	"github.com/suiholar/research-dao-backend/internal/keystore/service"
)

const (
	msgPackageNotSet  = "NEXT_PUBLIC_SUI_PACKAGE_ID environment variable is not set."
	msgStoreFields    = "Request body must contain walrusBlobId, rawKey, and iv."
	msgStored         = "Key stored successfully."
	msgStoreFailed    = "Failed to store key."
	msgReleaseFields  = "Query parameters must include walrusBlobId, investorAddress, and projectId."
	msgKeyNotFound    = "Key not found for the given walrusBlobId."
	msgCheckFailed    = "Internal server error while checking authorization."
	msgDeniedTemplate = "Access Denied: A minimum funding of %d%% is required to view the article."
)

// Handler serves key registration and gated key release.
type Handler struct {
	svc        *service.KeyService
	configured bool
}

// New creates the handler. configured is false when no Sui package id is set; every
// request then fails with 500 since no access decision can be made.
func New(svc *service.KeyService, configured bool) *Handler {
	return &Handler{svc: svc, configured: configured}
}

// manageKey dispatches on method for the single-path /manage-key endpoint.
func (h *Handler) manageKey(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodPost:
		h.store(c)
	case http.MethodGet:
		h.release(c)
	default:
		if !h.requireConfigured(c) {
			return
		}
		c.Header("Allow", "POST, GET")
		c.String(http.StatusMethodNotAllowed, "Method %s Not Allowed", c.Request.Method)
	}
}

func (h *Handler) requireConfigured(c *gin.Context) bool {
	if !h.configured {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgPackageNotSet})
		return false
	}
	return true
}

func (h *Handler) store(c *gin.Context) {
	if !h.requireConfigured(c) {
		return
	}

	var req domain.StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgStoreFields})
		return
	}

	if err := h.svc.Store(c.Request.Context(), req); err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgStoreFields})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgStoreFailed, "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgStored})
}

func (h *Handler) release(c *gin.Context) {
	if !h.requireConfigured(c) {
		return
	}

	req := domain.ReleaseRequest{
		BlobID:          c.Query("walrusBlobId"),
		InvestorAddress: c.Query("investorAddress"),
		ProjectID:       c.Query("projectId"),
	}

	rec, _, err := h.svc.Release(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, rec)
	case errors.Is(err, domain.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgReleaseFields})
	case errors.Is(err, domain.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf(msgDeniedTemplate, h.svc.Threshold())})
	case errors.Is(err, domain.ErrKeyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgKeyNotFound})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgCheckFailed, "details": err.Error()})
	}
}
