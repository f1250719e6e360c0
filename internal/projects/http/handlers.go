package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/suiholar/research-dao-backend/internal/projects/domain"
	"github.com/suiholar/research-dao-backend/internal/projects/repository"
	"github.com/suiholar/research-dao-backend/internal/sui"
)

func statusFor(err error) int {
	var abort *sui.AbortError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotOnChain):
		return http.StatusUnprocessableEntity
	case errors.As(err, &abort):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) create(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": toView(*p)})
}

func (h *Handler) list(c *gin.Context) {
	f := domain.ListFilter{Owner: strings.TrimSpace(c.Query("owner"))}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid limit"})
			return
		}
		f.Limit = n
	}

	items, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	views := make([]projectView, 0, len(items))
	for _, p := range items {
		views = append(views, toView(p))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": views})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": toView(*p)})
}

func (h *Handler) stake(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "address query parameter is required"})
		return
	}

	st, err := h.svc.Stake(c.Request.Context(), c.Param("id"), address)
	if err != nil {
		body := gin.H{"ok": false, "error": err.Error()}
		var abort *sui.AbortError
		if errors.As(err, &abort) {
			body["error"] = sui.DescribeAbort(abort.Code)
		}
		c.JSON(statusFor(err), body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stake": st})
}

func (h *Handler) owner(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "address query parameter is required"})
		return
	}

	isOwner, err := h.svc.IsOwner(c.Request.Context(), c.Param("id"), address)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "isOwner": isOwner})
}
