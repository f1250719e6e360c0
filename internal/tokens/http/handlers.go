package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/suiholar/research-dao-backend/internal/tokens/domain"
	"github.com/suiholar/research-dao-backend/internal/tokens/service"
)

type Handler struct {
	svc *service.TokenService
}

func New(svc *service.TokenService) *Handler {
	return &Handler{svc: svc}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidTokenType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrBalanceOverflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrProjectNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
}

func (h *Handler) balances(c *gin.Context) {
	address := c.Param("address")
	typ, err := domain.ParseTokenType(c.Query("type"))
	if err != nil {
		fail(c, err)
		return
	}

	items, err := h.svc.Balances(c.Request.Context(), address)
	if err != nil {
		fail(c, err)
		return
	}

	resp := gin.H{"ok": true, "address": address, "balances": toBalanceViews(items)}
	if token := strings.TrimSpace(c.Query("token")); token != "" {
		sum := domain.SumBalance(items, token, typ)
		resp["token"] = token
		resp["balance"] = sum
		resp["formattedBalance"] = domain.FormatAmount(sum)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) mint(c *gin.Context) {
	var req domain.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	b, err := h.svc.Mint(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "token": b})
}

func (h *Handler) transfer(c *gin.Context) {
	var req domain.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "success": false, "error": "invalid body"})
		return
	}

	res, err := h.svc.Transfer(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "success": true, "transactionHash": res.TransactionHash})
}

func (h *Handler) holders(c *gin.Context) {
	typ, err := domain.ParseTokenType(c.Query("type"))
	if err != nil {
		fail(c, err)
		return
	}

	items, err := h.svc.Holders(c.Request.Context(), c.Query("token"), typ)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "holders": items})
}

func (h *Handler) checkAccess(c *gin.Context) {
	var req accessCheckReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Address) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res, err := h.svc.CheckPermission(c.Request.Context(), req.Address, req.Requirements)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// projectAccess is the governance-token holder check for one project.
func (h *Handler) projectAccess(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "address is required"})
		return
	}

	minimum := int64(1)
	if raw := c.Query("minimum"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "minimum must be a non-negative integer"})
			return
		}
		minimum = v
	}

	res, err := h.svc.HolderAccess(c.Request.Context(), address, c.Param("id"), minimum)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
