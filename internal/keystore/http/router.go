package http

import "github.com/gin-gonic/gin"

// RegisterManageKey mounts the single-path endpoint the web frontend calls.
func (h *Handler) RegisterManageKey(rg *gin.RouterGroup) {
	rg.Any("/manage-key", h.manageKey)
}

// Register mounts the versioned routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.store)
	rg.GET("", h.release)
}
