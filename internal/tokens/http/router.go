package http

import "github.com/gin-gonic/gin"

// Register attaches token and access routes to the /api/v1 group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	tokens := rg.Group("/tokens")
	tokens.GET("/holders", h.holders)
	tokens.POST("/mint", h.mint)
	tokens.POST("/transfer", h.transfer)
	tokens.GET("/:address", h.balances)

	rg.POST("/access/check", h.checkAccess)
	rg.GET("/projects/:id/access", h.projectAccess)
}
