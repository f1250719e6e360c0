package bootstrap

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SetGinMode switches gin to release mode outside development and test.
func SetGinMode(env string) {
	switch strings.ToLower(env) {
	case "production", "prod", "staging":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}
}
