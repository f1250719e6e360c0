package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/suiholar/research-dao-backend/internal/api/http"
	"github.com/suiholar/research-dao-backend/internal/api/http/middleware"
	keyhttp "github.com/suiholar/research-dao-backend/internal/keystore/http"
	projecthttp "github.com/suiholar/research-dao-backend/internal/projects/http"
	tokenhttp "github.com/suiholar/research-dao-backend/internal/tokens/http"
	uploadhttp "github.com/suiholar/research-dao-backend/internal/upload/http"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	APIKey         string
	App            *App
}

// RouterDepsFromApp fills the deps from the loaded config.
func RouterDepsFromApp(app *App) RouterDeps {
	cfg := app.Config
	return RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		APIKey:         cfg.Server.APIKey,
		App:            app,
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-API-Key", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))
	r.Use(middleware.RequestIDMiddleware())

	app := dep.App
	var db, cache httpapi.Pinger
	if app.DB != nil {
		db = app.DB
	}
	if app.Redis != nil {
		cache = RedisPinger{Client: app.Redis}
	}
	httpapi.NewHealthHandler(dep.ServiceName, dep.Version, db, cache).RegisterRoutes(r)

	api := r.Group("/api")
	api.Use(middleware.APIKeyMiddleware(dep.APIKey))

	keys := keyhttp.New(app.Keys, app.Investments != nil)
	keys.RegisterManageKey(api)
	uploadhttp.New(app.Relay).Register(api)

	v1 := api.Group("/v1")
	keys.Register(v1.Group("/keys"))
	tokenhttp.New(app.Tokens).Register(v1)
	projecthttp.New(app.Projects).Register(v1.Group("/projects"))

	return r
}
