package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiholar/research-dao-backend/internal/metrics"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serveHealth(t *testing.T, h *HealthHandler, path string) HealthResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck_Disabled(t *testing.T) {
	metrics.Reset()
	t.Cleanup(metrics.Reset)
	metrics.RecordUpstreamCall(metrics.UpstreamSui, time.Millisecond, nil)

	resp := serveHealth(t, NewHealthHandler("suiholar-api", "1.2.3", nil, nil), "/health")
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "suiholar-api", resp.Service)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "disabled", resp.DB)
	assert.Equal(t, "disabled", resp.Redis)
	require.Len(t, resp.Upstreams, 1)
	assert.Equal(t, metrics.UpstreamSui, resp.Upstreams[0].Upstream)
}

func TestHealthCheck_Degraded(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("refused") })

	resp := serveHealth(t, NewHealthHandler("svc", "v", up, down), "/healthz")
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "up", resp.DB)
	assert.Equal(t, "down", resp.Redis)
}
