package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiholar/research-dao-backend/config"
	"github.com/suiholar/research-dao-backend/internal/ledgerexport"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: "0", AllowedOrigins: []string{"*"}, APIKey: "k"},
		Sui:      config.SuiConfig{Network: "localnet"},
		Walrus:   config.WalrusConfig{RelayURL: "http://127.0.0.1:1/v1/blobs", GatewayURL: "http://127.0.0.1:1/blobs"},
		KeyStore: config.KeyStoreConfig{Backend: "memory"},
		Access:   config.AccessConfig{MinPercentage: 10},
		App:      config.AppConfig{ServiceName: "suiholar-api", Version: "test"},
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := New(context.Background(), memoryConfig())
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return BuildRouter(RouterDepsFromApp(app))
}

func send(r http.Handler, method, path, apiKey string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t)
	w := send(r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "disabled", body["db"])
	assert.Equal(t, "disabled", body["redis"])
}

func TestRouter_ManageKeyWithoutPackage(t *testing.T) {
	r := newTestRouter(t)

	w := send(r, http.MethodPost, "/api/manage-key", "k", map[string]string{"walrusBlobId": "b", "rawKey": "k", "iv": "i"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "NEXT_PUBLIC_SUI_PACKAGE_ID environment variable is not set.")

	w = send(r, http.MethodPost, "/api/manage-key", "", map[string]string{"walrusBlobId": "b", "rawKey": "k", "iv": "i"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ProjectCreationMintsTokens(t *testing.T) {
	r := newTestRouter(t)

	w := send(r, http.MethodPost, "/api/v1/projects", "k", map[string]any{
		"title":           "Soil microbiome",
		"fundingGoal":     25,
		"timeline":        9,
		"governanceToken": map[string]any{"name": "soil", "supply": 500},
		"articleToken":    map[string]any{"name": "soilpaper", "supply": 5},
		"owner":           "0xauthor",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Project struct {
			ID string `json:"id"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = send(r, http.MethodGet, "/api/v1/tokens/0xauthor", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PAPERSOIL")
	assert.Contains(t, w.Body.String(), "SOILPAPER")

	w = send(r, http.MethodGet, "/api/v1/projects/"+created.Project.ID+"/access?address=0xauthor&minimum=100", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hasAccess":true`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/manage-key", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestApp_LocalExporter(t *testing.T) {
	app, err := New(context.Background(), memoryConfig())
	require.NoError(t, err)
	defer app.Close()
	assert.Nil(t, app.Exporter)
	assert.Nil(t, app.Investments)

	dir := t.TempDir()
	done, err := app.LocalExporter(ledgerexport.DirDestination{Root: dir}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, done.Records)
	assert.FileExists(t, done.Location)
}
