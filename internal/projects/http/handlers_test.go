package http

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

	"github.com/suiholar/research-dao-backend/internal/projects/repository"
	"github.com/suiholar/research-dao-backend/internal/projects/service"
	"github.com/suiholar/research-dao-backend/internal/sui"
)

type stubStakes struct {
	pct uint64
	err error
}

func (s stubStakes) Percentage(context.Context, string, string) (uint64, error) {
	return s.pct, s.err
}

func setupRouter(t *testing.T, stakes service.StakeChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := service.NewProjectService(repository.NewMemoryRepo(), nil, service.WithChain(stakes, nil))
	r := gin.New()
	New(svc).Register(r.Group("/api/v1/projects"))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

func projectBody(chainID string) map[string]any {
	return map[string]any{
		"title":           "Coral reef genomics",
		"description":     "Sequencing heat-resistant corals",
		"fundingGoal":     10,
		"timeline":        18,
		"governanceToken": map[string]any{"name": "reef", "supply": 1000},
		"articleToken":    map[string]any{"name": "reefpaper", "supply": 20},
		"owner":           "0xowner",
		"chainObjectId":   chainID,
	}
}

func TestCreateAndGet(t *testing.T) {
	r := setupRouter(t, stubStakes{pct: 12})

	w, out := do(t, r, http.MethodPost, "/api/v1/projects", projectBody("0x7"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := out["project"].(map[string]any)
	id := project["id"].(string)
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000007", id)
	assert.EqualValues(t, 10, project["fundingGoal"])
	assert.EqualValues(t, 10_000_000_000, project["fundingGoalMist"])

	w, out = do(t, r, http.MethodGet, "/api/v1/projects/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Coral reef genomics", out["project"].(map[string]any)["title"])

	w, out = do(t, r, http.MethodGet, "/api/v1/projects?owner=0xowner", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["projects"], 1)

	w, out = do(t, r, http.MethodGet, "/api/v1/projects?owner=0xsomeoneelse", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["projects"], 0)

	w, _ = do(t, r, http.MethodPost, "/api/v1/projects", projectBody("0x7"))
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/projects/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreate_BadRequest(t *testing.T) {
	r := setupRouter(t, stubStakes{})

	body := projectBody("")
	delete(body, "title")
	w, out := do(t, r, http.MethodPost, "/api/v1/projects", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, out["ok"])

	body = projectBody("")
	body["fundingGoal"] = 1e10
	w, _ = do(t, r, http.MethodPost, "/api/v1/projects", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/projects?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStakeAndOwner(t *testing.T) {
	r := setupRouter(t, stubStakes{pct: 12})
	_, out := do(t, r, http.MethodPost, "/api/v1/projects", projectBody("0x9"))
	id := out["project"].(map[string]any)["id"].(string)

	w, out := do(t, r, http.MethodGet, "/api/v1/projects/"+id+"/stake?address=0xinv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 12, out["stake"].(map[string]any)["percentage"])

	w, _ = do(t, r, http.MethodGet, "/api/v1/projects/"+id+"/stake", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out = do(t, r, http.MethodGet, "/api/v1/projects/"+id+"/owner?address=0xowner", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["isOwner"])

	w, out = do(t, r, http.MethodGet, "/api/v1/projects/"+id+"/owner?address=0XOWNER", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["isOwner"])

	w, out = do(t, r, http.MethodGet, "/api/v1/projects/"+id+"/owner?address=0xinv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, out["isOwner"])
}

func TestStake_AbortAndOffChain(t *testing.T) {
	r := setupRouter(t, stubStakes{err: &sui.AbortError{Code: sui.EInvestmentExceedsLimit}})
	_, out := do(t, r, http.MethodPost, "/api/v1/projects", projectBody("0xa"))
	id := out["project"].(map[string]any)["id"].(string)

	w, out := do(t, r, http.MethodGet, "/api/v1/projects/"+id+"/stake?address=0xinv", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, sui.DescribeAbort(sui.EInvestmentExceedsLimit), out["error"])

	_, out = do(t, r, http.MethodPost, "/api/v1/projects", projectBody(""))
	offID := out["project"].(map[string]any)["id"].(string)
	w, _ = do(t, r, http.MethodGet, "/api/v1/projects/"+offID+"/stake?address=0xinv", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
