package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiholar/research-dao-backend/internal/walrus"
)

func setupRouter(relay Uploader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(relay).Register(r.Group("/api"))
	return r
}

func multipartBody(t *testing.T, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "ignored"))
	if withFile {
		fw, err := mw.CreateFormFile("file", "paper.pdf.enc")
		require.NoError(t, err)
		_, err = fw.Write([]byte("encrypted-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func post(r http.Handler, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/upload-walrus", body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestUpload_PassesRelayBlobIDThrough(t *testing.T) {
	var gotField, gotName, gotBody string
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		part, err := mr.NextPart()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotField, gotName = part.FormName(), part.FileName()
		b, _ := io.ReadAll(part)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"blobId":"M4hsZGQ1oCktdzegB6HnI6Mi28S2nqOPHxK-W7_4BUk"}`))
	}))
	defer relay.Close()

	r := setupRouter(walrus.NewRelay(relay.URL))
	body, ct := multipartBody(t, true)
	rr := post(r, body, ct)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var out map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "M4hsZGQ1oCktdzegB6HnI6Mi28S2nqOPHxK-W7_4BUk", out["blobId"])
	assert.Equal(t, "file", gotField)
	assert.Equal(t, "paper.pdf.enc", gotName)
	assert.Equal(t, "encrypted-bytes", gotBody)
}

func TestUpload_RelayErrorStatusPassthrough(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"reason":"storage nodes unavailable"}`))
	}))
	defer relay.Close()

	r := setupRouter(walrus.NewRelay(relay.URL))
	body, ct := multipartBody(t, true)
	rr := post(r, body, ct)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	var out struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, msgUploadFailed, out.Error)
	assert.Equal(t, "storage nodes unavailable", out.Details["reason"])
}

func TestUpload_RelayUnreachable(t *testing.T) {
	relay := httptest.NewServer(http.NotFoundHandler())
	url := relay.URL
	relay.Close()

	r := setupRouter(walrus.NewRelay(url))
	body, ct := multipartBody(t, true)
	rr := post(r, body, ct)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestUpload_NoFilePart(t *testing.T) {
	r := setupRouter(walrus.NewRelay("http://unused.invalid"))
	body, ct := multipartBody(t, false)
	rr := post(r, body, ct)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpload_NotMultipart(t *testing.T) {
	r := setupRouter(walrus.NewRelay("http://unused.invalid"))
	rr := post(r, bytes.NewBufferString(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpload_MethodNotAllowed(t *testing.T) {
	r := setupRouter(walrus.NewRelay("http://unused.invalid"))
	req := httptest.NewRequest(http.MethodGet, "/api/upload-walrus", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST", rr.Header().Get("Allow"))
}
