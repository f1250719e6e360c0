package walrus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/suiholar/research-dao-backend/internal/logging"
	"github.com/suiholar/research-dao-backend/internal/metrics"
)

const (
	DefaultRelayURL   = "https://upload-relay.testnet.walrus.space/v1/blobs"
	DefaultGatewayURL = "https://gateway.walrus.xyz/blobs"

	// UploadTimeout bounds a single relay upload including the body stream.
	UploadTimeout = 5 * time.Minute
)

// RelayError carries a non-2xx relay response back to the caller.
type RelayError struct {
	Status int
	Body   string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("walrus relay returned status %d: %s", e.Status, e.Body)
}

// Relay forwards blobs to a Walrus upload relay.
type Relay struct {
	url        string
	httpClient *http.Client
}

// NewRelay creates a relay client for the given endpoint
func NewRelay(url string) *Relay {
	if url == "" {
		url = DefaultRelayURL
	}
	return &Relay{
		url:        url,
		httpClient: &http.Client{Timeout: UploadTimeout},
	}
}

// URL returns the relay endpoint.
func (r *Relay) URL() string {
	return r.url
}

// relayResponse covers the flat and the nested shapes of a relay store response.
type relayResponse struct {
	BlobID       string `json:"blobId"`
	NewlyCreated *struct {
		BlobObject struct {
			BlobID string `json:"blobId"`
		} `json:"blobObject"`
	} `json:"newlyCreated"`
	AlreadyCertified *struct {
		BlobID string `json:"blobId"`
	} `json:"alreadyCertified"`
}

func (r relayResponse) blobID() string {
	switch {
	case r.BlobID != "":
		return r.BlobID
	case r.NewlyCreated != nil && r.NewlyCreated.BlobObject.BlobID != "":
		return r.NewlyCreated.BlobObject.BlobID
	case r.AlreadyCertified != nil:
		return r.AlreadyCertified.BlobID
	}
	return ""
}

// Upload streams body to the relay as a single multipart file part and returns the
// blob id exactly as the relay reported it.
func (r *Relay) Upload(ctx context.Context, field, filename, contentType string, body io.Reader) (string, error) {
	logger := logging.NewLogger(ctx)
	start := time.Now()

	blobID, err := r.upload(ctx, field, filename, contentType, body)
	metrics.RecordUpstreamCall(metrics.UpstreamWalrusRelay, time.Since(start), err)
	if err != nil {
		logger.LogErrorf("walrus_upload", "filename=%s error=%v", filename, err)
		return "", err
	}
	logger.LogInfof("walrus_upload", "filename=%s blob_id=%s duration=%s", filename, blobID, time.Since(start))
	return blobID, nil
}

func (r *Relay) upload(ctx context.Context, field, filename, contentType string, body io.Reader) (string, error) {
	if field == "" {
		field = "file"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	// The writer goroutine reads from body; it must be done before we return so the
	// caller can safely close or reuse body.
	done := make(chan struct{})
	defer func() {
		pr.Close()
		<-done
	}()

	go func() {
		defer close(done)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", multipart.FileContentDisposition(field, filename))
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, body); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, pr)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read relay response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &RelayError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var out relayResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode relay response: %w", err)
	}
	id := out.blobID()
	if id == "" {
		return "", fmt.Errorf("relay response has no blobId: %s", string(respBody))
	}
	return id, nil
}
