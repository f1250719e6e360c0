// Package client is a typed HTTP client for the research DAO API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTimeout = 5 * time.Minute

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
	Details json.RawMessage
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Client talks to one API deployment.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAPIKey sends X-API-Key on mutating requests.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// UploadBlob streams r to /api/upload-walrus as the "file" part and returns the blob id.
func (c *Client) UploadBlob(ctx context.Context, filename string, r io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()
	defer pr.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload-walrus", pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		BlobID string `json:"blobId"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.BlobID == "" {
		return "", fmt.Errorf("upload response has no blobId")
	}
	return out.BlobID, nil
}

// StoreKey registers the base64 key and iv for a blob.
func (c *Client) StoreKey(ctx context.Context, blobID, rawKey, iv string) error {
	body, err := json.Marshal(map[string]string{
		"walrusBlobId": blobID,
		"rawKey":       rawKey,
		"iv":           iv,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/manage-key", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

// ReleasedKey is the key material returned to a qualifying investor.
type ReleasedKey struct {
	AESKey string `json:"aesKey"`
	IV     string `json:"iv"`
}

// ReleaseKey asks for a blob's key on behalf of investor in project.
func (c *Client) ReleaseKey(ctx context.Context, blobID, investor, projectID string) (*ReleasedKey, error) {
	q := url.Values{}
	q.Set("walrusBlobId", blobID)
	q.Set("investorAddress", investor)
	q.Set("projectId", projectID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/manage-key?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var out ReleasedKey
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.AESKey == "" || out.IV == "" {
		return nil, fmt.Errorf("invalid key/iv received from key manager")
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" && req.Method != http.MethodGet {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Error   string          `json:"error"`
		Details json.RawMessage `json:"details"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
