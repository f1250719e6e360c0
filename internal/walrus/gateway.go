package walrus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/suiholar/research-dao-backend/internal/logging"
	"github.com/suiholar/research-dao-backend/internal/metrics"
)

// ErrBlobNotFound is returned when the gateway has no blob under the id.
var ErrBlobNotFound = errors.New("walrus blob not found")

// Gateway reads blobs from an aggregator/gateway.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
}

func NewGateway(baseURL string) *Gateway {
	if baseURL == "" {
		baseURL = DefaultGatewayURL
	}
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// BlobURL returns the public URL of a blob.
func (g *Gateway) BlobURL(blobID string) string {
	return g.baseURL + "/" + url.PathEscape(blobID)
}

// Fetch downloads the full blob.
func (g *Gateway) Fetch(ctx context.Context, blobID string) ([]byte, error) {
	logger := logging.NewLogger(ctx)
	start := time.Now()

	data, err := g.fetch(ctx, blobID)
	metrics.RecordUpstreamCall(metrics.UpstreamWalrusGateway, time.Since(start), err)
	if err != nil {
		logger.LogErrorf("walrus_fetch", "blob_id=%s error=%v", blobID, err)
		return nil, err
	}
	logger.LogInfof("walrus_fetch", "blob_id=%s bytes=%d", blobID, len(data))
	return data, nil
}

func (g *Gateway) fetch(ctx context.Context, blobID string) ([]byte, error) {
	if strings.TrimSpace(blobID) == "" {
		return nil, fmt.Errorf("blob id required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BlobURL(blobID), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, blobID)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}
