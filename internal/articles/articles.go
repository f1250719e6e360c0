// Package articles runs the author and investor sides of the encrypted article flow:
// encrypt, upload and register on publish; release, fetch and decrypt on access.
package articles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/suiholar/research-dao-backend/internal/client"
	"github.com/suiholar/research-dao-backend/internal/cryptobox"
	"github.com/suiholar/research-dao-backend/internal/logging"
)

// EncryptedSuffix is appended to the original file name of uploaded ciphertext.
const EncryptedSuffix = ".enc"

var (
	ErrAccessDenied = errors.New("access denied")
	ErrKeyNotFound  = errors.New("key not found")
)

// KeyAPI is the part of the API client the pipelines use.
type KeyAPI interface {
	UploadBlob(ctx context.Context, filename string, r io.Reader) (string, error)
	StoreKey(ctx context.Context, blobID, rawKey, iv string) error
	ReleaseKey(ctx context.Context, blobID, investor, projectID string) (*client.ReleasedKey, error)
}

// BlobFetcher downloads blobs from a Walrus gateway.
type BlobFetcher interface {
	Fetch(ctx context.Context, blobID string) ([]byte, error)
}

// Published is the outcome of a successful Publish.
type Published struct {
	BlobID   string
	FileName string
	Size     int64
}

type Publisher struct {
	api     KeyAPI
	gateway BlobFetcher
	newKey  func() (*cryptobox.Key, error)
}

func NewPublisher(api KeyAPI, gateway BlobFetcher) *Publisher {
	return &Publisher{api: api, gateway: gateway, newKey: cryptobox.NewKey}
}

// Publish encrypts the article under a fresh key, uploads the ciphertext as
// <name>.enc and registers the key against the returned blob id.
func (p *Publisher) Publish(ctx context.Context, name string, r io.Reader) (*Published, error) {
	logger := logging.NewLogger(ctx)

	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read article: %w", err)
	}
	key, err := p.newKey()
	if err != nil {
		return nil, err
	}
	sealed, err := key.Seal(plain)
	if err != nil {
		return nil, fmt.Errorf("encrypt article: %w", err)
	}

	fileName := name + EncryptedSuffix
	blobID, err := p.api.UploadBlob(ctx, fileName, bytes.NewReader(sealed))
	if err != nil {
		return nil, fmt.Errorf("upload article: %w", err)
	}
	if err := p.api.StoreKey(ctx, blobID, key.EncodedKey(), key.EncodedIV()); err != nil {
		return nil, fmt.Errorf("register key for %s: %w", blobID, err)
	}

	logger.LogInfof("publish_article", "blob_id=%s file=%s bytes=%d", blobID, fileName, len(sealed))
	return &Published{BlobID: blobID, FileName: fileName, Size: int64(len(plain))}, nil
}

// Access releases the key for investor, downloads the blob and decrypts it.
func (p *Publisher) Access(ctx context.Context, projectID, blobID, investor string) ([]byte, error) {
	logger := logging.NewLogger(ctx)

	released, err := p.api.ReleaseKey(ctx, blobID, investor, projectID)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Status {
			case http.StatusForbidden:
				return nil, fmt.Errorf("%w: %s", ErrAccessDenied, apiErr.Message)
			case http.StatusNotFound:
				return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, apiErr.Message)
			}
		}
		return nil, err
	}

	key, err := cryptobox.ParseKey(released.AESKey, released.IV)
	if err != nil {
		return nil, err
	}
	sealed, err := p.gateway.Fetch(ctx, blobID)
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}
	plain, err := key.Open(sealed)
	if err != nil {
		return nil, err
	}

	logger.LogInfof("access_article", "blob_id=%s project_id=%s investor=%s", blobID, projectID, investor)
	return plain, nil
}
