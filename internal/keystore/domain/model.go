package domain

import (
	"errors"
	"strings"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrAccessDenied  = errors.New("access denied")
	ErrKeyNotFound   = errors.New("decryption key not found")
)

// KeyRecord is the symmetric key material for one encrypted blob. Both values are
// opaque to the service; clients send base64.
type KeyRecord struct {
	AESKey string `json:"aesKey"`
	IV     string `json:"iv"`
}

// StoreRequest registers key material for a Walrus blob.
type StoreRequest struct {
	BlobID string `json:"walrusBlobId"`
	RawKey string `json:"rawKey"`
	IV     string `json:"iv"`
}

// Normalized trims the blob id the same way ReleaseRequest.Normalized does, so a key is
// stored under the id it will be released by.
func (r StoreRequest) Normalized() StoreRequest {
	r.BlobID = strings.TrimSpace(r.BlobID)
	return r
}

func (r StoreRequest) Validate() error {
	if strings.TrimSpace(r.BlobID) == "" || r.RawKey == "" || r.IV == "" {
		return ErrMissingFields
	}
	return nil
}

// ReleaseRequest asks for a blob's key on behalf of an investor in a project.
type ReleaseRequest struct {
	BlobID          string `form:"walrusBlobId"`
	InvestorAddress string `form:"investorAddress"`
	ProjectID       string `form:"projectId"`
}

func (r ReleaseRequest) Normalized() ReleaseRequest {
	r.BlobID = strings.TrimSpace(r.BlobID)
	r.InvestorAddress = strings.TrimSpace(r.InvestorAddress)
	r.ProjectID = strings.TrimSpace(r.ProjectID)
	return r
}

func (r ReleaseRequest) Validate() error {
	if strings.TrimSpace(r.BlobID) == "" || strings.TrimSpace(r.InvestorAddress) == "" || strings.TrimSpace(r.ProjectID) == "" {
		return ErrMissingFields
	}
	return nil
}

// Decision records the outcome of an access check.
type Decision struct {
	Percentage uint64
	Threshold  uint64
	Granted    bool
}

// DefaultMinPercentage is the share of the funding goal an investor needs to read the article.
const DefaultMinPercentage uint64 = 10
