package repository

import (
	"context"

	"github.com/suiholar/research-dao-backend/internal/keystore/domain"
)

// Repository persists key records by blob id.
type Repository interface {
	Get(ctx context.Context, blobID string) (*domain.KeyRecord, error)
	Put(ctx context.Context, blobID string, rec domain.KeyRecord) error
	Delete(ctx context.Context, blobID string) error
}
