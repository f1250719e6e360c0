package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suiholar/research-dao-backend/internal/events"
	"github.com/suiholar/research-dao-backend/internal/keystore/domain"
	"github.com/suiholar/research-dao-backend/internal/keystore/repository"
	"github.com/suiholar/research-dao-backend/internal/logging"
)

// InvestmentChecker reports an investor's share of a project's funding goal, in percent.
type InvestmentChecker interface {
	Percentage(ctx context.Context, projectID, investor string) (uint64, error)
}

// KeyService gates decryption keys behind on-chain investment.
type KeyService struct {
	repo      repository.Repository
	checker   InvestmentChecker
	events    events.Publisher
	threshold uint64
	now       func() time.Time
}

type Option func(*KeyService)

// WithThreshold overrides the minimum percentage required to release a key.
func WithThreshold(pct uint64) Option {
	return func(s *KeyService) { s.threshold = pct }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *KeyService) {
		if p != nil {
			s.events = p
		}
	}
}

func NewKeyService(repo repository.Repository, checker InvestmentChecker, opts ...Option) *KeyService {
	s := &KeyService{
		repo:      repo,
		checker:   checker,
		events:    &events.NoopPublisher{},
		threshold: domain.DefaultMinPercentage,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Threshold returns the minimum percentage this service releases keys at.
func (s *KeyService) Threshold() uint64 {
	return s.threshold
}

// Store registers (or replaces) the key for a blob.
func (s *KeyService) Store(ctx context.Context, req domain.StoreRequest) error {
	logger := logging.NewLogger(ctx)
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.repo.Put(ctx, req.BlobID, domain.KeyRecord{AESKey: req.RawKey, IV: req.IV}); err != nil {
		logger.LogError("store_key", err)
		return fmt.Errorf("store key: %w", err)
	}

	logger.LogInfof("store_key", "blob_id=%s", req.BlobID)
	s.publish(ctx, events.TopicKeyStored, events.KeyStored{BlobID: req.BlobID, At: s.now().UTC()})
	return nil
}

// Release returns the key for a blob when the investor's on-chain percentage meets the
// threshold. The investment check runs before the key lookup, so an unqualified caller
// cannot learn which blobs have keys.
func (s *KeyService) Release(ctx context.Context, req domain.ReleaseRequest) (*domain.KeyRecord, domain.Decision, error) {
	logger := logging.NewLogger(ctx)
	decision := domain.Decision{Threshold: s.threshold}

	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, decision, err
	}

	pct, err := s.checker.Percentage(ctx, req.ProjectID, req.InvestorAddress)
	if err != nil {
		logger.LogErrorf("release_key", "blob_id=%s project_id=%s investor=%s error=%v", req.BlobID, req.ProjectID, req.InvestorAddress, err)
		return nil, decision, fmt.Errorf("check investment: %w", err)
	}
	decision.Percentage = pct

	access := events.KeyAccess{
		BlobID:     req.BlobID,
		ProjectID:  req.ProjectID,
		Investor:   req.InvestorAddress,
		Percentage: pct,
		At:         s.now().UTC(),
	}

	if pct < s.threshold {
		logger.LogWarnf("release_key", "denied blob_id=%s investor=%s percentage=%d threshold=%d", req.BlobID, req.InvestorAddress, pct, s.threshold)
		s.publish(ctx, events.TopicKeyDenied, access)
		return nil, decision, domain.ErrAccessDenied
	}
	decision.Granted = true

	rec, err := s.repo.Get(ctx, req.BlobID)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			logger.LogError("release_key", err)
		}
		return nil, decision, err
	}

	logger.LogInfof("release_key", "released blob_id=%s investor=%s percentage=%d", req.BlobID, req.InvestorAddress, pct)
	s.publish(ctx, events.TopicKeyReleased, access)
	return rec, decision, nil
}

func (s *KeyService) publish(ctx context.Context, topic string, event any) {
	if err := s.events.Publish(ctx, topic, event); err != nil {
		logging.NewLogger(ctx).LogWarnf("publish_event", "topic=%s error=%v", topic, err)
	}
}
