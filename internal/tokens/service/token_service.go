package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/suiholar/research-dao-backend/internal/events"
	"github.com/suiholar/research-dao-backend/internal/idgen"
	"github.com/suiholar/research-dao-backend/internal/logging"
	"github.com/suiholar/research-dao-backend/internal/sui"
	"github.com/suiholar/research-dao-backend/internal/tokens/domain"
	"github.com/suiholar/research-dao-backend/internal/tokens/repository"
)

// Ledger is the persistence the token service needs.
type Ledger interface {
	ListByOwner(ctx context.Context, owner string) ([]domain.TokenBalance, error)
	ListByToken(ctx context.Context, token string, typ domain.TokenType) ([]domain.TokenBalance, error)
	Insert(ctx context.Context, b *domain.TokenBalance) error
	Transfer(ctx context.Context, p repository.TransferParams) error
}

// ProjectDirectory resolves projects for holder and ownership checks.
type ProjectDirectory interface {
	ProjectRef(ctx context.Context, projectID string) (*domain.ProjectRef, error)
}

type TokenService struct {
	ledger   Ledger
	projects ProjectDirectory
	events   events.Publisher
	now      func() time.Time
}

func NewTokenService(ledger Ledger, projects ProjectDirectory, pub events.Publisher) *TokenService {
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	return &TokenService{
		ledger:   ledger,
		projects: projects,
		events:   pub,
		now:      time.Now,
	}
}

// SetProjectDirectory wires the project lookup after construction; the project service
// itself depends on this service for minting.
func (s *TokenService) SetProjectDirectory(p ProjectDirectory) {
	s.projects = p
}

// Balances returns every record owned by address.
func (s *TokenService) Balances(ctx context.Context, address string) ([]domain.TokenBalance, error) {
	if strings.TrimSpace(address) == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.ledger.ListByOwner(ctx, address)
}

// Balance sums address's records of token, optionally restricted to one type.
func (s *TokenService) Balance(ctx context.Context, address, token string, typ domain.TokenType) (int64, error) {
	balances, err := s.Balances(ctx, address)
	if err != nil {
		return 0, err
	}
	return domain.SumBalance(balances, token, typ), nil
}

// Mint appends a new balance record.
func (s *TokenService) Mint(ctx context.Context, req domain.MintRequest) (*domain.TokenBalance, error) {
	logger := logging.NewLogger(ctx)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureRoom(ctx, req.Owner, req.Name, req.Type, req.Amount); err != nil {
		return nil, err
	}

	id, err := idgen.WithPrefix(idgen.PrefixGrant)
	if err != nil {
		return nil, err
	}
	symbol := req.Symbol
	if symbol == "" {
		if req.Type == domain.TokenGovernance {
			symbol = domain.GovernanceSymbol(req.Name)
		} else {
			symbol = domain.ArticleSymbol(req.Name)
		}
	}

	b := &domain.TokenBalance{
		ID:                id,
		Name:              req.Name,
		Symbol:            symbol,
		Amount:            req.Amount,
		Type:              req.Type,
		Owner:             req.Owner,
		ProjectID:         req.ProjectID,
		ContractAddress:   req.ContractAddress,
		TransactionDigest: req.TransactionDigest,
		CreatedAt:         s.now().UTC(),
	}
	if err := s.ledger.Insert(ctx, b); err != nil {
		logger.LogError("mint_tokens", err)
		return nil, err
	}

	logger.LogInfof("mint_tokens", "owner=%s symbol=%s amount=%d", b.Owner, b.Symbol, b.Amount)
	s.publish(ctx, events.TopicTokensMinted, events.TokensMinted{
		Owner:     b.Owner,
		Symbol:    b.Symbol,
		Amount:    b.Amount,
		ProjectID: b.ProjectID,
		At:        b.CreatedAt,
	})
	return b, nil
}

// HolderAccess checks whether address holds at least minimum of the project's
// governance token. An unknown project yields no access with a zero balance.
func (s *TokenService) HolderAccess(ctx context.Context, address, projectID string, minimum int64) (domain.AccessDecision, error) {
	denied := domain.AccessDecision{HasAccess: false, Balance: 0, RequiredAmount: minimum}

	ref, err := s.lookup(ctx, projectID)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return denied, nil
	}
	if err != nil {
		return denied, err
	}

	balances, err := s.Balances(ctx, address)
	if err != nil {
		return denied, err
	}
	return domain.Evaluate(balances, ref.GovernanceTokenName, domain.TokenGovernance, minimum), nil
}

// CheckPermission evaluates a list of requirements against address's balances.
func (s *TokenService) CheckPermission(ctx context.Context, address string, reqs []domain.AccessRequirement) (domain.PermissionResult, error) {
	balances, err := s.Balances(ctx, address)
	if err != nil {
		return domain.PermissionResult{}, err
	}
	return domain.CheckRequirements(balances, reqs), nil
}

// Transfer moves tokens between addresses and returns a local transaction hash.
func (s *TokenService) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	logger := logging.NewLogger(ctx)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureRoom(ctx, req.To, req.Token, req.Type, req.Amount); err != nil {
		return nil, err
	}

	digest, err := idgen.WithPrefix(idgen.PrefixLocalTx)
	if err != nil {
		return nil, err
	}
	recordID, err := idgen.WithPrefix(idgen.PrefixTransfer)
	if err != nil {
		return nil, err
	}

	at := s.now().UTC()
	err = s.ledger.Transfer(ctx, repository.TransferParams{
		Request:     req,
		NewRecordID: recordID,
		Digest:      digest,
		At:          at,
	})
	if err != nil {
		logger.LogErrorf("transfer_tokens", "from=%s to=%s token=%s amount=%d error=%v", req.From, req.To, req.Token, req.Amount, err)
		return nil, err
	}

	logger.LogInfof("transfer_tokens", "from=%s to=%s token=%s amount=%d tx=%s", req.From, req.To, req.Token, req.Amount, digest)
	s.publish(ctx, events.TopicTokensTransferred, events.TokensTransferred{
		From:   req.From,
		To:     req.To,
		Token:  req.Token,
		Amount: req.Amount,
		Digest: digest,
		At:     at,
	})
	return &domain.TransferResult{TransactionHash: digest}, nil
}

// Holders lists every positive record of token.
func (s *TokenService) Holders(ctx context.Context, token string, typ domain.TokenType) ([]domain.Holder, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrInvalidRequest
	}
	records, err := s.ledger.ListByToken(ctx, token, typ)
	if err != nil {
		return nil, err
	}
	return domain.Holders(records, token, typ), nil
}

// IsProjectOwner reports whether address created the project.
func (s *TokenService) IsProjectOwner(ctx context.Context, address, projectID string) (bool, error) {
	ref, err := s.lookup(ctx, projectID)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sui.SameAddress(ref.Owner, address), nil
}

// ensureRoom rejects a credit that would push owner's total of token past math.MaxInt64.
func (s *TokenService) ensureRoom(ctx context.Context, owner, token string, typ domain.TokenType, amount int64) error {
	held, err := s.Balance(ctx, owner, token, typ)
	if err != nil {
		return err
	}
	if _, ok := domain.AddAmounts(held, amount); !ok {
		return fmt.Errorf("%w: %s holds %d %s", domain.ErrBalanceOverflow, owner, held, token)
	}
	return nil
}

func (s *TokenService) lookup(ctx context.Context, projectID string) (*domain.ProjectRef, error) {
	if s.projects == nil {
		return nil, fmt.Errorf("%w: no project directory", domain.ErrProjectNotFound)
	}
	return s.projects.ProjectRef(ctx, projectID)
}

func (s *TokenService) publish(ctx context.Context, topic string, event any) {
	if err := s.events.Publish(ctx, topic, event); err != nil {
		logging.NewLogger(ctx).LogWarnf("publish_event", "topic=%s error=%v", topic, err)
	}
}
