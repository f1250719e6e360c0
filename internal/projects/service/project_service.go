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
	"github.com/suiholar/research-dao-backend/internal/projects/domain"
	"github.com/suiholar/research-dao-backend/internal/sui"
	tokendomain "github.com/suiholar/research-dao-backend/internal/tokens/domain"
)

// FundingField is the Move field holding a project's raised MIST.
const FundingField = "current_funding"

// Repository is the project persistence the service needs.
type Repository interface {
	Create(ctx context.Context, p *domain.Project) error
	Get(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, f domain.ListFilter) ([]domain.Project, error)
	ListOnChain(ctx context.Context) ([]domain.Project, error)
	UpdateFunding(ctx context.Context, id string, mist uint64) error
}

// TokenMinter credits the initial token supplies to a new project's owner.
type TokenMinter interface {
	Mint(ctx context.Context, req tokendomain.MintRequest) (*tokendomain.TokenBalance, error)
}

// StakeChecker reports an investor's share of a project's funding goal.
type StakeChecker interface {
	Percentage(ctx context.Context, projectID, investor string) (uint64, error)
}

// ChainReader loads on-chain project objects.
type ChainReader interface {
	GetObject(ctx context.Context, objectID string) (*sui.Object, error)
}

// Stake is an investor's position in a project.
type Stake struct {
	ProjectID  string `json:"projectId"`
	Investor   string `json:"investor"`
	Percentage uint64 `json:"percentage"`
}

// SyncReport summarizes one funding sync pass.
type SyncReport struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo   Repository
	minter TokenMinter
	stakes StakeChecker
	chain  ChainReader
	events events.Publisher
	now    func() time.Time
}

type Option func(*ProjectService)

// WithChain enables Stake and SyncFunding.
func WithChain(stakes StakeChecker, chain ChainReader) Option {
	return func(s *ProjectService) {
		s.stakes = stakes
		s.chain = chain
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *ProjectService) {
		if p != nil {
			s.events = p
		}
	}
}

// NewProjectService creates a new project service
func NewProjectService(repo Repository, minter TokenMinter, opts ...Option) *ProjectService {
	s := &ProjectService{
		repo:   repo,
		minter: minter,
		events: &events.NoopPublisher{},
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create registers a project and mints its token supplies to the owner.
func (s *ProjectService) Create(ctx context.Context, req domain.CreateRequest) (*domain.Project, error) {
	logger := logging.NewLogger(ctx)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	goal, err := sui.SUIToMist(req.FundingGoal)
	if err != nil {
		return nil, &domain.ValidationError{Problem: err.Error()}
	}

	id := strings.TrimSpace(req.ChainObjectID)
	if id != "" {
		if id, err = sui.NormalizeAddress(id); err != nil {
			return nil, &domain.ValidationError{Problem: "chainObjectId: " + err.Error()}
		}
	} else {
		id = idgen.UUID()
	}

	p := &domain.Project{
		ID:                id,
		Title:             strings.TrimSpace(req.Title),
		Description:       strings.TrimSpace(req.Description),
		FundingGoalMist:   goal,
		TimelineMonths:    req.TimelineMonths,
		GovernanceToken:   req.GovernanceToken,
		ArticleToken:      req.ArticleToken,
		Image:             req.Image,
		Article:           req.Article,
		Owner:             req.Owner,
		TransactionDigest: req.TransactionDigest,
		ChainObjectID:     strings.TrimSpace(req.ChainObjectID),
	}
	if p.ChainObjectID != "" {
		p.ChainObjectID = id
	}

	if err := s.repo.Create(ctx, p); err != nil {
		logger.LogError("create_project", err)
		return nil, err
	}

	if s.minter != nil {
		if err := s.mintSupplies(ctx, p); err != nil {
			logger.LogError("create_project_mint", err)
			return nil, fmt.Errorf("mint project tokens: %w", err)
		}
	}

	logger.LogInfof("create_project", "project_id=%s owner=%s goal_mist=%d", p.ID, p.Owner, p.FundingGoalMist)
	if err := s.events.Publish(ctx, events.TopicProjectCreated, events.ProjectCreated{
		ProjectID: p.ID,
		Owner:     p.Owner,
		Title:     p.Title,
		At:        s.now().UTC(),
	}); err != nil {
		logger.LogWarnf("create_project", "publish failed: %v", err)
	}
	return p, nil
}

func (s *ProjectService) mintSupplies(ctx context.Context, p *domain.Project) error {
	grants := []tokendomain.MintRequest{
		{
			Owner:             p.Owner,
			Name:              p.GovernanceToken.Name,
			Amount:            p.GovernanceToken.Supply,
			Type:              tokendomain.TokenGovernance,
			ProjectID:         p.ID,
			ContractAddress:   p.ChainObjectID,
			TransactionDigest: p.TransactionDigest,
		},
		{
			Owner:             p.Owner,
			Name:              p.ArticleToken.Name,
			Amount:            p.ArticleToken.Supply,
			Type:              tokendomain.TokenArticle,
			ProjectID:         p.ID,
			ContractAddress:   p.ChainObjectID,
			TransactionDigest: p.TransactionDigest,
		},
	}
	for _, g := range grants {
		if _, err := s.minter.Mint(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.Get(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, f domain.ListFilter) ([]domain.Project, error) {
	return s.repo.List(ctx, f)
}

// Stake asks the chain for address's share of the project's goal.
func (s *ProjectService) Stake(ctx context.Context, id, address string) (*Stake, error) {
	if strings.TrimSpace(address) == "" {
		return nil, &domain.ValidationError{Problem: "address is required"}
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.OnChain() || s.stakes == nil {
		return nil, domain.ErrNotOnChain
	}
	pct, err := s.stakes.Percentage(ctx, p.ChainObjectID, address)
	if err != nil {
		return nil, err
	}
	return &Stake{ProjectID: p.ID, Investor: address, Percentage: pct}, nil
}

// IsOwner reports whether address created the project.
func (s *ProjectService) IsOwner(ctx context.Context, id, address string) (bool, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return sui.SameAddress(p.Owner, address), nil
}

// SyncFunding refreshes current funding for every on-chain project. A failing
// project does not stop the pass; failures are joined into the returned error.
func (s *ProjectService) SyncFunding(ctx context.Context) (SyncReport, error) {
	logger := logging.NewLogger(ctx)
	var report SyncReport
	if s.chain == nil {
		return report, domain.ErrNotOnChain
	}

	projects, err := s.repo.ListOnChain(ctx)
	if err != nil {
		return report, err
	}

	var errs []error
	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report.Checked++

		obj, err := s.chain.GetObject(ctx, p.ChainObjectID)
		if err != nil {
			report.Failed++
			errs = append(errs, fmt.Errorf("project %s: %w", p.ID, err))
			continue
		}
		funding, ok := obj.Uint64Field(FundingField)
		if !ok {
			report.Failed++
			errs = append(errs, fmt.Errorf("project %s: missing %s field", p.ID, FundingField))
			continue
		}
		if funding == p.CurrentFundingMist {
			continue
		}
		if err := s.repo.UpdateFunding(ctx, p.ID, funding); err != nil {
			report.Failed++
			errs = append(errs, fmt.Errorf("project %s: %w", p.ID, err))
			continue
		}
		report.Updated++
		if err := s.events.Publish(ctx, events.TopicFundingSynced, events.FundingSynced{
			ProjectID:   p.ID,
			FundingMist: funding,
			At:          s.now().UTC(),
		}); err != nil {
			logger.LogWarnf("sync_funding", "publish failed: %v", err)
		}
	}

	logger.LogInfof("sync_funding", "checked=%d updated=%d failed=%d", report.Checked, report.Updated, report.Failed)
	return report, errors.Join(errs...)
}

// ProjectRef adapts a project for token holder checks.
func (s *ProjectService) ProjectRef(ctx context.Context, id string) (*tokendomain.ProjectRef, error) {
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, tokendomain.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tokendomain.ProjectRef{
		ID:                  p.ID,
		Owner:               p.Owner,
		GovernanceTokenName: p.GovernanceToken.Name,
	}, nil
}
