package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suiholar/research-dao-backend/internal/projects/domain"
)

// ErrDuplicate is returned when a project id is already registered.
var ErrDuplicate = errors.New("project already exists")

const projectColumns = `
id, title, description, funding_goal_mist, timeline_months,
governance_token, governance_supply, article_token, article_supply,
image, article, owner, current_funding_mist, transaction_digest, chain_object_id,
created_at, updated_at`

// Repo persists projects in PostgreSQL through pgx.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p             domain.Project
		goal, funding int64
		articleJSON   []byte
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &goal, &p.TimelineMonths,
		&p.GovernanceToken.Name, &p.GovernanceToken.Supply, &p.ArticleToken.Name, &p.ArticleToken.Supply,
		&p.Image, &articleJSON, &p.Owner, &funding, &p.TransactionDigest, &p.ChainObjectID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.FundingGoalMist = uint64(goal)
	p.CurrentFundingMist = uint64(funding)
	if len(articleJSON) > 0 && string(articleJSON) != "null" {
		var a domain.ArticleRef
		if err := json.Unmarshal(articleJSON, &a); err != nil {
			return nil, fmt.Errorf("decode article: %w", err)
		}
		p.Article = &a
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, p *domain.Project) error {
	if p.FundingGoalMist > domain.MaxStoredMist || p.CurrentFundingMist > domain.MaxStoredMist {
		return fmt.Errorf("%w: funding out of range", domain.ErrInvalidInput)
	}
	var articleJSON []byte
	if p.Article != nil {
		b, err := json.Marshal(p.Article)
		if err != nil {
			return fmt.Errorf("encode article: %w", err)
		}
		articleJSON = b
	}

	q := `
insert into projects (
  id, title, description, funding_goal_mist, timeline_months,
  governance_token, governance_supply, article_token, article_supply,
  image, article, owner, current_funding_mist, transaction_digest, chain_object_id
)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13, $14, $15)
returning created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q,
		p.ID, p.Title, p.Description, int64(p.FundingGoalMist), p.TimelineMonths,
		p.GovernanceToken.Name, p.GovernanceToken.Supply, p.ArticleToken.Name, p.ArticleToken.Supply,
		p.Image, articleJSON, p.Owner, int64(p.CurrentFundingMist), p.TransactionDigest, p.ChainObjectID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		// unique violation on id
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", ErrDuplicate, p.ID)
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*domain.Project, error) {
	q := `select ` + projectColumns + ` from projects where id = $1;`
	p, err := scanProject(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Project, error) {
	// LIMIT NULL means no limit
	var limit any
	if f.Limit > 0 {
		limit = f.Limit
	}
	q := `
select ` + projectColumns + `
from projects
where ($1 = '' or owner = $1)
order by created_at desc
limit $2;
`
	return r.query(ctx, q, f.Owner, limit)
}

func (r *Repo) ListOnChain(ctx context.Context) ([]domain.Project, error) {
	q := `
select ` + projectColumns + `
from projects
where chain_object_id <> ''
order by created_at;
`
	return r.query(ctx, q)
}

func (r *Repo) UpdateFunding(ctx context.Context, id string, mist uint64) error {
	if mist > domain.MaxStoredMist {
		return fmt.Errorf("%w: funding %d out of range", domain.ErrInvalidInput, mist)
	}
	const q = `
update projects
set current_funding_mist = $2, updated_at = now()
where id = $1;
`
	ct, err := r.db.Exec(ctx, q, id, int64(mist))
	if err != nil {
		return fmt.Errorf("update funding: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) query(ctx context.Context, q string, args ...any) ([]domain.Project, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
