package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiholar/research-dao-backend/internal/idgen"
	"github.com/suiholar/research-dao-backend/internal/projects/domain"
	"github.com/suiholar/research-dao-backend/internal/storage/postgres"
)

// newIntegrationRepo connects to TEST_DB_DSN, applies migrations and returns a pgx-backed repo.
func newIntegrationRepo(t *testing.T) *Repo {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, postgres.Migrate(sqlDB))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewRepo(pool)
}

func TestRepo_Integration(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	owner := "0x" + idgen.UUID()
	p := &domain.Project{
		ID:              idgen.UUID(),
		Title:           "Integration",
		FundingGoalMist: 5_000_000_000,
		TimelineMonths:  6,
		GovernanceToken: domain.TokenConfig{Name: "gov", Supply: 100},
		ArticleToken:    domain.TokenConfig{Name: "art", Supply: 10},
		Article:         &domain.ArticleRef{BlobID: "blob-1", Title: "Paper", MinimumTokens: 1},
		Owner:           owner,
		ChainObjectID:   "0x" + idgen.UUID(),
	}
	require.NoError(t, repo.Create(ctx, p))
	assert.False(t, p.CreatedAt.IsZero())
	assert.ErrorIs(t, repo.Create(ctx, p), ErrDuplicate)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.FundingGoalMist, got.FundingGoalMist)
	require.NotNil(t, got.Article)
	assert.Equal(t, "blob-1", got.Article.BlobID)

	list, err := repo.List(ctx, domain.ListFilter{Owner: owner})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.UpdateFunding(ctx, p.ID, 1_000))
	got, err = repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), got.CurrentFundingMist)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
