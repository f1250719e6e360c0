package service

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiholar/research-dao-backend/internal/events"
	"github.com/suiholar/research-dao-backend/internal/tokens/domain"
	"github.com/suiholar/research-dao-backend/internal/tokens/repository"
)

type fakeDirectory map[string]domain.ProjectRef

func (f fakeDirectory) ProjectRef(_ context.Context, id string) (*domain.ProjectRef, error) {
	ref, ok := f[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return &ref, nil
}

func newTestService(t *testing.T) (*TokenService, *events.MemoryPublisher) {
	t.Helper()
	pub := &events.MemoryPublisher{}
	dir := fakeDirectory{
		"p1": {ID: "p1", Owner: "0xowner", GovernanceTokenName: "quantum"},
		"p2": {ID: "p2", Owner: "0x2", GovernanceTokenName: "fusion"},
	}
	return NewTokenService(repository.NewMemoryLedger(), dir, pub), pub
}

func mint(t *testing.T, svc *TokenService, owner string, amount int64, typ domain.TokenType) *domain.TokenBalance {
	t.Helper()
	b, err := svc.Mint(context.Background(), domain.MintRequest{Owner: owner, Name: "quantum", Amount: amount, Type: typ, ProjectID: "p1"})
	require.NoError(t, err)
	return b
}

func TestMint_DerivesSymbol(t *testing.T) {
	svc, pub := newTestService(t)

	gov := mint(t, svc, "0xowner", 100, domain.TokenGovernance)
	art := mint(t, svc, "0xowner", 10, domain.TokenArticle)

	assert.Equal(t, "PAPERQUANTUM", gov.Symbol)
	assert.Equal(t, "QUANTUM", art.Symbol)
	assert.True(t, strings.HasPrefix(gov.ID, "GRANT_"))
	assert.Equal(t, []string{events.TopicTokensMinted, events.TopicTokensMinted}, pub.Topics())

	_, err := svc.Mint(context.Background(), domain.MintRequest{Owner: "0x1", Name: "x", Amount: -1, Type: domain.TokenArticle})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestMint_RejectsBalanceOverflow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mint(t, svc, "0xa", math.MaxInt64, domain.TokenGovernance)

	_, err := svc.Mint(ctx, domain.MintRequest{Owner: "0xa", Name: "quantum", Amount: math.MaxInt64, Type: domain.TokenGovernance})
	assert.ErrorIs(t, err, domain.ErrBalanceOverflow)

	bal, err := svc.Balance(ctx, "0xa", "quantum", domain.TokenGovernance)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), bal)

	decision, err := svc.HolderAccess(ctx, "0xa", "p1", 1)
	require.NoError(t, err)
	assert.True(t, decision.HasAccess)

	_, err = svc.Transfer(ctx, domain.TransferRequest{From: "0xa", To: "0xb", Token: "quantum", Amount: 5, Type: domain.TokenGovernance})
	require.NoError(t, err)
}

func TestTransfer_RejectsReceiverOverflow(t *testing.T) {
	svc, _ := newTestService(t)
	mint(t, svc, "0xa", 10, domain.TokenGovernance)
	mint(t, svc, "0xb", math.MaxInt64, domain.TokenGovernance)

	_, err := svc.Transfer(context.Background(), domain.TransferRequest{From: "0xa", To: "0xb", Token: "quantum", Amount: 1, Type: domain.TokenGovernance})
	assert.ErrorIs(t, err, domain.ErrBalanceOverflow)
}

func TestHolderAccess(t *testing.T) {
	svc, _ := newTestService(t)
	mint(t, svc, "0xinv", 4, domain.TokenGovernance)
	mint(t, svc, "0xinv", 6, domain.TokenGovernance)
	mint(t, svc, "0xinv", 500, domain.TokenArticle)

	got, err := svc.HolderAccess(context.Background(), "0xinv", "p1", 10)
	require.NoError(t, err)
	assert.Equal(t, domain.AccessDecision{HasAccess: true, Balance: 10, RequiredAmount: 10}, got)

	got, err = svc.HolderAccess(context.Background(), "0xinv", "p1", 11)
	require.NoError(t, err)
	assert.False(t, got.HasAccess)
	assert.Equal(t, int64(10), got.Balance)

	got, err = svc.HolderAccess(context.Background(), "0xinv", "unknown", 1)
	require.NoError(t, err)
	assert.Equal(t, domain.AccessDecision{HasAccess: false, Balance: 0, RequiredAmount: 1}, got)
}

func TestTransfer(t *testing.T) {
	svc, pub := newTestService(t)
	mint(t, svc, "0xa", 20, domain.TokenGovernance)

	res, err := svc.Transfer(context.Background(), domain.TransferRequest{From: "0xa", To: "0xb", Token: "PAPERQUANTUM", Amount: 15, Type: domain.TokenGovernance})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.TransactionHash, "LOCAL_TX_"))

	bal, err := svc.Balance(context.Background(), "0xb", "quantum", domain.TokenGovernance)
	require.NoError(t, err)
	assert.Equal(t, int64(15), bal)
	assert.Contains(t, pub.Topics(), events.TopicTokensTransferred)

	_, err = svc.Transfer(context.Background(), domain.TransferRequest{From: "0xa", To: "0xb", Token: "quantum", Amount: 6, Type: domain.TokenGovernance})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	_, err = svc.Transfer(context.Background(), domain.TransferRequest{From: "0xa", To: "0xa", Token: "quantum", Amount: 1, Type: domain.TokenGovernance})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestCheckPermission(t *testing.T) {
	svc, _ := newTestService(t)
	mint(t, svc, "0xa", 3, domain.TokenArticle)

	res, err := svc.CheckPermission(context.Background(), "0xa", []domain.AccessRequirement{
		{TokenName: "QUANTUM", MinimumAmount: 5, TokenType: domain.TokenArticle},
	})
	require.NoError(t, err)
	assert.False(t, res.HasAccess)
	require.Len(t, res.MissingTokens, 1)
	assert.Equal(t, int64(2), res.MissingTokens[0].MinimumAmount)
	assert.Len(t, res.OwnedTokens, 1)
}

func TestHoldersAndOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	mint(t, svc, "0xa", 3, domain.TokenGovernance)
	mint(t, svc, "0xb", 7, domain.TokenGovernance)

	holders, err := svc.Holders(context.Background(), "quantum", domain.TokenGovernance)
	require.NoError(t, err)
	assert.Len(t, holders, 2)

	_, err = svc.Holders(context.Background(), " ", "")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	owner, err := svc.IsProjectOwner(context.Background(), "0xowner", "p1")
	require.NoError(t, err)
	assert.True(t, owner)

	owner, err = svc.IsProjectOwner(context.Background(), "0xa", "p1")
	require.NoError(t, err)
	assert.False(t, owner)

	owner, err = svc.IsProjectOwner(context.Background(), "0XOWNER", "p1")
	require.NoError(t, err)
	assert.True(t, owner)

	owner, err = svc.IsProjectOwner(context.Background(), "0x"+strings.Repeat("0", 63)+"2", "p2")
	require.NoError(t, err)
	assert.True(t, owner)

	owner, err = svc.IsProjectOwner(context.Background(), "0xowner", "missing")
	require.NoError(t, err)
	assert.False(t, owner)
}
