package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/suiholar/research-dao-backend/internal/tokens/domain"
)

// MemoryLedger is the ledger used when no database is configured.
type MemoryLedger struct {
	mu      sync.Mutex
	records []domain.TokenBalance
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (m *MemoryLedger) ListByOwner(_ context.Context, owner string) ([]domain.TokenBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.TokenBalance, 0)
	for _, r := range m.records {
		if r.Owner == owner {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryLedger) ListByToken(_ context.Context, token string, typ domain.TokenType) ([]domain.TokenBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.TokenBalance, 0)
	for _, r := range m.records {
		if r.Matches(token, typ) && r.Amount > 0 {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryLedger) ListAll(_ context.Context) ([]domain.TokenBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.TokenBalance, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *MemoryLedger) Insert(_ context.Context, b *domain.TokenBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == b.ID {
			return fmt.Errorf("balance %s already exists", b.ID)
		}
	}
	m.records = append(m.records, *b)
	sort.SliceStable(m.records, func(i, j int) bool {
		return m.records[i].CreatedAt.Before(m.records[j].CreatedAt)
	})
	return nil
}

// Transfer applies the same debit/credit rules as LedgerRepository.Transfer under a
// single lock.
func (m *MemoryLedger) Transfer(_ context.Context, p TransferParams) error {
	req := p.Request
	m.mu.Lock()
	defer m.mu.Unlock()

	var senderIdx []int
	var total int64
	for i, r := range m.records {
		if r.Owner == req.From && r.Matches(req.Token, req.Type) {
			senderIdx = append(senderIdx, i)
			total += r.Amount
		}
	}
	if total < req.Amount {
		return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientBalance, total, req.Amount)
	}
	tmpl := m.records[senderIdx[0]]

	remaining := req.Amount
	for _, i := range senderIdx {
		if remaining == 0 {
			break
		}
		take := m.records[i].Amount
		if take > remaining {
			take = remaining
		}
		if take <= 0 {
			continue
		}
		m.records[i].Amount -= take
		remaining -= take
	}

	kept := m.records[:0]
	for _, r := range m.records {
		if r.Owner == req.From && r.Matches(req.Token, req.Type) && r.Amount <= 0 {
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept

	for i, r := range m.records {
		if r.Owner == req.To && r.Matches(req.Token, req.Type) {
			m.records[i].Amount += req.Amount
			return nil
		}
	}

	m.records = append(m.records, domain.TokenBalance{
		ID:                p.NewRecordID,
		Name:              tmpl.Name,
		Symbol:            tmpl.Symbol,
		Amount:            req.Amount,
		Type:              tmpl.Type,
		Owner:             req.To,
		ProjectID:         tmpl.ProjectID,
		ContractAddress:   tmpl.ContractAddress,
		TransactionDigest: p.Digest,
		CreatedAt:         p.At,
	})
	return nil
}
