package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/suiholar/research-dao-backend/internal/tokens/domain"
)

const balanceColumns = `id, owner, name, symbol, amount, token_type, project_id, contract_address, transaction_digest, created_at`

// LedgerRepository stores token balance records in PostgreSQL.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBalance(s rowScanner) (domain.TokenBalance, error) {
	var b domain.TokenBalance
	var typ string
	err := s.Scan(
		&b.ID,
		&b.Owner,
		&b.Name,
		&b.Symbol,
		&b.Amount,
		&typ,
		&b.ProjectID,
		&b.ContractAddress,
		&b.TransactionDigest,
		&b.CreatedAt,
	)
	b.Type = domain.TokenType(typ)
	return b, err
}

func collect(rows *sql.Rows) ([]domain.TokenBalance, error) {
	defer rows.Close()
	out := make([]domain.TokenBalance, 0, 8)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByOwner returns every record held by owner, oldest first.
func (r *LedgerRepository) ListByOwner(ctx context.Context, owner string) ([]domain.TokenBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM token_balances
		WHERE owner = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return collect(rows)
}

// ListByToken returns positive records of a token (matched by name or symbol).
// An empty typ matches both token types.
func (r *LedgerRepository) ListByToken(ctx context.Context, token string, typ domain.TokenType) ([]domain.TokenBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM token_balances
		WHERE (name = $1 OR symbol = $1)
		  AND ($2 = '' OR token_type = $2)
		  AND amount > 0
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, token, string(typ))
	if err != nil {
		return nil, fmt.Errorf("failed to list holders: %w", err)
	}
	return collect(rows)
}

// ListAll returns the whole ledger.
func (r *LedgerRepository) ListAll(ctx context.Context) ([]domain.TokenBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM token_balances
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger: %w", err)
	}
	return collect(rows)
}

// Insert adds a record. CreatedAt is set by the database when zero.
func (r *LedgerRepository) Insert(ctx context.Context, b *domain.TokenBalance) error {
	query := `
		INSERT INTO token_balances (` + balanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, NOW()))
		RETURNING created_at
	`
	var createdAt sql.NullTime
	if !b.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: b.CreatedAt, Valid: true}
	}
	err := r.db.QueryRowContext(ctx, query,
		b.ID,
		b.Owner,
		b.Name,
		b.Symbol,
		b.Amount,
		string(b.Type),
		b.ProjectID,
		b.ContractAddress,
		b.TransactionDigest,
		createdAt,
	).Scan(&b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert balance: %w", err)
	}
	return nil
}

// TransferParams carries the ids the service generated for a transfer.
type TransferParams struct {
	Request     domain.TransferRequest
	NewRecordID string
	Digest      string
	At          time.Time
}

// Transfer moves amount from sender to receiver in one transaction. Sender records are
// debited oldest first and deleted when emptied; the receiver's first matching record is
// credited, or a new record is cloned from the sender's metadata.
func (r *LedgerRepository) Transfer(ctx context.Context, p TransferParams) error {
	req := p.Request

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transfer: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	selectQuery := `
		SELECT ` + balanceColumns + `
		FROM token_balances
		WHERE owner = $1 AND (name = $2 OR symbol = $2) AND token_type = $3
		ORDER BY created_at, id
		FOR UPDATE
	`
	rows, err := tx.QueryContext(ctx, selectQuery, req.From, req.Token, string(req.Type))
	if err != nil {
		return fmt.Errorf("failed to load sender balances: %w", err)
	}
	senderRecords, err := collect(rows)
	if err != nil {
		return err
	}

	total := domain.SumBalance(senderRecords, req.Token, req.Type)
	if total < req.Amount {
		return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientBalance, total, req.Amount)
	}

	remaining := req.Amount
	for _, rec := range senderRecords {
		if remaining == 0 {
			break
		}
		take := rec.Amount
		if take > remaining {
			take = remaining
		}
		if take <= 0 {
			continue
		}
		remaining -= take

		if rec.Amount-take <= 0 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM token_balances WHERE id = $1`, rec.ID); err != nil {
				return fmt.Errorf("failed to remove emptied balance: %w", err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, `UPDATE token_balances SET amount = amount - $2 WHERE id = $1`, rec.ID, take); err != nil {
			return fmt.Errorf("failed to debit balance: %w", err)
		}
	}

	receiverQuery := `
		SELECT id
		FROM token_balances
		WHERE owner = $1 AND (name = $2 OR symbol = $2) AND token_type = $3
		ORDER BY created_at, id
		LIMIT 1
		FOR UPDATE
	`
	var receiverID string
	err = tx.QueryRowContext(ctx, receiverQuery, req.To, req.Token, string(req.Type)).Scan(&receiverID)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, `UPDATE token_balances SET amount = amount + $2 WHERE id = $1`, receiverID, req.Amount); err != nil {
			return fmt.Errorf("failed to credit balance: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		tmpl := senderRecords[0]
		insert := `
			INSERT INTO token_balances (` + balanceColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		if _, err := tx.ExecContext(ctx, insert,
			p.NewRecordID,
			req.To,
			tmpl.Name,
			tmpl.Symbol,
			req.Amount,
			string(tmpl.Type),
			tmpl.ProjectID,
			tmpl.ContractAddress,
			p.Digest,
			p.At,
		); err != nil {
			return fmt.Errorf("failed to create receiver balance: %w", err)
		}
	default:
		return fmt.Errorf("failed to load receiver balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}
	return nil
}
