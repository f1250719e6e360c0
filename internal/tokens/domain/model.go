package domain

import (
	"errors"
	"time"
)

var (
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidTokenType    = errors.New("token type must be governance or article")
	ErrInvalidRequest      = errors.New("invalid token request")
	ErrProjectNotFound     = errors.New("project not found")
	ErrBalanceOverflow     = errors.New("token balance would exceed the maximum amount")
)

type TokenType string

const (
	TokenGovernance TokenType = "governance"
	TokenArticle    TokenType = "article"
)

// ParseTokenType accepts "" as "any type".
func ParseTokenType(s string) (TokenType, error) {
	switch TokenType(s) {
	case "", TokenGovernance, TokenArticle:
		return TokenType(s), nil
	default:
		return "", ErrInvalidTokenType
	}
}

// TokenBalance is one grant of a named token to an owner. An owner can hold several
// records of the same token; balances are their sum.
type TokenBalance struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Symbol            string    `json:"symbol"`
	Amount            int64     `json:"amount"`
	Type              TokenType `json:"type"`
	Owner             string    `json:"owner"`
	ProjectID         string    `json:"projectId,omitempty"`
	ContractAddress   string    `json:"contractAddress,omitempty"`
	TransactionDigest string    `json:"transactionDigest,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Matches reports whether the record is for token (by name or symbol) and, when typ is
// non-empty, of that type.
func (b TokenBalance) Matches(token string, typ TokenType) bool {
	nameMatch := b.Name == token || b.Symbol == token
	typeMatch := typ == "" || b.Type == typ
	return nameMatch && typeMatch
}

type AccessRequirement struct {
	TokenName     string    `json:"tokenName"`
	MinimumAmount int64     `json:"minimumAmount"`
	TokenType     TokenType `json:"tokenType,omitempty"`
}

type AccessDecision struct {
	HasAccess      bool  `json:"hasAccess"`
	Balance        int64 `json:"balance"`
	RequiredAmount int64 `json:"requiredAmount"`
}

// PermissionResult lists, for every unmet requirement, how much is still missing.
type PermissionResult struct {
	HasAccess     bool                `json:"hasAccess"`
	MissingTokens []AccessRequirement `json:"missingTokens"`
	OwnedTokens   []TokenBalance      `json:"ownedTokens"`
}

type Holder struct {
	Address string       `json:"address"`
	Balance int64        `json:"balance"`
	Token   TokenBalance `json:"tokenInfo"`
}

type MintRequest struct {
	Owner             string    `json:"owner"`
	Name              string    `json:"name"`
	Symbol            string    `json:"symbol"`
	Amount            int64     `json:"amount"`
	Type              TokenType `json:"type"`
	ProjectID         string    `json:"projectId"`
	ContractAddress   string    `json:"contractAddress"`
	TransactionDigest string    `json:"transactionDigest"`
}

func (r MintRequest) Validate() error {
	if r.Owner == "" || r.Name == "" {
		return ErrInvalidRequest
	}
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if r.Type != TokenGovernance && r.Type != TokenArticle {
		return ErrInvalidTokenType
	}
	return nil
}

type TransferRequest struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Token  string    `json:"token"`
	Amount int64     `json:"amount"`
	Type   TokenType `json:"type"`
}

func (r TransferRequest) Validate() error {
	if r.From == "" || r.To == "" || r.Token == "" || r.From == r.To {
		return ErrInvalidRequest
	}
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if r.Type != TokenGovernance && r.Type != TokenArticle {
		return ErrInvalidTokenType
	}
	return nil
}

type TransferResult struct {
	TransactionHash string `json:"transactionHash"`
}

// ProjectRef is what token checks need to know about a project.
type ProjectRef struct {
	ID                  string
	Owner               string
	GovernanceTokenName string
}
