package events

import (
	"context"
	"time"
)

// Event topic constants
const (
	TopicProjectCreated    = "suiholar.project.created"
	TopicFundingSynced     = "suiholar.project.funding_synced"
	TopicKeyStored         = "suiholar.key.stored"
	TopicKeyReleased       = "suiholar.key.released"
	TopicKeyDenied         = "suiholar.key.denied"
	TopicTokensMinted      = "suiholar.tokens.minted"
	TopicTokensTransferred = "suiholar.tokens.transferred"
	TopicLedgerExported    = "suiholar.ledger.exported"

	// TopicAll matches every event this service emits.
	TopicAll = "suiholar.>"
)

// Publisher publishes domain events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Event types

type ProjectCreated struct {
	ProjectID string    `json:"project_id"`
	Owner     string    `json:"owner"`
	Title     string    `json:"title"`
	At        time.Time `json:"at"`
}

type FundingSynced struct {
	ProjectID   string    `json:"project_id"`
	FundingMist uint64    `json:"funding_mist"`
	At          time.Time `json:"at"`
}

type KeyStored struct {
	BlobID string    `json:"blob_id"`
	At     time.Time `json:"at"`
}

// KeyAccess is emitted for both released and denied key requests.
type KeyAccess struct {
	BlobID     string    `json:"blob_id"`
	ProjectID  string    `json:"project_id"`
	Investor   string    `json:"investor"`
	Percentage uint64    `json:"percentage"`
	At         time.Time `json:"at"`
}

type TokensMinted struct {
	Owner     string    `json:"owner"`
	Symbol    string    `json:"symbol"`
	Amount    int64     `json:"amount"`
	ProjectID string    `json:"project_id,omitempty"`
	At        time.Time `json:"at"`
}

type TokensTransferred struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Token  string    `json:"token"`
	Amount int64     `json:"amount"`
	Digest string    `json:"digest"`
	At     time.Time `json:"at"`
}

type LedgerExported struct {
	Location string    `json:"location"`
	Records  int       `json:"records"`
	At       time.Time `json:"at"`
}
