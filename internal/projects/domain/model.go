package domain

import (
	"errors"
	"math"
	"strings"
	"time"
)

// MaxFundingGoalSUI keeps the goal in MIST within a signed 64-bit column.
const MaxFundingGoalSUI = 9_000_000_000

// MaxStoredMist is the largest MIST amount the registry can persist.
const MaxStoredMist uint64 = math.MaxInt64

var (
	ErrNotFound     = errors.New("project not found")
	ErrInvalidInput = errors.New("invalid project")
	ErrNotOnChain   = errors.New("project has no on-chain object")
)

// TokenConfig names a project token and its initial supply.
type TokenConfig struct {
	Name   string `json:"name"`
	Supply int64  `json:"supply"`
}

// ArticleRef points at the encrypted article stored on Walrus.
type ArticleRef struct {
	BlobID        string `json:"blobId"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	FileName      string `json:"fileName"`
	FileSize      int64  `json:"fileSize"`
	FileType      string `json:"fileType"`
	MinimumTokens int64  `json:"minimumTokens"`
}

// Project represents a tokenized research project.
// It is storage-agnostic and used across repository and HTTP layers.
type Project struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	FundingGoalMist    uint64      `json:"fundingGoalMist"`
	TimelineMonths     int         `json:"timelineMonths"`
	GovernanceToken    TokenConfig `json:"governanceToken"`
	ArticleToken       TokenConfig `json:"articleToken"`
	Image              string      `json:"image,omitempty"`
	Article            *ArticleRef `json:"article,omitempty"`
	Owner              string      `json:"owner"`
	CurrentFundingMist uint64      `json:"currentFundingMist"`
	TransactionDigest  string      `json:"transactionDigest,omitempty"`
	ChainObjectID      string      `json:"chainObjectId,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

// OnChain reports whether the project is backed by a Sui object.
func (p *Project) OnChain() bool {
	return p.ChainObjectID != ""
}

// FundingPercent is current funding as a share of the goal, capped at 100.
func (p *Project) FundingPercent() float64 {
	if p.FundingGoalMist == 0 {
		return 0
	}
	pct := float64(p.CurrentFundingMist) / float64(p.FundingGoalMist) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// CreateRequest is the project form. FundingGoal is in SUI.
type CreateRequest struct {
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	FundingGoal       float64     `json:"fundingGoal"`
	TimelineMonths    int         `json:"timeline"`
	GovernanceToken   TokenConfig `json:"governanceToken"`
	ArticleToken      TokenConfig `json:"articleToken"`
	Image             string      `json:"projectImage,omitempty"`
	Article           *ArticleRef `json:"article,omitempty"`
	Owner             string      `json:"owner"`
	TransactionDigest string      `json:"transactionDigest,omitempty"`
	ChainObjectID     string      `json:"chainObjectId,omitempty"`
}

// Validate returns ErrInvalidInput wrapped with the first problem found.
func (r CreateRequest) Validate() error {
	var problem string
	switch {
	case strings.TrimSpace(r.Title) == "":
		problem = "title is required"
	case r.FundingGoal <= 0:
		problem = "fundingGoal must be positive"
	case r.FundingGoal > MaxFundingGoalSUI || math.IsNaN(r.FundingGoal):
		problem = "fundingGoal must not exceed 9000000000 SUI"
	case r.TimelineMonths <= 0:
		problem = "timeline must be positive"
	case strings.TrimSpace(r.GovernanceToken.Name) == "":
		problem = "governance token name is required"
	case strings.TrimSpace(r.ArticleToken.Name) == "":
		problem = "article token name is required"
	case r.GovernanceToken.Supply <= 0 || r.ArticleToken.Supply <= 0:
		problem = "token supplies must be positive"
	case strings.TrimSpace(r.Owner) == "":
		problem = "owner is required"
	case r.Article != nil && strings.TrimSpace(r.Article.BlobID) == "":
		problem = "article blobId is required"
	default:
		return nil
	}
	return &ValidationError{Problem: problem}
}

// ValidationError describes a rejected CreateRequest.
type ValidationError struct {
	Problem string
}

func (e *ValidationError) Error() string {
	return "invalid project: " + e.Problem
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ListFilter narrows List; an empty Owner lists every project.
type ListFilter struct {
	Owner string
	Limit int
}
