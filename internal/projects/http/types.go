package http

import (
	"github.com/suiholar/research-dao-backend/internal/projects/domain"
	"github.com/suiholar/research-dao-backend/internal/projects/service"
	"github.com/suiholar/research-dao-backend/internal/sui"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
}

func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

// projectView adds display fields derived from MIST amounts.
type projectView struct {
	domain.Project
	FundingGoalSUI    uint64  `json:"fundingGoal"`
	CurrentFundingSUI uint64  `json:"currentFunding"`
	FundingPercent    float64 `json:"fundingPercent"`
}

func toView(p domain.Project) projectView {
	return projectView{
		Project:           p,
		FundingGoalSUI:    sui.MistToSUI(p.FundingGoalMist),
		CurrentFundingSUI: sui.MistToSUI(p.CurrentFundingMist),
		FundingPercent:    p.FundingPercent(),
	}
}
