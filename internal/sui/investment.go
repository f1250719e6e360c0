package sui

import (
	"context"
	"fmt"

	"github.com/suiholar/research-dao-backend/internal/logging"
)

// AuthorizedInvestorFunction returns an investor's percentage of a project's funding goal.
const AuthorizedInvestorFunction = "is_authorized_investor"

// InvestmentChecker reads investment percentages through a read-only Move call.
type InvestmentChecker struct {
	client    *Client
	packageID Address
	module    string
	function  string
}

// NewInvestmentChecker binds the checker to a published package.
func NewInvestmentChecker(client *Client, packageID, module string) (*InvestmentChecker, error) {
	pkg, err := ParseAddress(packageID)
	if err != nil {
		return nil, fmt.Errorf("invalid package id: %w", err)
	}
	if module == "" {
		module = "research_dao"
	}
	return &InvestmentChecker{
		client:    client,
		packageID: pkg,
		module:    module,
		function:  AuthorizedInvestorFunction,
	}, nil
}

// Target returns the fully qualified Move function name.
func (ic *InvestmentChecker) Target() string {
	return fmt.Sprintf("%s::%s::%s", ic.packageID, ic.module, ic.function)
}

// Percentage dev-inspects is_authorized_investor(project, investor) and decodes the u64 result.
func (ic *InvestmentChecker) Percentage(ctx context.Context, projectID, investor string) (uint64, error) {
	logger := logging.NewLogger(ctx)

	investorAddr, err := ParseAddress(investor)
	if err != nil {
		return 0, fmt.Errorf("invalid investor address: %w", err)
	}

	project, err := ic.client.GetObject(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("load project object: %w", err)
	}
	projectArg, err := project.CallArg(false)
	if err != nil {
		return 0, fmt.Errorf("project object argument: %w", err)
	}

	tx := ProgrammableTransaction{
		Inputs: []CallArg{projectArg, PureAddress(investorAddr)},
		Commands: []MoveCall{{
			Package:  ic.packageID,
			Module:   ic.module,
			Function: ic.function,
			Inputs:   []uint16{0, 1},
		}},
	}
	kind, err := tx.KindBytes()
	if err != nil {
		return 0, fmt.Errorf("encode transaction: %w", err)
	}

	result, err := ic.client.DevInspect(ctx, investorAddr.String(), kind)
	if err != nil {
		return 0, err
	}
	pct, err := result.FirstReturnU64()
	if err != nil {
		return 0, err
	}

	logger.LogInfof("investment_percentage", "investor=%s project=%s percentage=%d", investorAddr, projectID, pct)
	return pct, nil
}
