package http

import "github.com/suiholar/research-dao-backend/internal/tokens/domain"

type balanceView struct {
	domain.TokenBalance
	DisplayName     string `json:"displayName"`
	FormattedAmount string `json:"formattedAmount"`
}

func toBalanceViews(in []domain.TokenBalance) []balanceView {
	out := make([]balanceView, 0, len(in))
	for _, b := range in {
		out = append(out, balanceView{
			TokenBalance:    b,
			DisplayName:     domain.DisplayName(b.Name, b.Type),
			FormattedAmount: domain.FormatAmount(b.Amount),
		})
	}
	return out
}

type accessCheckReq struct {
	Address      string                     `json:"address"`
	Requirements []domain.AccessRequirement `json:"requirements"`
}
