package domain

import "math"

// AddAmounts adds two non-negative amounts; ok is false when the sum does not fit in int64.
func AddAmounts(a, b int64) (sum int64, ok bool) {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64, false
	}
	return a + b, true
}

// SumBalance totals the records matching token (name or symbol) and optional type.
// The total saturates at math.MaxInt64.
func SumBalance(balances []TokenBalance, token string, typ TokenType) int64 {
	var total int64
	for _, b := range balances {
		if b.Matches(token, typ) {
			total, _ = AddAmounts(total, b.Amount)
		}
	}
	return total
}

// Evaluate is the token-gated access check: access iff the summed balance of token
// reaches minimum.
func Evaluate(balances []TokenBalance, token string, typ TokenType, minimum int64) AccessDecision {
	balance := SumBalance(balances, token, typ)
	return AccessDecision{
		HasAccess:      balance >= minimum,
		Balance:        balance,
		RequiredAmount: minimum,
	}
}

// CheckRequirements evaluates every requirement; unmet ones are returned with
// MinimumAmount reduced to the shortfall.
func CheckRequirements(balances []TokenBalance, reqs []AccessRequirement) PermissionResult {
	missing := make([]AccessRequirement, 0)
	for _, req := range reqs {
		balance := SumBalance(balances, req.TokenName, req.TokenType)
		if balance < req.MinimumAmount {
			short := req
			short.MinimumAmount = req.MinimumAmount - balance
			missing = append(missing, short)
		}
	}
	owned := balances
	if owned == nil {
		owned = []TokenBalance{}
	}
	return PermissionResult{
		HasAccess:     len(missing) == 0,
		MissingTokens: missing,
		OwnedTokens:   owned,
	}
}

// Holders groups positive records of token by record, preserving input order.
func Holders(balances []TokenBalance, token string, typ TokenType) []Holder {
	out := make([]Holder, 0)
	for _, b := range balances {
		if b.Matches(token, typ) && b.Amount > 0 {
			out = append(out, Holder{Address: b.Owner, Balance: b.Amount, Token: b})
		}
	}
	return out
}
