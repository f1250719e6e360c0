package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatAmount renders 1.2M / 3.4K above a thousand and grouped digits below.
func FormatAmount(amount int64) string {
	switch {
	case amount >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(amount)/1_000_000)
	case amount >= 1_000:
		return fmt.Sprintf("%.1fK", float64(amount)/1_000)
	default:
		return groupDigits(amount)
	}
}

func groupDigits(v int64) string {
	s := strconv.FormatInt(v, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

// GovernanceSymbol is the ticker minted for a project's governance token.
func GovernanceSymbol(name string) string {
	return "PAPER" + strings.ToUpper(name)
}

// ArticleSymbol is the ticker minted for a project's article token.
func ArticleSymbol(name string) string {
	return strings.ToUpper(name)
}

func DisplayName(name string, typ TokenType) string {
	if typ == TokenGovernance {
		return "$" + GovernanceSymbol(name)
	}
	return strings.ToUpper(name)
}
