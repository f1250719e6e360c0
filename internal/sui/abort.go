package sui

import (
	"fmt"
	"regexp"
	"strconv"
)

// Abort codes raised by the research_dao Move module.
const (
	EInvestmentExceedsLimit uint64 = 4
)

var (
	reAbortedWith = regexp.MustCompile(`Aborted with (\d+)`)
	reMoveAbort   = regexp.MustCompile(`MoveAbort\(.*,\s*(\d+)\)`)
)

// AbortError is a Move abort surfaced by execution or dev-inspect.
type AbortError struct {
	Code    uint64
	Message string
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("move abort %d: %s", e.Code, DescribeAbort(e.Code))
}

// ParseAbort extracts a Move abort code from an error message.
func ParseAbort(msg string) (uint64, bool) {
	for _, re := range []*regexp.Regexp{reAbortedWith, reMoveAbort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			code, err := strconv.ParseUint(m[1], 10, 64)
			if err == nil {
				return code, true
			}
		}
	}
	return 0, false
}

// DescribeAbort returns a user-facing explanation for a known abort code.
func DescribeAbort(code uint64) string {
	switch code {
	case EInvestmentExceedsLimit:
		return "Investment Failed: Your total contribution cannot exceed 50% of the project funding goal."
	default:
		return fmt.Sprintf("Transaction aborted with code %d.", code)
	}
}
