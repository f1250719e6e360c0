package sui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAbort(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		code uint64
		ok   bool
	}{
		{"aborted with", "VMError: Aborted with 4 in module research_dao", 4, true},
		{"move abort", `MoveAbort(MoveLocation { module: ModuleId { name: Identifier("research_dao") }, function: 3 }, 4) in command 0`, 4, true},
		{"other code", "Aborted with 17", 17, true},
		{"no code", "InsufficientGas", 0, false},
		{"empty", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := ParseAbort(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestDescribeAbort(t *testing.T) {
	assert.Contains(t, DescribeAbort(EInvestmentExceedsLimit), "cannot exceed 50%")
	assert.Equal(t, "Transaction aborted with code 9.", DescribeAbort(9))

	err := &AbortError{Code: 4, Message: "Aborted with 4"}
	assert.Contains(t, err.Error(), "Investment Failed")
}
