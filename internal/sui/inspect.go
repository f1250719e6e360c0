package sui

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoReturnValue is returned when a dev-inspect produced no return values.
var ErrNoReturnValue = errors.New("on-chain function call failed or returned no values")

// ReturnValue is one BCS-encoded Move return value and its type tag.
type ReturnValue struct {
	Bytes []byte
	Type  string
}

// UnmarshalJSON decodes the fullnode's [[bytes...], "type"] tuple.
func (r *ReturnValue) UnmarshalJSON(b []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(b, &tuple); err != nil {
		return fmt.Errorf("invalid return value: %w", err)
	}
	if len(tuple) != 2 {
		return fmt.Errorf("return value has %d elements, want 2", len(tuple))
	}
	var ints []int
	if err := json.Unmarshal(tuple[0], &ints); err != nil {
		return fmt.Errorf("invalid return bytes: %w", err)
	}
	r.Bytes = make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("return byte %d out of range: %d", i, v)
		}
		r.Bytes[i] = byte(v)
	}
	return json.Unmarshal(tuple[1], &r.Type)
}

type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type ExecutionResult struct {
	ReturnValues []ReturnValue `json:"returnValues"`
}

// DevInspectResults is the response of sui_devInspectTransactionBlock.
type DevInspectResults struct {
	Effects struct {
		Status ExecutionStatus `json:"status"`
	} `json:"effects"`
	Results []ExecutionResult `json:"results"`
	Error   string            `json:"error,omitempty"`
}

// Succeeded reports whether the inspected transaction executed without error.
func (r *DevInspectResults) Succeeded() bool {
	return r.Error == "" && r.Effects.Status.Status == "success"
}

// Err converts a failed inspection into an error, preferring a parsed Move abort.
func (r *DevInspectResults) Err() error {
	if r.Succeeded() {
		return nil
	}
	msg := r.Error
	if msg == "" {
		msg = r.Effects.Status.Error
	}
	if code, ok := ParseAbort(msg); ok {
		return &AbortError{Code: code, Message: msg}
	}
	if msg == "" {
		msg = "status " + r.Effects.Status.Status
	}
	return fmt.Errorf("dev inspect failed: %s", msg)
}

// FirstReturnU64 decodes the first return value of the first command as a u64.
func (r *DevInspectResults) FirstReturnU64() (uint64, error) {
	if err := r.Err(); err != nil {
		return 0, err
	}
	if len(r.Results) == 0 || len(r.Results[0].ReturnValues) == 0 {
		return 0, ErrNoReturnValue
	}
	rv := r.Results[0].ReturnValues[0]
	if rv.Type != "u64" {
		return 0, fmt.Errorf("expected u64 return type, but got %s", rv.Type)
	}
	if len(rv.Bytes) < 8 {
		return 0, fmt.Errorf("u64 return value has %d bytes", len(rv.Bytes))
	}
	return binary.LittleEndian.Uint64(rv.Bytes[:8]), nil
}

// DevInspect runs a transaction kind read-only with sender as the signer.
func (c *Client) DevInspect(ctx context.Context, sender string, txKind []byte) (*DevInspectResults, error) {
	addr, err := NormalizeAddress(sender)
	if err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}

	var out DevInspectResults
	params := []any{addr, base64.StdEncoding.EncodeToString(txKind)}
	if err := c.Call(ctx, "sui_devInspectTransactionBlock", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
