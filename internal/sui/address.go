package sui

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the byte length of Sui addresses and object ids.
const AddressLength = 32

// Address is a 32-byte Sui account address or object id.
type Address [AddressLength]byte

// ParseAddress accepts a hex address with or without 0x prefix and left-pads
// short forms such as "0x2".
func ParseAddress(s string) (Address, error) {
	var a Address
	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if h == "" {
		return a, fmt.Errorf("empty address")
	}
	if len(h) > AddressLength*2 {
		return a, fmt.Errorf("address %q is longer than %d bytes", s, AddressLength)
	}
	if len(h)%2 == 1 {
		h = "0" + h
	}
	raw, err := hex.DecodeString(h)
	if err != nil {
		return a, fmt.Errorf("address %q is not hex: %w", s, err)
	}
	copy(a[AddressLength-len(raw):], raw)
	return a, nil
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// NormalizeAddress returns the canonical 0x-prefixed 64-char form.
func NormalizeAddress(s string) (string, error) {
	a, err := ParseAddress(s)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

// SameAddress compares two addresses in canonical form, so "0x2" and the padded
// upper-case spelling match. Values that are not hex addresses compare trimmed and
// case-insensitively. Empty never matches.
func SameAddress(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	na, errA := NormalizeAddress(a)
	nb, errB := NormalizeAddress(b)
	if errA == nil && errB == nil {
		return na == nb
	}
	return strings.EqualFold(a, b)
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}
