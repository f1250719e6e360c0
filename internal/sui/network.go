package sui

import (
	"fmt"
	"math"
	"strings"
)

// MistPerSUI is the number of MIST in one SUI.
const MistPerSUI = 1_000_000_000

var fullnodeURLs = map[string]string{
	"localnet": "http://127.0.0.1:9000",
	"devnet":   "https://fullnode.devnet.sui.io:443",
	"testnet":  "https://fullnode.testnet.sui.io:443",
	"mainnet":  "https://fullnode.mainnet.sui.io:443",
}

// FullnodeURL returns the public fullnode RPC endpoint for a named network.
func FullnodeURL(network string) (string, error) {
	u, ok := fullnodeURLs[strings.ToLower(network)]
	if !ok {
		return "", fmt.Errorf("unknown sui network %q", network)
	}
	return u, nil
}

// ResolveRPCURL prefers an explicit URL over the network's fullnode.
func ResolveRPCURL(network, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return FullnodeURL(network)
}

// MistToSUI converts MIST to whole SUI, truncating like integer division on-chain.
func MistToSUI(mist uint64) uint64 {
	return mist / MistPerSUI
}

// SUIToMist converts a (possibly fractional) SUI amount to MIST, flooring the result.
func SUIToMist(amount float64) (uint64, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("invalid amount %v", amount)
	}
	mist := math.Floor(amount * MistPerSUI)
	if mist >= math.MaxUint64 {
		return 0, fmt.Errorf("amount %v overflows u64 MIST", amount)
	}
	return uint64(mist), nil
}
