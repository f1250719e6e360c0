// Package idgen generates ids for ledger records and local transactions.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for generated ids.
const (
	PrefixLocalTx  = "LOCAL_TX_"
	PrefixTransfer = "TRANSFER_"
	PrefixGrant    = "GRANT_"
)

// Alphabet is the character set of the random portion of an id.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters (excluding the prefix).
var Length = 16

// WithPrefix returns prefix followed by a random nanoid.
func WithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// UUID returns a random v4 uuid string.
func UUID() string {
	return uuid.New().String()
}
