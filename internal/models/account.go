package models

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AccountID identifies an account on the ledger
type AccountID string

// Balance is an amount of the native currency
type Balance uint64

// HashLength is the size in bytes of a content identifier
const HashLength = 32

// Hash is a content-derived identifier
type Hash [HashLength]byte

// String renders the hash as 0x-prefixed lowercase hex
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// MarshalText implements encoding.TextMarshaler
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHash parses a hex hash, with or without the 0x prefix
func ParseHash(s string) (Hash, error) {
	var h Hash
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != HashLength*2 {
		return h, fmt.Errorf("invalid hash length %d, want %d hex characters", len(s), HashLength*2)
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, fmt.Errorf("invalid hash: %w", err)
	}
	return h, nil
}

// HashFromBytes copies a raw 32-byte slice into a Hash
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashLength {
		return h, fmt.Errorf("invalid hash length %d, want %d bytes", len(b), HashLength)
	}
	copy(h[:], b)
	return h, nil
}
