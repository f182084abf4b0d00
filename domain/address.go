// Package domain implements the EIP-712 signing-hash computation, ECDSA
// signer recovery, and the core message/transaction types that the
// sequencer and its downstream replay verifier both build on.
package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address is a 20-byte account identifier.
type Address [20]byte

// ZeroAddress is the all-zero Address, used as the EIP-712 domain's
// verifying-contract placeholder.
var ZeroAddress = Address{}

// AddressFromHex parses a 0x-prefixed 40-hex-char address.
func AddressFromHex(s string) (Address, error) {
	var a Address
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s) != 2*len(a) {
		return a, fmt.Errorf("domain: address must be %d hex chars, got %d", 2*len(a), len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("domain: invalid address hex: %w", err)
	}
	copy(a[:], b)
	return a, nil
}

// Hex returns the lowercase 0x-prefixed form.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) String() string { return a.Hex() }

// MarshalJSON renders the address as lowercase 0x-hex, matching the wire
// JSON form used throughout the HTTP surface.
func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.Hex() + `"`), nil
}

// UnmarshalJSON accepts a 0x-prefixed 40-hex-char string.
func (a *Address) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := AddressFromHex(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
