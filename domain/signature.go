package domain

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureError is returned when a signature fails to recover a valid
// signer (spec §4.2).
type SignatureError struct {
	reason string
}

func (e *SignatureError) Error() string { return "domain: signature error: " + e.reason }

func sigErr(reason string) *SignatureError { return &SignatureError{reason: reason} }

// Signature is a secp256k1 ECDSA signature in (r, s, yParity) form
// (spec §3).
type Signature struct {
	R       [32]byte
	S       [32]byte
	YParity uint8 // 0 or 1
}

type signatureJSON struct {
	R       string `json:"r"`
	S       string `json:"s"`
	YParity string `json:"yParity,omitempty"`
	V       string `json:"v,omitempty"`
}

// MarshalJSON renders the signature as {"r","s","yParity"} 0x-hex fields.
func (s Signature) MarshalJSON() ([]byte, error) {
	j := signatureJSON{
		R:       "0x" + hex.EncodeToString(s.R[:]),
		S:       "0x" + hex.EncodeToString(s.S[:]),
		YParity: fmt.Sprintf("0x%x", s.YParity),
	}
	return jsonMarshal(j)
}

// UnmarshalJSON accepts {"r","s","yParity"} and, for compatibility, a
// legacy {"r","s","v"} form with v in {27,28} (spec §4.2).
func (s *Signature) UnmarshalJSON(data []byte) error {
	var j signatureJSON
	if err := jsonUnmarshal(data, &j); err != nil {
		return err
	}
	if err := decodeHex32(j.R, &s.R); err != nil {
		return fmt.Errorf("domain: signature r: %w", err)
	}
	if err := decodeHex32(j.S, &s.S); err != nil {
		return fmt.Errorf("domain: signature s: %w", err)
	}
	switch {
	case j.YParity != "":
		yp, err := parseHexUint(j.YParity)
		if err != nil {
			return fmt.Errorf("domain: signature yParity: %w", err)
		}
		if yp != 0 && yp != 1 {
			return sigErr("yParity must be 0 or 1")
		}
		s.YParity = uint8(yp)
	case j.V != "":
		v, err := parseHexUint(j.V)
		if err != nil {
			return fmt.Errorf("domain: signature v: %w", err)
		}
		switch v {
		case 27, 0:
			s.YParity = 0
		case 28, 1:
			s.YParity = 1
		default:
			return sigErr("v must be one of 27, 28, 0, 1")
		}
	default:
		return sigErr("missing yParity or v")
	}
	return nil
}

// Compact returns the 65-byte (r || s || v) form with v as the 0/1
// recovery id, the form go-ethereum's Ecrecover/SigToPub expect.
func (s Signature) Compact() [65]byte {
	var out [65]byte
	copy(out[0:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.YParity
	return out
}

// Recover recovers the 20-byte signer address from sig over prehash
// (spec §4.2): address = keccak256(uncompressed_pubkey[1:])[12:].
func Recover(sig Signature, prehash [32]byte) (Address, error) {
	// go-ethereum's secp256k1 binding expects the recovery id in {0,1}
	// rather than {27,28}. ValidateSignatureValues (non-homestead mode)
	// checks that r and s lie in [1, N) and that the recovery id is 0 or
	// 1; s values in the upper half of the curve order are not rejected.
	compact := sig.Compact()
	r := new(big.Int).SetBytes(compact[0:32])
	s2 := new(big.Int).SetBytes(compact[32:64])
	if !crypto.ValidateSignatureValues(compact[64], r, s2, false) {
		return Address{}, sigErr("s out of range or invalid recovery id")
	}

	pubBytes, err := crypto.Ecrecover(prehash[:], compact[:])
	if err != nil {
		return Address{}, fmt.Errorf("domain: ecrecover: %w", err)
	}
	pub, err := crypto.UnmarshalPubkey(pubBytes)
	if err != nil {
		return Address{}, fmt.Errorf("domain: unmarshal pubkey: %w", err)
	}
	ethAddr := crypto.PubkeyToAddress(*pub)
	var a Address
	copy(a[:], ethAddr.Bytes())
	return a, nil
}

// --- small local helpers to keep signature.go dependency-light ---

// decodeHex32 parses a 0x-hex string into a left-padded 32-byte word.
// Canonical signature JSON (alloy, ethers, MetaMask) strips leading
// zeros from r and s, so short and odd-length values are accepted.
func decodeHex32(s string, out *[32]byte) error {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s) > 64 {
		return fmt.Errorf("expected at most 32 bytes, got %d hex chars", len(s))
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	*out = [32]byte{}
	copy(out[32-len(b):], b)
	return nil
}

func parseHexUint(s string) (uint64, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if s == "" {
		return 0, errors.New("empty")
	}
	var v uint64
	for _, c := range s {
		d, err := hexDigit(byte(c))
		if err != nil {
			return 0, err
		}
		v = v*16 + uint64(d)
	}
	return v, nil
}

func hexDigit(c byte) (uint64, error) {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0'), nil
	case c >= 'a' && c <= 'f':
		return uint64(c-'a') + 10, nil
	case c >= 'A' && c <= 'F':
		return uint64(c-'A') + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit %q", c)
	}
}
