package domain

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// U256 wraps holiman/uint256.Int to give the sequencer checked 256-bit
// arithmetic for cost accounting (balances, gas-price * data-length).
type U256 struct {
	v uint256.Int
}

// NewU256FromUint64 builds a U256 from a machine word.
func NewU256FromUint64(n uint64) U256 {
	var u U256
	u.v.SetUint64(n)
	return u
}

// MaxU256 is the maximum representable value, used as the "unbounded cost"
// sentinel on multiplication overflow (spec §3, §4.5).
func MaxU256() U256 {
	var u U256
	u.v = *uint256.NewInt(0)
	u.v.Not(&u.v) // bitwise NOT of zero = all-ones = max value
	return u
}

// CheckedMul multiplies a and b, returning (result, true) or (zero value,
// false) on overflow.
func CheckedMul(a, b U256) (U256, bool) {
	var out U256
	_, overflow := out.v.MulOverflow(&a.v, &b.v)
	if overflow {
		return U256{}, false
	}
	return out, true
}

// Add returns a+b. The sequencer's own balance bookkeeping never drives
// this past U256 range under normal configuration (gas price and data
// length are bounded well below the point where their product plus any
// existing balance could wrap); a wrap here indicates a configuration bug,
// so Add panics rather than silently truncating.
func (a U256) Add(b U256) U256 {
	var out U256
	_, overflow := out.v.AddOverflow(&a.v, &b.v)
	if overflow {
		panic("domain: U256 balance overflow")
	}
	return out
}

// Sub returns a-b. Callers must ensure a >= b; WalletState never calls
// this without checking first (see withdrawForced).
func (a U256) Sub(b U256) U256 {
	var out U256
	out.v.Sub(&a.v, &b.v)
	return out
}

// Cmp compares a to b the way bytes.Compare does.
func (a U256) Cmp(b U256) int {
	return a.v.Cmp(&b.v)
}

// IsZero reports whether the value is zero.
func (a U256) IsZero() bool {
	return a.v.IsZero()
}

// String renders the value as a base-10 decimal string.
func (a U256) String() string {
	return a.v.Dec()
}

// Uint64 returns the value truncated to 64 bits, for callers (logging,
// max_gas_price comparisons against a uint64 gas-price oracle) that know
// the value fits.
func (a U256) Uint64() uint64 {
	return a.v.Uint64()
}

// pad32 renders the value as a big-endian 32-byte word, for EIP-712
// struct-hash encoding.
func (a U256) pad32() [32]byte {
	return a.v.Bytes32()
}

// Big returns a copy of the value as a *big.Int, for the varint codec
// which operates on arbitrary-width big integers.
func (a U256) Big() *big.Int {
	return a.v.ToBig()
}

// U256FromBig builds a U256 from a non-negative *big.Int no wider than
// 256 bits.
func U256FromBig(b *big.Int) U256 {
	var u U256
	u.v.SetFromBig(b)
	return u
}

// MarshalJSON renders the value as a bare JSON number (decimal literal),
// matching the wire convention that u64/u128 values serialize as JSON
// numbers rather than hex strings.
func (a U256) MarshalJSON() ([]byte, error) {
	return []byte(a.v.Dec()), nil
}

// UnmarshalJSON accepts a bare JSON number or a 0x-prefixed hex string.
func (a *U256) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if len(s) >= 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		v, err := uint256.FromHex(s)
		if err != nil {
			return fmt.Errorf("domain: invalid U256 hex: %w", err)
		}
		a.v = *v
		return nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return fmt.Errorf("domain: invalid U256 decimal: %w", err)
	}
	a.v = *v
	return nil
}
