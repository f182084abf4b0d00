package domain

import (
	"math/big"
	"testing"
)

func TestCheckedMulOverflow(t *testing.T) {
	max := MaxU256()
	two := NewU256FromUint64(2)
	if _, ok := CheckedMul(max, two); ok {
		t.Fatal("expected overflow multiplying MaxU256 by 2")
	}
}

func TestCheckedMulNoOverflow(t *testing.T) {
	a := NewU256FromUint64(10)
	b := NewU256FromUint64(13)
	got, ok := CheckedMul(a, b)
	if !ok {
		t.Fatal("expected no overflow for small operands")
	}
	if got.Uint64() != 130 {
		t.Fatalf("10*13 = %d, want 130", got.Uint64())
	}
}

func TestSubAndCmp(t *testing.T) {
	a := NewU256FromUint64(100)
	b := NewU256FromUint64(40)
	if got := a.Sub(b).Uint64(); got != 60 {
		t.Fatalf("100-40 = %d, want 60", got)
	}
	if a.Cmp(b) <= 0 {
		t.Fatal("expected a > b")
	}
}

func TestU256JSONRoundTrip(t *testing.T) {
	v := NewU256FromUint64(123456789)
	raw, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(raw) != "123456789" {
		t.Fatalf("expected bare decimal literal, got %s", raw)
	}

	var out U256
	if err := out.UnmarshalJSON(raw); err != nil {
		t.Fatalf("UnmarshalJSON decimal: %v", err)
	}
	if out.Cmp(v) != 0 {
		t.Fatalf("round trip mismatch: got %s, want %s", out.String(), v.String())
	}

	var fromHex U256
	if err := fromHex.UnmarshalJSON([]byte(`"0x75bcd15"`)); err != nil {
		t.Fatalf("UnmarshalJSON hex: %v", err)
	}
	if fromHex.Cmp(v) != 0 {
		t.Fatalf("hex round trip mismatch: got %s, want %s", fromHex.String(), v.String())
	}
}

func TestU256BigRoundTrip(t *testing.T) {
	b := big.NewInt(987654321)
	u := U256FromBig(b)
	if u.Big().Cmp(b) != 0 {
		t.Fatalf("Big() round trip mismatch: got %s, want %s", u.Big(), b)
	}
}

func TestU256MaxIsAllOnes(t *testing.T) {
	max := MaxU256()
	b := max.pad32()
	for i, byteVal := range b {
		if byteVal != 0xff {
			t.Fatalf("MaxU256 byte %d = 0x%x, want 0xff", i, byteVal)
		}
	}
}
