package codec

import (
	"math/big"
	"testing"

	"github.com/cartesi/paio-sequencer/domain"
)

func TestUvarintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 1 << 32, ^uint64(0)}
	for _, n := range cases {
		buf := putUvarint(nil, n)
		got, consumed, err := getUvarint(buf, 0)
		if err != nil {
			t.Fatalf("getUvarint(%d): %v", n, err)
		}
		if consumed != len(buf) {
			t.Fatalf("getUvarint(%d) consumed %d, want %d", n, consumed, len(buf))
		}
		if got != n {
			t.Fatalf("round trip: got %d, want %d", got, n)
		}
	}
}

func TestUvarintTruncated(t *testing.T) {
	buf := []byte{0x80, 0x80} // continuation bit set, then input ends
	if _, _, err := getUvarint(buf, 0); err != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestUvarintU256RoundTrip(t *testing.T) {
	maxU128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	cases := []domain.U256{
		domain.NewU256FromUint64(0),
		domain.NewU256FromUint64(1),
		domain.NewU256FromUint64(300),
		domain.U256FromBig(maxU128),
	}
	for _, v := range cases {
		buf := putUvarintU256(nil, v)
		got, consumed, err := getUvarintU256(buf, 0)
		if err != nil {
			t.Fatalf("getUvarintU256(%s): %v", v.String(), err)
		}
		if consumed != len(buf) {
			t.Fatalf("getUvarintU256(%s) consumed %d, want %d", v.String(), consumed, len(buf))
		}
		if got.Cmp(v) != 0 {
			t.Fatalf("round trip: got %s, want %s", got.String(), v.String())
		}
	}
}

func TestUvarintU256OverflowsBeyond128Bits(t *testing.T) {
	over := new(big.Int).Lsh(big.NewInt(1), 128) // 2^128, one bit too many
	buf := putUvarintU256(nil, domain.U256FromBig(over))
	if _, _, err := getUvarintU256(buf, 0); err != ErrVarintOverflow {
		t.Fatalf("expected ErrVarintOverflow, got %v", err)
	}
}
