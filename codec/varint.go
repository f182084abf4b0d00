// Package codec implements the canonical binary wire format for batches
// (spec §4.3): a deterministic, self-delimiting encoding that every
// downstream DA-layer reader must be able to decode byte-for-byte.
package codec

import (
	"fmt"
	"math/big"

	"github.com/cartesi/paio-sequencer/domain"
)

// ErrTruncated is returned when the input ends before a field is fully
// read.
var ErrTruncated = fmt.Errorf("codec: truncated input")

// ErrTrailingData is returned when DecodeBatch leaves unconsumed bytes.
var ErrTrailingData = fmt.Errorf("codec: trailing garbage after batch")

// ErrVarintOverflow is returned when a varint exceeds the width of the
// field being decoded (u64 for nonce/count, u128 for max_gas_price).
var ErrVarintOverflow = fmt.Errorf("codec: varint overflow")

// putUvarint appends n to buf as an unsigned LEB128 varint (7 payload
// bits per byte, continuation bit set on all but the last byte).
func putUvarint(buf []byte, n uint64) []byte {
	for n >= 0x80 {
		buf = append(buf, byte(n)|0x80)
		n >>= 7
	}
	return append(buf, byte(n))
}

// getUvarint decodes a u64 LEB128 varint from buf[off:], returning the
// value, the number of bytes consumed, and an error.
func getUvarint(buf []byte, off int) (uint64, int, error) {
	var v uint64
	var shift uint
	for i := 0; ; i++ {
		if shift >= 64 {
			return 0, 0, ErrVarintOverflow
		}
		if off+i >= len(buf) {
			return 0, 0, ErrTruncated
		}
		b := buf[off+i]
		// The tenth byte carries only bit 63; anything more overflows u64.
		if shift == 63 && b > 1 {
			return 0, 0, ErrVarintOverflow
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
		shift += 7
	}
}

// maxU128Groups bounds a u128 varint to at most 19 groups (ceil(128/7)),
// matching the field's declared width; a longer run is a decode error.
const maxU128Groups = 19

// putUvarintU256 appends n to buf as a LEB128 varint. The field is
// declared u128 but the encoder has no occasion to emit a value that
// does not already fit, since every max_gas_price accepted by the
// admission path is checked against that width beforehand.
func putUvarintU256(buf []byte, n domain.U256) []byte {
	v := n.Big()
	mask := big.NewInt(0x7f)
	for i := 0; ; i++ {
		chunk := new(big.Int).And(v, mask)
		v.Rsh(v, 7)
		if v.Sign() == 0 {
			buf = append(buf, byte(chunk.Uint64()))
			return buf
		}
		buf = append(buf, byte(chunk.Uint64())|0x80)
	}
}

// getUvarintU256 decodes a U256 LEB128 varint, erroring if the encoded
// value would not fit in 128 bits.
func getUvarintU256(buf []byte, off int) (domain.U256, int, error) {
	acc := new(big.Int)
	for i := 0; ; i++ {
		if i >= maxU128Groups {
			return domain.U256{}, 0, ErrVarintOverflow
		}
		if off+i >= len(buf) {
			return domain.U256{}, 0, ErrTruncated
		}
		b := buf[off+i]
		chunk := new(big.Int).SetUint64(uint64(b & 0x7f))
		chunk.Lsh(chunk, uint(7*i))
		acc.Or(acc, chunk)
		if b&0x80 == 0 {
			if acc.BitLen() > 128 {
				return domain.U256{}, 0, ErrVarintOverflow
			}
			return domain.U256FromBig(acc), i + 1, nil
		}
	}
}
