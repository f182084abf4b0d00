package codec

import (
	"fmt"

	"github.com/cartesi/paio-sequencer/domain"
)

const addressLengthPrefix = 0x14 // 20, the fixed Address length

// Batch is the canonical, deterministically-serialized form published to
// the DA layer (spec §3, §4.3).
type Batch struct {
	SequencerPaymentAddress domain.Address
	Txs                     []domain.WireTransaction
}

// ToBytes serializes b into the canonical wire format. This never fails
// for in-memory values (spec §4.3).
func (b Batch) ToBytes() []byte {
	buf := make([]byte, 0, 64+len(b.Txs)*128)
	buf = appendAddress(buf, b.SequencerPaymentAddress)
	buf = putUvarint(buf, uint64(len(b.Txs)))
	for _, tx := range b.Txs {
		buf = appendAddress(buf, tx.App)
		buf = putUvarint(buf, tx.Nonce)
		buf = putUvarintU256(buf, tx.MaxGasPrice)
		buf = putUvarint(buf, uint64(len(tx.Data)))
		buf = append(buf, tx.Data...)
		buf = append(buf, tx.Signature.R[:]...)
		buf = append(buf, tx.Signature.S[:]...)
		buf = appendVField(buf, tx.Signature.YParity)
	}
	return buf
}

func appendAddress(buf []byte, a domain.Address) []byte {
	buf = append(buf, addressLengthPrefix)
	return append(buf, a[:]...)
}

// appendVField encodes the signature's v value as an 8-byte big-endian
// field, using the yParity+27 convention. The reference batches put the
// value in the last byte (…000000000000001c), so big-endian is the
// on-wire truth.
func appendVField(buf []byte, yParity uint8) []byte {
	v := uint64(yParity) + 27
	var w [8]byte
	for i := 0; i < 8; i++ {
		w[7-i] = byte(v >> (8 * i))
	}
	return append(buf, w[:]...)
}

// DecodeBatch parses the canonical wire format, failing with a codec
// error on truncation, trailing garbage, or varint overflow (spec §4.3).
// Invariant I1: DecodeBatch(b.ToBytes()) == b for all well-formed b.
func DecodeBatch(raw []byte) (Batch, error) {
	off := 0
	addr, n, err := readAddress(raw, off)
	if err != nil {
		return Batch{}, fmt.Errorf("codec: sequencer_payment_address: %w", err)
	}
	off += n

	count, n, err := getUvarint(raw, off)
	if err != nil {
		return Batch{}, fmt.Errorf("codec: tx count: %w", err)
	}
	off += n

	// count is untrusted: bound the preallocation by the input size so a
	// bogus count fails as truncation instead of exhausting memory.
	capHint := count
	if capHint > uint64(len(raw)) {
		capHint = uint64(len(raw))
	}
	txs := make([]domain.WireTransaction, 0, capHint)
	for i := uint64(0); i < count; i++ {
		tx, n, err := readWireTransaction(raw, off)
		if err != nil {
			return Batch{}, fmt.Errorf("codec: tx[%d]: %w", i, err)
		}
		off += n
		txs = append(txs, tx)
	}

	if off != len(raw) {
		return Batch{}, ErrTrailingData
	}

	return Batch{SequencerPaymentAddress: addr, Txs: txs}, nil
}

func readAddress(buf []byte, off int) (domain.Address, int, error) {
	var a domain.Address
	if off >= len(buf) {
		return a, 0, ErrTruncated
	}
	if buf[off] != addressLengthPrefix {
		return a, 0, fmt.Errorf("codec: expected address length prefix 0x14, got 0x%x", buf[off])
	}
	start := off + 1
	end := start + len(a)
	if end > len(buf) {
		return a, 0, ErrTruncated
	}
	copy(a[:], buf[start:end])
	return a, end - off, nil
}

func readWireTransaction(buf []byte, off int) (domain.WireTransaction, int, error) {
	start := off
	var tx domain.WireTransaction

	app, n, err := readAddress(buf, off)
	if err != nil {
		return tx, 0, fmt.Errorf("app: %w", err)
	}
	off += n
	tx.App = app

	nonce, n, err := getUvarint(buf, off)
	if err != nil {
		return tx, 0, fmt.Errorf("nonce: %w", err)
	}
	off += n
	tx.Nonce = nonce

	gasPrice, n, err := getUvarintU256(buf, off)
	if err != nil {
		return tx, 0, fmt.Errorf("max_gas_price: %w", err)
	}
	off += n
	tx.MaxGasPrice = gasPrice

	dataLen, n, err := getUvarint(buf, off)
	if err != nil {
		return tx, 0, fmt.Errorf("data length: %w", err)
	}
	off += n
	if dataLen > uint64(len(buf)-off) {
		return tx, 0, fmt.Errorf("data: %w", ErrTruncated)
	}
	tx.Data = append([]byte(nil), buf[off:off+int(dataLen)]...)
	off += int(dataLen)

	if off+72 > len(buf) {
		return tx, 0, fmt.Errorf("signature: %w", ErrTruncated)
	}
	var sig domain.Signature
	copy(sig.R[:], buf[off:off+32])
	off += 32
	copy(sig.S[:], buf[off:off+32])
	off += 32
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(buf[off+i])
	}
	off += 8
	switch {
	case v == 27 || v == 0:
		sig.YParity = 0
	case v == 28 || v == 1:
		sig.YParity = 1
	default:
		return tx, 0, fmt.Errorf("signature: invalid v field %d", v)
	}
	tx.Signature = sig

	return tx, off - start, nil
}
