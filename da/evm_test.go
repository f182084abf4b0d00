package da

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestPackAddInputLayout(t *testing.T) {
	dapp := common.HexToAddress("0x00000000000000000000000000000000000009")
	payload := []byte("hi") // 2 bytes, pads to one 32-byte word

	got := packAddInput(dapp, payload)

	wantLen := 4 + 32 + 32 + 32 + 32 // selector + dapp + offset + length + padded payload
	if len(got) != wantLen {
		t.Fatalf("packAddInput length = %d, want %d", len(got), wantLen)
	}

	if hex.EncodeToString(got[:4]) != hex.EncodeToString(addInputSig) {
		t.Fatalf("selector mismatch: got %x, want %x", got[:4], addInputSig)
	}

	// dapp address occupies the low 20 bytes of the first head word.
	gotDapp := got[4+12 : 4+32]
	if common.BytesToAddress(gotDapp) != dapp {
		t.Fatalf("dapp address word mismatch: got %x", gotDapp)
	}

	// offset word points past the two head words (0x40 = 64).
	offsetWord := got[4+32 : 4+64]
	if offsetWord[31] != 0x40 {
		t.Fatalf("expected offset word to equal 64, got %x", offsetWord)
	}

	// length word equals len(payload).
	lengthWord := got[4+64 : 4+96]
	if lengthWord[31] != byte(len(payload)) {
		t.Fatalf("expected length word to equal %d, got %x", len(payload), lengthWord)
	}

	// payload occupies the start of the final, right-padded word.
	tail := got[4+96:]
	if string(tail[:len(payload)]) != string(payload) {
		t.Fatalf("payload mismatch: got %x", tail[:len(payload)])
	}
	for _, b := range tail[len(payload):] {
		if b != 0 {
			t.Fatalf("expected zero right-padding, got %x", tail)
		}
	}
}

func TestPad32BigLeftPads(t *testing.T) {
	got := pad32Big(big.NewInt(64))
	if len(got) != 32 {
		t.Fatalf("pad32Big must return 32 bytes, got %d", len(got))
	}
	if got[31] != 64 {
		t.Fatalf("expected last byte to be 64, got %d", got[31])
	}
	for _, b := range got[:31] {
		if b != 0 {
			t.Fatalf("expected leading zero padding, got %x", got)
		}
	}
}
