// Package replay implements the application-side reconstruction of the
// accepted-transaction sequence from a raw batch (spec §4.10). It has no
// notion of balances — funds accounting is the sequencer's business, not
// the consuming application's.
package replay

import (
	"fmt"

	"github.com/cartesi/paio-sequencer/codec"
	"github.com/cartesi/paio-sequencer/domain"
	"github.com/cartesi/paio-sequencer/wallet"
)

// AppState is a single application's replayer: its own nonce table,
// reseeded independently of the sequencer's WalletState, plus the fixed
// domain transactions were signed under (spec §3).
type AppState struct {
	Domain  domain.Eip712Domain
	Address domain.Address
	Nonces  *wallet.AppNonces
}

// NewAppState creates a replayer for address under d, with an empty
// nonce table. Callers that need to resume from a known point should
// seed individual senders before calling VerifyRawBatch.
func NewAppState(d domain.Eip712Domain, address domain.Address) *AppState {
	return &AppState{Domain: d, Address: address, Nonces: wallet.NewAppNonces()}
}

// VerifyRawBatch decodes raw, keeps only transactions addressed to this
// application, and recovers+nonce-checks each one in order, yielding the
// same deterministic accepted-transaction sequence the sequencer computed
// for this app (spec §8 invariant I8).
func (a *AppState) VerifyRawBatch(raw []byte) ([]domain.Transaction, error) {
	b, err := codec.DecodeBatch(raw)
	if err != nil {
		return nil, fmt.Errorf("replay: decoding batch: %w", err)
	}

	accepted := make([]domain.Transaction, 0, len(b.Txs))
	for _, wire := range b.Txs {
		if wire.App != a.Address {
			continue
		}
		if tx, ok := a.Nonces.VerifyTx(wire, a.Domain); ok {
			accepted = append(accepted, tx)
		}
	}
	return accepted, nil
}
