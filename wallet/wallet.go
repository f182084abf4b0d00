package wallet

import (
	"github.com/cartesi/paio-sequencer/domain"
)

// WalletState holds every application's nonce table and every sender's
// prepaid balance, plus the fixed EIP-712 domain transactions are
// verified against (spec §3, §4.5).
type WalletState struct {
	domain    domain.Eip712Domain
	appNonces map[domain.Address]*AppNonces
	balances  map[domain.Address]domain.U256
}

// NewWalletState creates an empty WalletState under d.
func NewWalletState(d domain.Eip712Domain) *WalletState {
	return &WalletState{
		domain:    d,
		appNonces: make(map[domain.Address]*AppNonces),
		balances:  make(map[domain.Address]domain.U256),
	}
}

// Domain returns the EIP-712 domain this wallet state verifies against.
func (w *WalletState) Domain() domain.Eip712Domain { return w.domain }

// AppNonces returns the nonce table for app, creating it if absent.
func (w *WalletState) AppNonces(app domain.Address) *AppNonces {
	n, ok := w.appNonces[app]
	if !ok {
		n = NewAppNonces()
		w.appNonces[app] = n
	}
	return n
}

// Nonce returns the next-expected nonce for (app, sender), 0 if either is
// unseen (spec §4.7 get_nonce).
func (w *WalletState) Nonce(app, sender domain.Address) uint64 {
	n, ok := w.appNonces[app]
	if !ok {
		return 0
	}
	return n.Get(sender)
}

// Balance returns the current balance for addr, 0 if unseen.
func (w *WalletState) Balance(addr domain.Address) domain.U256 {
	return w.balances[addr]
}

// SeedBalance sets addr's balance directly. Used only by test/mock
// fixtures at startup — WalletState has no other way to increase a
// balance, since crediting happens only via deposit (sequencer payment).
func (w *WalletState) SeedBalance(addr domain.Address, amount domain.U256) {
	w.balances[addr] = amount
}

// SeedNonce pre-advances (app, sender)'s nonce to n. Used only by test/
// mock fixtures at startup.
func (w *WalletState) SeedNonce(app, sender domain.Address, n uint64) {
	w.AppNonces(app).Seed(sender, n)
}

// withdrawForced debits up to value from user's balance, capping at the
// current balance rather than failing (spec §4.5): if balance < value,
// the balance is zeroed and the prior balance is returned; otherwise
// value is subtracted and returned in full.
func (w *WalletState) withdrawForced(user domain.Address, value domain.U256) domain.U256 {
	balance := w.balances[user]
	if balance.Cmp(value) < 0 {
		w.balances[user] = domain.NewU256FromUint64(0)
		return balance
	}
	w.balances[user] = balance.Sub(value)
	return value
}

// deposit credits user's balance by value.
func (w *WalletState) deposit(user domain.Address, value domain.U256) {
	w.balances[user] = w.balances[user].Add(value)
}

// VerifySingle authenticates and admits one wire transaction under app,
// debiting its cost from the sender and crediting sequencerAddr (spec
// §4.5). Admission succeeds even when the sender's balance falls short
// of the true cost — the sender is merely zeroed (spec §9).
func (w *WalletState) VerifySingle(sequencerAddr domain.Address, wire domain.WireTransaction) (domain.Transaction, bool) {
	tx, ok := w.AppNonces(wire.App).VerifyTx(wire, w.domain)
	if !ok {
		return domain.Transaction{}, false
	}

	cost, costOK := tx.Cost()
	if !costOK {
		cost = domain.MaxU256()
	}

	payment := w.withdrawForced(tx.Sender, cost)
	w.deposit(sequencerAddr, payment)

	return tx, true
}

// VerifyBatch iterates batch.Txs in order, admitting each against
// sequencerAddr, and returns the accepted transactions. Nonce advances
// and balance mutations accumulate across the iteration (spec §4.5).
func (w *WalletState) VerifyBatch(sequencerAddr domain.Address, txs []domain.WireTransaction) []domain.Transaction {
	accepted := make([]domain.Transaction, 0, len(txs))
	for _, wire := range txs {
		if tx, ok := w.VerifySingle(sequencerAddr, wire); ok {
			accepted = append(accepted, tx)
		}
	}
	return accepted
}
