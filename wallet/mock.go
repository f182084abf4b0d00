package wallet

import "github.com/cartesi/paio-sequencer/domain"

// addrN builds a placeholder Address whose last byte is n, for fixtures
// only (mirrors the original prototype's toy integer addresses).
func addrN(n byte) domain.Address {
	var a domain.Address
	a[len(a)-1] = n
	return a
}

// NewMockSeeded reproduces the original prototype's mock_lambda() demo
// fixture: a couple of pre-seeded senders with nonce and balance history,
// useful for local development and for the nonce-query boundary test
// (spec §8 scenario 5).
func NewMockSeeded(d domain.Eip712Domain) *WalletState {
	w := NewWalletState(d)

	app3 := addrN(3)
	app22 := addrN(22)
	user99 := addrN(99)
	user45 := addrN(45)

	w.SeedNonce(app3, user99, 3)
	w.SeedNonce(app22, user99, 22)
	w.SeedBalance(user99, domain.NewU256FromUint64(234))

	app1 := addrN(1)
	w.SeedNonce(app1, user45, 92)
	w.SeedNonce(app22, user45, 111)
	w.SeedBalance(user45, domain.NewU256FromUint64(98))

	return w
}
