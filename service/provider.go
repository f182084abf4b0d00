package service

import "context"

// Provider is the narrow slice of an Ethereum JSON-RPC client the
// admission service needs for its gas-price gate (spec §4.7 step 2).
// Kept as its own interface, the way the teacher keeps FacilitatorClient
// separate from the concrete client that implements it, so tests can
// supply a stub instead of dialing a real node.
type Provider interface {
	GasPrice(ctx context.Context) (uint64, error)
}
