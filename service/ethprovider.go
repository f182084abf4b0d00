package service

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
)

// EthProvider implements Provider against a real Ethereum JSON-RPC node,
// the same ethclient the teacher's LocalFacilitator dials for settlement.
type EthProvider struct {
	client *ethclient.Client
}

// NewEthProvider dials rpcURL once at startup; SuggestGasPrice is called
// per request afterwards.
func NewEthProvider(ctx context.Context, rpcURL string) (*EthProvider, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("service: provider rpc connect: %w", err)
	}
	return &EthProvider{client: client}, nil
}

// GasPrice returns the node's suggested gas price in wei.
func (p *EthProvider) GasPrice(ctx context.Context) (uint64, error) {
	price, err := p.client.SuggestGasPrice(ctx)
	if err != nil {
		return 0, fmt.Errorf("service: provider gas_price: %w", err)
	}
	return price.Uint64(), nil
}
