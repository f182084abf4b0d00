package da

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	openrpc "github.com/celestiaorg/celestia-openrpc"
	"github.com/celestiaorg/celestia-openrpc/types/blob"
	"github.com/celestiaorg/celestia-openrpc/types/share"
)

// CelestiaPublisher submits the raw batch as a single blob under a fixed
// v0 namespace, via the real celestia-openrpc client (spec §4.9 Celestia).
// This library is not present verbatim anywhere in the retrieval pack —
// see DESIGN.md for why it was adopted anyway.
type CelestiaPublisher struct {
	client    *openrpc.Client
	namespace share.Namespace
}

// NewCelestiaPublisher dials a celestia-node RPC endpoint and parses
// namespaceHex (20-byte hex, v0) into a share.Namespace.
func NewCelestiaPublisher(ctx context.Context, rpcURL, authToken, namespaceHex string) (*CelestiaPublisher, error) {
	client, err := openrpc.NewClient(ctx, rpcURL, authToken)
	if err != nil {
		return nil, fmt.Errorf("da: celestia rpc connect: %w", err)
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(namespaceHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("da: celestia namespace must be hex: %w", err)
	}
	ns, err := share.NewBlobNamespaceV0(raw)
	if err != nil {
		return nil, fmt.Errorf("da: celestia namespace: %w", err)
	}

	return &CelestiaPublisher{client: client, namespace: ns}, nil
}

// Publish builds one blob from raw under the configured namespace and
// submits it with the node's default gas price.
func (p *CelestiaPublisher) Publish(ctx context.Context, raw []byte) error {
	b, err := blob.NewBlobV0(p.namespace, raw)
	if err != nil {
		return fmt.Errorf("da: celestia building blob: %w", err)
	}

	// DefaultGasPrice lets the node pick its own fee (spec §4.9: "call
	// blob_submit with default gas").
	height, err := p.client.Blob.Submit(ctx, []*blob.Blob{b}, blob.DefaultGasPrice())
	if err != nil {
		return fmt.Errorf("da: celestia blob_submit: %w", err)
	}
	_ = height
	return nil
}
