package da

import (
	"context"
	"fmt"
	"math/big"

	"github.com/cartesi/paio-sequencer/config"
)

// NewFromConfig selects and builds the Publisher cfg.DALayer names,
// mirroring the teacher's own switch-on-config strategy selection in
// main.go (there it picks a FacilitatorClient; here it picks a
// Publisher). Adapter selection is static per configuration (spec §4.9).
func NewFromConfig(ctx context.Context, cfg *config.Config, chainID *big.Int) (Publisher, error) {
	switch cfg.DALayer {
	case config.DALayerEVM:
		return NewEVMPublisher(cfg.UpstreamRPCURL, cfg.SequencerSignerString, cfg.InputBoxAddress, cfg.SequencerAddress, chainID)

	case config.DALayerCelestia:
		return NewCelestiaPublisher(ctx, cfg.UpstreamRPCURL, cfg.AuthToken, cfg.Namespace)

	case config.DALayerAvail:
		return NewAvailPublisher(cfg.UpstreamRPCURL, cfg.Seed, cfg.AppID)

	case config.DALayerEspresso:
		var namespace uint64
		if _, err := fmt.Sscanf(cfg.VMID, "%d", &namespace); err != nil {
			return nil, fmt.Errorf("da: espresso VM_ID must be a decimal u64: %w", err)
		}
		return NewEspressoPublisher(cfg.UpstreamRPCURL, namespace, cfg.AuthToken), nil

	default:
		return nil, fmt.Errorf("da: unknown DA_LAYER %q", cfg.DALayer)
	}
}
