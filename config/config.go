// Package config loads the sequencer's startup configuration from
// environment variables, in the teacher's own style: a flat struct, a
// Load() that never panics, and an optional .env file for local
// development (spec §6).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DALayer identifies which data-availability backend publishes batches.
type DALayer string

const (
	DALayerEVM      DALayer = "EVM"
	DALayerCelestia DALayer = "Celestia"
	DALayerAvail    DALayer = "Avail"
	DALayerEspresso DALayer = "Espresso"
)

// Config holds all sequencer configuration (spec §6).
type Config struct {
	// BaseURL is the public URL this sequencer is reachable at.
	BaseURL string

	// SequencerAddress is the address credited for payment on every
	// admitted transaction.
	SequencerAddress string

	// SequencerSignerString is the hex-encoded private key the EVM DA
	// adapter signs InputBox submissions with.
	SequencerSignerString string

	// InputBoxAddress is the deployed InputBox contract (EVM DA only).
	InputBoxAddress string

	// UpstreamRPCURL is the Ethereum JSON-RPC endpoint used for the
	// gas-price gate and for the EVM DA adapter.
	UpstreamRPCURL string

	// DALayer selects which of the four DA adapters publishes batches.
	DALayer DALayer

	// AuthToken is an optional bearer token some DA backends require
	// (e.g. Espresso's submit endpoint).
	AuthToken string

	// Namespace is the Celestia blob namespace (20-byte hex, v0).
	Namespace string

	// Seed is the Avail secret URI the submit_data extrinsic is signed
	// with.
	Seed string

	// SeedWallet, when true, pre-populates WalletState with the demo
	// fixture (spec §9 "state may be seeded from a mock").
	SeedWallet bool

	// AppID is the Avail application ID the submit_data extrinsic is
	// scoped to.
	AppID uint32

	// VMID is the rollup's Espresso namespace (decimal u64).
	VMID string

	// FlushInterval is how often the batch flush loop (C8) wakes up.
	FlushInterval time.Duration

	// Port is the HTTP listen port.
	Port int
}

// Load reads configuration from environment variables, optionally backed
// by a .env file in the working directory (dev convenience, same as the
// teacher's config.Load).
func Load() (*Config, error) {
	_ = godotenv.Load() // no-op if .env absent (production uses real env vars)

	cfg := &Config{
		BaseURL:               getEnv("BASE_URL", "http://localhost:8080"),
		SequencerAddress:      getEnv("SEQUENCER_ADDRESS", ""),
		SequencerSignerString: getEnv("SEQUENCER_SIGNER_STRING", ""),
		InputBoxAddress:       getEnv("INPUT_BOX_ADDRESS", ""),
		UpstreamRPCURL:        getEnv("UPSTREAM_RPC_URL", "http://localhost:8545"),
		DALayer:               DALayer(getEnv("DA_LAYER", "EVM")),
		AuthToken:             getEnv("AUTH_TOKEN", ""),
		Namespace:             getEnv("NAMESPACE", ""),
		Seed:                  getEnv("SEED", ""),
		SeedWallet:            getEnvBool("SEED_WALLET", true),
		AppID:                 uint32(getEnvInt("APP_ID", 0)),
		VMID:                  getEnv("VM_ID", ""),
		FlushInterval:         time.Duration(getEnvInt("FLUSH_INTERVAL_SECONDS", 10)) * time.Second,
		Port:                  getEnvInt("PORT", 8080),
	}

	switch cfg.DALayer {
	case DALayerEVM, DALayerCelestia, DALayerAvail, DALayerEspresso:
	default:
		return nil, fmt.Errorf("config: DA_LAYER must be one of EVM, Celestia, Avail, Espresso; got %q", cfg.DALayer)
	}

	if cfg.DALayer == DALayerEVM {
		if cfg.SequencerAddress == "" {
			return nil, fmt.Errorf("config: SEQUENCER_ADDRESS is required for DA_LAYER=EVM")
		}
		if cfg.SequencerSignerString == "" {
			return nil, fmt.Errorf("config: SEQUENCER_SIGNER_STRING is required for DA_LAYER=EVM")
		}
		if cfg.InputBoxAddress == "" {
			return nil, fmt.Errorf("config: INPUT_BOX_ADDRESS is required for DA_LAYER=EVM")
		}
	}

	if cfg.DALayer == DALayerCelestia && cfg.Namespace == "" {
		return nil, fmt.Errorf("config: NAMESPACE is required for DA_LAYER=Celestia")
	}

	if cfg.DALayer == DALayerAvail && cfg.Seed == "" {
		return nil, fmt.Errorf("config: SEED is required for DA_LAYER=Avail")
	}

	if cfg.DALayer == DALayerEspresso && cfg.VMID == "" {
		return nil, fmt.Errorf("config: VM_ID is required for DA_LAYER=Espresso")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.ToLower(getEnv(key, ""))
	if v == "" {
		return fallback
	}
	return v == "1" || v == "true" || v == "yes"
}
