package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/cartesi/paio-sequencer/config"
	"github.com/cartesi/paio-sequencer/da"
	"github.com/cartesi/paio-sequencer/domain"
	"github.com/cartesi/paio-sequencer/service"
	"github.com/cartesi/paio-sequencer/wallet"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	var w *wallet.WalletState
	if cfg.SeedWallet {
		w = wallet.NewMockSeeded(domain.Domain)
		slog.Info("wallet state seeded from demo fixture")
	} else {
		w = wallet.NewWalletState(domain.Domain)
	}

	ctx := context.Background()

	publisher, err := da.NewFromConfig(ctx, cfg, new(big.Int).SetUint64(domain.Domain.ChainID))
	if err != nil {
		slog.Error("failed to build DA publisher", "err", err, "da_layer", cfg.DALayer)
		os.Exit(1)
	}
	slog.Info("DA layer selected", "da_layer", cfg.DALayer)

	var provider service.Provider
	if cfg.DALayer == config.DALayerEVM {
		ethProvider, err := service.NewEthProvider(ctx, cfg.UpstreamRPCURL)
		if err != nil {
			slog.Error("failed to build gas-price provider", "err", err)
			os.Exit(1)
		}
		provider = ethProvider
	}

	svc := service.New(cfg, w, publisher, provider)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: svc.Handler()}

	slog.Info("sequencer starting",
		"addr", addr,
		"base_url", cfg.BaseURL,
		"da_layer", cfg.DALayer,
		"flush_interval", cfg.FlushInterval,
		"seeded", cfg.SeedWallet,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.RunFlushLoop(gctx)
	})
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		slog.Error("sequencer exited with error", "err", err)
		os.Exit(1)
	}
}
