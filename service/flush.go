package service

import (
	"context"
	"time"
)

// RunFlushLoop implements spec §4.8: sleep T, acquire the mutex (inside
// buildBatch), flush if non-empty, repeat. Sleep happens outside the
// lock. Returns when ctx is canceled, so callers can run it inside an
// errgroup.Group alongside the HTTP server (spec's C8 note: "Runs as a
// goroutine launched by main alongside the HTTP server under one
// errgroup.Group").
func (s *Service) RunFlushLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.buildBatch(ctx)
		}
	}
}
