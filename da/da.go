// Package da implements the pluggable data-availability layer: a single
// Publisher interface with one implementation per backend the batch flush
// loop (C8) can target, selected statically from config.Config.DALayer
// (spec §4.9). Each adapter follows the teacher's own approach to talking
// to a chain: a thin wrapper around a real client library, manual
// encoding where the teacher itself encodes manually, no abstraction
// beyond what Publish needs.
package da

import "context"

// Publisher publishes a raw, already-encoded batch (codec.Batch.ToBytes)
// to a data-availability backend and returns once the backend has
// durably accepted it.
type Publisher interface {
	Publish(ctx context.Context, raw []byte) error
}
