// Package service implements the admission HTTP surface (C7) and the
// batch flush loop (C8): one concurrent submission endpoint and a
// timer-driven background task, sharing mutable state under a single
// coarse lock (spec §5, §6). Routing follows the teacher's own taste for
// a plain net/http.ServeMux rather than a framework.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/cartesi/paio-sequencer/batch"
	"github.com/cartesi/paio-sequencer/config"
	"github.com/cartesi/paio-sequencer/da"
	"github.com/cartesi/paio-sequencer/domain"
	"github.com/cartesi/paio-sequencer/wallet"
)

// Service holds every piece of mutable sequencer state behind one mutex
// (spec §5: "All mutable service state ... lives behind one coarse
// mutex. Every handler and the flush task acquires this mutex for the
// full duration of its state-touching work."). There is deliberately no
// finer-grained locking here.
type Service struct {
	mu sync.Mutex

	cfg     *config.Config
	wallet  *wallet.WalletState
	builder *batch.Builder
	da      da.Publisher

	provider Provider // nil unless cfg.DALayer == EVM
	cursor   *cursorSigner
}

// New wires a Service from its already-constructed dependencies. main
// (cmd/paio-sequencer) is responsible for building w, the DA publisher,
// and the optional Provider the way the teacher's main.go builds its
// facilitator before handing it to the middleware.
func New(cfg *config.Config, w *wallet.WalletState, publisher da.Publisher, provider Provider) *Service {
	return &Service{
		cfg:      cfg,
		wallet:   w,
		builder:  batch.New(mustAddress(cfg.SequencerAddress)),
		da:       publisher,
		provider: provider,
		cursor:   newCursorSigner(cfg.SequencerAddress),
	}
}

func mustAddress(hexAddr string) domain.Address {
	a, err := domain.AddressFromHex(hexAddr)
	if err != nil {
		// Config.Load requires SEQUENCER_ADDRESS to be set for
		// DA_LAYER=EVM; an unparsable value, or an empty one under other
		// DA layers, degrades to the zero address rather than panicking
		// at startup.
		return domain.ZeroAddress
	}
	return a
}

// Handler builds the service's http.Handler, routing the six endpoints
// spec §6 names onto a bare ServeMux (the teacher routes everything
// through one handler too — x402.Middleware — rather than a router
// library).
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /transaction", s.handleSubmitTransaction)
	mux.HandleFunc("POST /nonce", s.handleGetNonce)
	mux.HandleFunc("GET /domain", s.handleGetDomain)
	mux.HandleFunc("GET /gas", s.handleGetGasPrice)
	mux.HandleFunc("GET /batch", s.handleGetBatch)
	mux.HandleFunc("GET /health", s.handleHealth)
	return withRequestLogging(withCORS(mux))
}

// handleSubmitTransaction implements spec §4.7's submit_transaction
// contract exactly: authenticate, gate on gas price (EVM only), admit,
// always append, respond.
func (s *Service) handleSubmitTransaction(w http.ResponseWriter, r *http.Request) {
	var signed domain.SignedTransaction
	if err := json.NewDecoder(r.Body).Decode(&signed); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	// max_gas_price is a u128 field; wider values would encode into a
	// batch that codec.DecodeBatch rejects.
	if signed.Message.MaxGasPrice.Big().BitLen() > 128 {
		http.Error(w, "invalid request body: max_gas_price exceeds 128 bits", http.StatusBadRequest)
		return
	}
	wire := signed.ToWire()

	// Step 1: authenticate. Recovery is pure and needs no lock.
	s.mu.Lock()
	d := s.wallet.Domain()
	s.mu.Unlock()
	prehash := domain.SigningHash(signed.Message, d)
	if _, err := domain.Recover(signed.Signature, prehash); err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	// Step 2: gas gate, EVM only, held with no lock (spec §5: "gas_price()
	// inside submit_transaction suspends while holding no lock ... a
	// TOCTOU window on the gas price; acceptable, the gate is advisory").
	if s.cfg.DALayer == config.DALayerEVM {
		offered := signed.Message.MaxGasPrice
		needed, err := s.provider.GasPrice(r.Context())
		if err != nil {
			http.Error(w, "gas price unavailable", http.StatusInternalServerError)
			return
		}
		if offered.Cmp(domain.NewU256FromUint64(needed)) < 0 {
			http.Error(w, fmt.Sprintf("Max gas too small, offered %s, needed %d", offered.String(), needed), http.StatusPaymentRequired)
			return
		}
	}

	s.mu.Lock()
	_, admitted := s.wallet.VerifySingle(s.builder.SequencerPaymentAddress, wire)
	s.builder.Add(signed) // always append, admitted or not (spec §9)
	s.mu.Unlock()

	if !admitted {
		http.Error(w, "Transaction not valid", http.StatusNotAcceptable)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type nonceRequest struct {
	User        domain.Address `json:"user"`
	Application domain.Address `json:"application"`
}

type nonceResponse struct {
	Nonce uint64 `json:"nonce"`
}

func (s *Service) handleGetNonce(w http.ResponseWriter, r *http.Request) {
	var req nonceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	nonce := s.wallet.Nonce(req.Application, req.User)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, nonceResponse{Nonce: nonce})
}

func (s *Service) handleGetDomain(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	d := s.wallet.Domain()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, d)
}

func (s *Service) handleGetGasPrice(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	provider := s.provider
	s.mu.Unlock()

	if provider == nil {
		writeJSON(w, http.StatusOK, domain.NewU256FromUint64(0))
		return
	}
	price, err := provider.GasPrice(r.Context())
	if err != nil {
		http.Error(w, "gas price unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, domain.NewU256FromUint64(price))
}

func (s *Service) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snapshot := s.builder.Clone()
	pending := snapshot.Len()
	s.mu.Unlock()

	if token := s.cursor.issue(pending); token != "" {
		w.Header().Set("X-Batch-Cursor", token)
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	pending := s.builder.Len()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, struct {
		Status  string `json:"status"`
		Pending int    `json:"pending_transactions"`
	}{Status: "ok", Pending: pending})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("service: encoding response failed", "err", err)
	}
}

// buildBatch implements spec §4.8's build_batch sequence: snapshot and
// reset the builder, serialize, and dispatch to the DA adapter. Errors
// from DA publication are logged but never roll back the reset — the
// builder always starts fresh after a flush attempt (spec §9).
func (s *Service) buildBatch(ctx context.Context) {
	s.mu.Lock()
	if s.builder.Len() == 0 {
		s.mu.Unlock()
		return
	}
	snapshot := s.builder.Build()
	s.builder = batch.New(s.builder.SequencerPaymentAddress)
	s.mu.Unlock()

	raw := snapshot.ToBytes()
	if err := s.da.Publish(ctx, raw); err != nil {
		slog.Error("service: batch publish failed", "err", err, "txs", len(snapshot.Txs))
		return
	}
	slog.Info("service: batch published", "txs", len(snapshot.Txs), "bytes", len(raw))
}
