package da

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// espressoSubmitPath is Espresso's public submit endpoint (spec §4.9).
const espressoSubmitPath = "/v0/submit/submit"

// espressoTransaction is the request body Espresso's submit endpoint
// expects: a namespace and a base64 payload.
type espressoTransaction struct {
	Namespace uint64 `json:"namespace"`
	Payload   string `json:"payload"`
}

// EspressoPublisher POSTs the raw batch to an Espresso sequencer's submit
// endpoint (spec §4.9 Espresso). No SDK for this exists in the retrieval
// pack, so it is built directly on net/http, the way the teacher's own
// proxy.RPC wraps a plain http.Client.
type EspressoPublisher struct {
	baseURL   string
	namespace uint64
	authToken string
	client    *http.Client
}

// NewEspressoPublisher builds an EspressoPublisher targeting baseURL
// (e.g. "https://query.cappuccino.testnet.espresso.network") with the
// given rollup namespace and optional bearer token.
func NewEspressoPublisher(baseURL string, namespace uint64, authToken string) *EspressoPublisher {
	return &EspressoPublisher{
		baseURL:   baseURL,
		namespace: namespace,
		authToken: authToken,
		client:    &http.Client{},
	}
}

// Publish POSTs raw as the base64 payload of an EspressoTransaction.
func (p *EspressoPublisher) Publish(ctx context.Context, raw []byte) error {
	body, err := json.Marshal(espressoTransaction{
		Namespace: p.namespace,
		Payload:   base64.StdEncoding.EncodeToString(raw),
	})
	if err != nil {
		return fmt.Errorf("da: espresso encoding transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+espressoSubmitPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("da: espresso building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.authToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("da: espresso submit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("da: espresso submit returned %s: %s", strconv.Itoa(resp.StatusCode), string(detail))
	}
	return nil
}
