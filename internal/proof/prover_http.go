package proof

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"verikyc/internal/identity"
)

// HTTPProver talks to an out-of-process proving service. Circuit execution
// is memory-heavy and versioned separately from this service, so it runs
// behind a plain JSON API.
type HTTPProver struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProver(baseURL string) *HTTPProver {
	return &HTTPProver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type proveRequest struct {
	Inputs  *identity.CircuitInputs `json:"inputs"`
	Request Request                 `json:"request"`
}

type proveResponse struct {
	Proof         string   `json:"proof"`
	PublicSignals []string `json:"public_signals"`
}

type verifyRequest struct {
	Proof         string   `json:"proof"`
	PublicSignals []string `json:"public_signals"`
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

func (p *HTTPProver) Prove(ctx context.Context, inputs *identity.CircuitInputs, req Request) (string, []string, error) {
	var out proveResponse
	if err := p.post(ctx, "/prove", proveRequest{Inputs: inputs, Request: req}, &out); err != nil {
		return "", nil, err
	}
	if out.Proof == "" {
		return "", nil, fmt.Errorf("prover returned empty proof")
	}
	return out.Proof, out.PublicSignals, nil
}

func (p *HTTPProver) Verify(ctx context.Context, proofStr string, publicSignals []string) (bool, error) {
	var out verifyResponse
	if err := p.post(ctx, "/verify", verifyRequest{Proof: proofStr, PublicSignals: publicSignals}, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

func (p *HTTPProver) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("prover %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("prover %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
