package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RegistryClient fetches the canonical source catalog over HTTP.
//
// A single attempt per call, bounded by the client timeout. Retries are the
// caller's concern and in practice are absorbed by the circuit breaker.
type RegistryClient struct {
	baseURL string
	client  *http.Client
}

// RegistryClientParams contains configuration for creating a RegistryClient.
type RegistryClientParams struct {
	BaseURL string
	Timeout time.Duration
}

// NewRegistryClient creates a registry client. Timeout defaults to 5s.
func NewRegistryClient(params RegistryClientParams) *RegistryClient {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RegistryClient{
		baseURL: params.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchSources retrieves all source records from the registry.
func (r *RegistryClient) FetchSources(ctx context.Context) ([]CanonicalSource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/sources", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach source registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("source registry returned %d: %s", resp.StatusCode, string(body))
	}

	var sources []CanonicalSource
	if err := json.NewDecoder(resp.Body).Decode(&sources); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}
	return sources, nil
}
