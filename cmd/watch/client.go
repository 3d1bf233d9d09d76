package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/quantgate/signal-sentinel/internal/types"
)

// apiClient polls the sentinel HTTP API.
type apiClient struct {
	baseURL string
	client  *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// ListSignals fetches every signal, optionally filtered by ticker.
func (c *apiClient) ListSignals(ticker string) ([]types.Signal, error) {
	url := c.baseURL + "/api/v1/signals"
	if ticker != "" {
		url += "?ticker=" + ticker
	}

	resp, err := c.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var signals []types.Signal
	if err := json.NewDecoder(resp.Body).Decode(&signals); err != nil {
		return nil, fmt.Errorf("failed to decode signals: %w", err)
	}

	return signals, nil
}
