package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseSizeBytes = 2 << 20

// APIClient is the thin HTTP client for the backend's /invoke endpoint.
// Operation failures travel in-band inside the returned JSON, so the
// error return covers transport problems only.
type APIClient struct {
	apiURL     string
	httpClient *http.Client
}

func NewAPIClient(apiURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &APIClient{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *APIClient) Invoke(tool string, params map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{"tool": tool, "params": params})
	if err != nil {
		return nil, fmt.Errorf("marshal invoke request: %w", err)
	}

	resp, err := c.httpClient.Post(c.apiURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("execute invoke request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read invoke response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invoke http status=%d body=%s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
