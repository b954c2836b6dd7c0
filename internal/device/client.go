// Package device fetches live data from the weather station over the local
// network.
package device

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"localweather/internal/modules/weather/types"
)

const livedataPath = "/get_livedata_info"

// Client issues bounded HTTP GETs against the station's live-data endpoint.
type Client struct {
	url  string
	http *http.Client
}

// NewClient builds a client for the station at the given IP or host. Every
// fetch is bounded by the given timeout.
func NewClient(ip string, timeout time.Duration) *Client {
	return &Client{
		url:  "http://" + ip + livedataPath,
		http: &http.Client{Timeout: timeout},
	}
}

// URL returns the station endpoint the client polls.
func (c *Client) URL() string {
	return c.url
}

// Fetch performs one live-data request and returns both the raw body (kept
// for the /raw debugging endpoint) and the decoded payload.
func (c *Client) Fetch(ctx context.Context) (json.RawMessage, *types.RawObservation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetch %s: unexpected status %d", c.url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}

	var raw types.RawObservation
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, nil, fmt.Errorf("decode live data: %w", err)
	}
	return body, &raw, nil
}
