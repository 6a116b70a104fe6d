package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
	"github.com/palatelog/palatelog-backend/internal/sync"
)

// StatusError is returned for any non-2xx response so callers can decide
// whether the failure is worth retrying.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote returned status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) HTTPStatusCode() int { return e.StatusCode }

// Client talks to the remote restaurant collection. Timeouts are the
// caller's responsibility via ctx; the underlying http.Client has none of
// its own.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(baseURL string, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        log.With("client", "RemoteClient"),
	}
}

// FetchRestaurants pulls the entire remote collection in one request.
func (c *Client) FetchRestaurants(ctx context.Context) ([]sync.RemoteRestaurant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/restaurants", nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch restaurants: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: readBodyPrefix(resp.Body)}
	}

	var restaurants []sync.RemoteRestaurant
	if err := json.NewDecoder(resp.Body).Decode(&restaurants); err != nil {
		return nil, fmt.Errorf("decode restaurants payload: %w", err)
	}
	return restaurants, nil
}

// UploadBatch pushes one batch of restaurants. Any 2xx counts as success.
func (c *Client) UploadBatch(ctx context.Context, batch []sync.RemoteRestaurant) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/restaurants/batch", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: readBodyPrefix(resp.Body)}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func readBodyPrefix(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
