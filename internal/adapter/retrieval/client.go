// Package retrieval calls an external HTTP retrieval service for prompt context.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// ErrNotConfigured is returned when no retrieval endpoint is set.
var ErrNotConfigured = errors.New("retrieval endpoint not configured")

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Context   string            `json:"context"`
	Documents []domain.Document `json:"documents"`
}

// Client posts queries to the retrieval endpoint.
type Client struct {
	httpClient *resty.Client
	url        string
	apiKey     string
}

// NewClient creates a retrieval client. An empty url yields a client whose
// calls fail with ErrNotConfigured.
func NewClient(url, apiKey string, timeout time.Duration) *Client {
	client := resty.New().
		SetHeader("User-Agent", "GenAlima-Retrieval/1.0").
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Client{
		httpClient: client,
		url:        url,
		apiKey:     apiKey,
	}
}

// Retrieve fetches context for query.
func (c *Client) Retrieve(ctx context.Context, query string) (domain.RetrievedContext, error) {
	if c.url == "" {
		return domain.RetrievedContext{}, ErrNotConfigured
	}

	var result searchResponse
	req := c.httpClient.R().
		SetContext(ctx).
		SetBody(searchRequest{Query: query}).
		SetResult(&result)
	if c.apiKey != "" {
		req.SetAuthToken(c.apiKey)
	}

	resp, err := req.Post(c.url)
	if err != nil {
		return domain.RetrievedContext{}, fmt.Errorf("failed to query retrieval endpoint: %w", err)
	}
	if resp.IsError() {
		return domain.RetrievedContext{}, fmt.Errorf("retrieval endpoint error (status %d): %s", resp.StatusCode(), resp.String())
	}

	return domain.RetrievedContext{Text: result.Context, Documents: result.Documents}, nil
}
