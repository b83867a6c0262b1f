// Package pexels is the client for the Pexels photo-search API.
//
// Only the single-best-match path is implemented: one result per query, the
// medium-resolution source URL. Failures are classified so the caller can
// log the exact kind, but every failure means the same thing to the product
// flow — no photo, use the fallback image.
package pexels

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shashiranjanraj/shoplist/config"
	"github.com/shashiranjanraj/shoplist/pkg/http"
)

// Failure kinds. ErrUnreachable wraps transport-level errors, ErrDecode
// wraps malformed response bodies; HTTP status failures are *StatusError.
var (
	ErrUnreachable = errors.New("pexels: network unreachable")
	ErrDecode      = errors.New("pexels: malformed response")
)

// StatusError reports a non-success HTTP status from the API.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pexels: http status %d", e.Code)
}

// Client calls the photo-search endpoint. One attempt per invocation; the
// transport default timeout governs the call.
type Client struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewFromConfig builds a Client from PEXELS_BASE_URL / PEXELS_API_KEY.
func NewFromConfig() *Client {
	return &Client{
		BaseURL: config.PexelsBaseURL(),
		APIKey:  config.PexelsAPIKey(),
		Timeout: 30 * time.Second,
	}
}

// searchResponse mirrors the fields of the API response this client uses.
type searchResponse struct {
	Photos []photo `json:"photos"`
}

type photo struct {
	ID  int      `json:"id"`
	Src photoSrc `json:"src"`
}

type photoSrc struct {
	Medium string `json:"medium"`
}

// Search runs a single-result text search and returns the best match's
// medium-resolution URL. An empty URL with a nil error means the API
// answered with zero results.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	endpoint := fmt.Sprintf("%s/search?query=%s&per_page=1&page=1",
		c.BaseURL, url.QueryEscape(query))

	resp, err := http.Get(endpoint).
		Header("Authorization", c.APIKey).
		Timeout(c.Timeout).
		WithContext(ctx).
		Send()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if !resp.OK() {
		return "", &StatusError{Code: resp.StatusCode}
	}

	var body searchResponse
	if err := resp.JSON(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if len(body.Photos) == 0 {
		return "", nil
	}
	return body.Photos[0].Src.Medium, nil
}
