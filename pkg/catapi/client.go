package catapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dskvich/catpic-telegram-bot/pkg/domain"
)

const sourceID = "thecatapi"

type client struct {
	url    string
	apiKey string
	hc     *http.Client
}

// NewClient creates a single-shot adapter for thecatapi random image
// endpoint. Retry policy belongs to the caller.
func NewClient(url, apiKey string) *client {
	return &client{
		url:    url,
		apiKey: apiKey,
		hc:     &http.Client{},
	}
}

func (c *client) ID() string { return sourceID }

type searchItem struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (c *client) FetchRandom(ctx context.Context) (domain.ImageRef, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.ImageRef{}, fmt.Errorf("creating HTTP request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return domain.ImageRef{}, fmt.Errorf("%w: executing HTTP request: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.ImageRef{}, fmt.Errorf("%w: status code %d", domain.ErrRateLimited, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return domain.ImageRef{}, fmt.Errorf("%w: status code %d", domain.ErrUnavailable, resp.StatusCode)
	}

	var items []searchItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return domain.ImageRef{}, fmt.Errorf("%w: decoding response: %v", domain.ErrMalformedResponse, err)
	}
	if len(items) == 0 {
		return domain.ImageRef{}, fmt.Errorf("%w: empty response", domain.ErrMalformedResponse)
	}
	if items[0].ID == "" || items[0].URL == "" {
		return domain.ImageRef{}, fmt.Errorf("%w: response misses id or url", domain.ErrMalformedResponse)
	}

	return domain.ImageRef{
		SourceID: sourceID,
		ImageID:  items[0].ID,
		URL:      items[0].URL,
	}, nil
}
