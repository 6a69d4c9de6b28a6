package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxFeedBytes bounds how much of the feed response is read.
const maxFeedBytes = 32 << 20

// FeedProduct is one entry of the external catalog. Every field is optional.
type FeedProduct struct {
	ID       *int64        `json:"id"`
	Title    *string       `json:"title"`
	Handle   *string       `json:"handle"`
	Variants []FeedVariant `json:"variants"`
}

type FeedVariant struct {
	ID    *int64    `json:"id"`
	Title *string   `json:"title"`
	Price FeedPrice `json:"price"`
}

// FeedPrice accepts both "19.99" and 19.99 on the wire and is written back as a string.
type FeedPrice string

func (p *FeedPrice) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = FeedPrice(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid variant price %s", b)
	}
	*p = FeedPrice(n.String())
	return nil
}

type feedDocument struct {
	Products []FeedProduct `json:"products"`
}

// FeedClient fetches the external product feed.
type FeedClient struct {
	URL    string
	client *http.Client
}

func NewFeedClient(url string, timeout time.Duration) *FeedClient {
	return &FeedClient{URL: url, client: &http.Client{Timeout: timeout}}
}

// Fetch downloads and decodes the feed. Unknown fields are ignored.
func (c *FeedClient) Fetch(ctx context.Context) ([]FeedProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch feed, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var doc feedDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed: %w", err)
	}
	return doc.Products, nil
}
