package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const searchLimit = 10

// Client is a client for the public software catalog search and lookup API.
type Client struct {
	BaseURL string
	Country string
	client  *http.Client
}

// NewClient creates a new catalog client. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL, country string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if country == "" {
		country = "us"
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Country: country,
		client:  httpClient,
	}
}

// Search queries the catalog for software matching term and returns the first hit.
// No ranking is applied: the caller must supply a query specific enough that
// the first result is the intended app.
func (c *Client) Search(ctx context.Context, term string) (Entry, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Entry{}, fmt.Errorf("search term is required")
	}

	q := url.Values{}
	q.Set("term", term)
	q.Set("entity", "software")
	q.Set("limit", strconv.Itoa(searchLimit))

	results, err := c.get(ctx, "/search", q)
	if err != nil {
		return Entry{}, err
	}
	if len(results) == 0 {
		return Entry{}, fmt.Errorf("%w for %q", ErrNoResults, term)
	}
	return results[0], nil
}

// Lookup fetches live metadata for the given catalog ids.
func (c *Client) Lookup(ctx context.Context, ids []int64) ([]Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}

	q := url.Values{}
	q.Set("id", strings.Join(parts, ","))
	q.Set("country", c.Country)

	return c.get(ctx, "/lookup", q)
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]Entry, error) {
	u := fmt.Sprintf("%s%s?%s", c.BaseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return body.Results, nil
}
