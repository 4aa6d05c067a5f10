package catalog

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheTransport is an http.RoundTripper that keeps successful GET responses
// in an expiring LRU so repeated lookups within the TTL never reach the catalog.
type CacheTransport struct {
	next  http.RoundTripper
	cache *expirable.LRU[string, []byte]
}

// NewCacheTransport wraps next (http.DefaultTransport when nil).
func NewCacheTransport(next http.RoundTripper, size int, ttl time.Duration) *CacheTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &CacheTransport{
		next:  next,
		cache: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

// NewCachingHTTPClient returns an http.Client whose transport is a CacheTransport.
func NewCachingHTTPClient(size int, ttl time.Duration) *http.Client {
	return &http.Client{Transport: NewCacheTransport(nil, size, ttl)}
}

// RoundTrip implements http.RoundTripper.
func (c *CacheTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return c.next.RoundTrip(req)
	}

	key := req.URL.String()
	if val, ok := c.cache.Get(key); ok {
		slog.Debug("catalog cache hit", "url", key)
		return responseFromBytes(val, req)
	}

	resp, err := c.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	// only cache successful responses
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, nil
	}

	v, err := httputil.DumpResponse(resp, true)
	if err != nil {
		slog.Error("failed to dump catalog response", "error", err)
		return resp, nil
	}
	_ = resp.Body.Close()

	c.cache.Add(key, v)

	return responseFromBytes(v, req)
}

// Len reports the number of cached responses.
func (c *CacheTransport) Len() int {
	return c.cache.Len()
}

func responseFromBytes(v []byte, req *http.Request) (*http.Response, error) {
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(v)), req)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached response: %w", err)
	}
	return resp, nil
}
