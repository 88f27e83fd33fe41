package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/singleflight"
)

// JSONWebKey is one entry of a JWKS document. Only the members needed for
// RSA and P-256 verification keys are decoded.
type JSONWebKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Alg string `json:"alg,omitempty"`
	Use string `json:"use,omitempty"`
	N   string `json:"n,omitempty"`
	E   string `json:"e,omitempty"`
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
}

// KeySet is a decoded JWKS document.
type KeySet struct {
	Keys []JSONWebKey `json:"keys"`
}

// Lookup returns the key with the given id.
func (s *KeySet) Lookup(kid string) (JSONWebKey, bool) {
	if s == nil {
		return JSONWebKey{}, false
	}
	for _, key := range s.Keys {
		if key.Kid == kid {
			return key, true
		}
	}
	return JSONWebKey{}, false
}

// KeySetFetcher retrieves the signing key set.
type KeySetFetcher interface {
	FetchKeySet(ctx context.Context) (*KeySet, error)
}

// HTTPKeySetFetcher downloads a JWKS document from a fixed URL.
type HTTPKeySetFetcher struct {
	url     string
	timeout time.Duration
}

// NewHTTPKeySetFetcher builds a fetcher with the given request timeout.
// A non-positive timeout uses 5s.
func NewHTTPKeySetFetcher(url string, timeout time.Duration) *HTTPKeySetFetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPKeySetFetcher{url: url, timeout: timeout}
}

// FetchKeySet performs one GET against the JWKS endpoint. The request gives
// up at the fetcher timeout or the context deadline, whichever is sooner.
func (f *HTTPKeySetFetcher) FetchKeySet(ctx context.Context) (*KeySet, error) {
	if f.url == "" {
		return nil, errors.New("key set url not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := f.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Get(f.url).
		Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON).
		Timeout(timeout)
	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("key set fetch: %w", err)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("key set fetch: %w", errors.Join(errs...))
	}
	if status != fiber.StatusOK {
		return nil, fmt.Errorf("key set fetch: unexpected status %d", status)
	}

	var set KeySet
	if err := json.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("decode key set: %w", err)
	}
	return &set, nil
}

// KeySetCache holds the first key set successfully fetched for the lifetime of
// the process. It is never refreshed, so rotated keys are only picked up after
// a restart. Failed fetches are not cached. Concurrent first use shares a
// single fetch.
type KeySetCache struct {
	fetcher KeySetFetcher
	group   singleflight.Group

	mu  sync.RWMutex
	set *KeySet
}

// NewKeySetCache wraps fetcher.
func NewKeySetCache(fetcher KeySetFetcher) *KeySetCache {
	return &KeySetCache{fetcher: fetcher}
}

// Get returns the cached key set, fetching it on first use.
func (c *KeySetCache) Get(ctx context.Context) (*KeySet, error) {
	c.mu.RLock()
	set := c.set
	c.mu.RUnlock()
	if set != nil {
		return set, nil
	}

	v, err, _ := c.group.Do("jwks", func() (interface{}, error) {
		c.mu.RLock()
		cached := c.set
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		fetched, err := c.fetcher.FetchKeySet(ctx)
		if err != nil {
			return nil, err
		}
		if fetched == nil {
			return nil, errors.New("empty key set")
		}

		c.mu.Lock()
		c.set = fetched
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*KeySet), nil
}
