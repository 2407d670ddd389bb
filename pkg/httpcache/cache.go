package httpcache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/bhwanip/apollo-server/pkg/keyvalue"
	"github.com/bhwanip/apollo-server/pkg/logging"
)

// storeKeyPrefix namespaces cache entries inside shared stores.
const storeKeyPrefix = "httpcache:"

// Fetcher executes origin requests on behalf of the cache. *http.Client
// satisfies it.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(*http.Request) (*http.Response, error)

// Do calls f.
func (f FetcherFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// CacheOptions overrides the header-derived storage policy for one fetch.
// A TTL of 0 (or less) disables storage entirely; a positive TTL forces
// storage for that long no matter what Cache-Control says.
type CacheOptions struct {
	TTL time.Duration
}

// FetchOptions tunes a single Fetch call.
type FetchOptions struct {
	// CacheKey replaces the URL-derived cache key verbatim, letting
	// callers share one cache slot across requests.
	CacheKey string

	// CacheOptions, when non-nil, is a fixed storage override.
	CacheOptions *CacheOptions

	// CacheOptionsFn computes the storage override once the origin
	// response is known. It takes precedence over CacheOptions. On the
	// revalidation path it sees the 304's headers with the confirmed 200
	// status.
	CacheOptionsFn func(*http.Response, *http.Request) CacheOptions
}

// override resolves the two override forms into one value; nil means header
// policy applies.
func (o FetchOptions) override(resp *http.Response, req *http.Request) *CacheOptions {
	if o.CacheOptionsFn != nil {
		co := o.CacheOptionsFn(resp, req)
		return &co
	}
	return o.CacheOptions
}

// Config holds the collaborators of a Cache.
type Config struct {
	// Store keeps encoded entries. Required.
	Store keyvalue.Store

	// Fetch performs origin requests. Defaults to http.DefaultClient.
	Fetch Fetcher

	// Clock supplies the cache's time. Defaults to the system clock.
	Clock Clock
}

// Cache is an HTTP response cache with Cache-Control driven storability,
// caller TTL overrides, and ETag revalidation. It keeps one entry per key
// and performs no locking across calls: concurrent fetches of the same key
// may each reach the origin, and the last write wins.
type Cache struct {
	store  keyvalue.Store
	fetch  Fetcher
	clock  Clock
	logger zerolog.Logger
}

// New creates a Cache from cfg, applying defaults for the optional
// collaborators.
func New(cfg Config) (*Cache, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Fetch == nil {
		cfg.Fetch = http.DefaultClient
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	c := &Cache{
		store:  cfg.Store,
		fetch:  cfg.Fetch,
		clock:  cfg.Clock,
		logger: logging.NewLogger("httpcache"),
	}
	c.logger.Debug().Msg("HTTP cache initialized")
	return c, nil
}

// Do fetches req through the cache with default options.
func (c *Cache) Do(req *http.Request) (*http.Response, error) {
	return c.Fetch(req, FetchOptions{})
}

// Fetch resolves req against the cache. Fresh entries are served without
// touching the origin; expired entries carrying an ETag are revalidated
// with If-None-Match; everything else falls through to a plain origin
// fetch. Every returned response carries an Age header: "0" whenever the
// origin was consulted, the entry's age in whole seconds otherwise.
//
// Transport errors propagate unchanged. Store errors propagate too, with
// one exception: when the origin fetch succeeded and only the store write
// failed, the fetched response is returned alongside the error.
func (c *Cache) Fetch(req *http.Request, opts FetchOptions) (*http.Response, error) {
	key := ResolveKey(req, opts.CacheKey)

	raw, ok, err := c.store.Get(req.Context(), storeKeyPrefix+key)
	if err != nil {
		StoreErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("cache lookup for %q: %w", key, err)
	}
	if !ok {
		CacheMisses.WithLabelValues("cold").Inc()
		return c.refetch(req, opts, key)
	}

	entry, err := DecodeEntry(raw)
	if err != nil {
		CacheMisses.WithLabelValues("invalid").Inc()
		c.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return c.refetch(req, opts, key)
	}
	if !entry.MatchesVary(req.Header) {
		CacheMisses.WithLabelValues("vary").Inc()
		c.logger.Debug().Str("key", key).Msg("Vary mismatch, refetching")
		return c.refetch(req, opts, key)
	}

	now := c.clock.Now()
	if entry.IsFresh(now) {
		age := entry.Age(now)
		CacheHits.Inc()
		c.logger.Debug().Str("key", key).Dur("age", age).Msg("Cache hit")
		return entry.Response(age), nil
	}

	if etag := entry.ETag(); etag != "" {
		return c.revalidate(req, opts, key, entry, etag)
	}
	CacheMisses.WithLabelValues("expired").Inc()
	return c.refetch(req, opts, key)
}

// refetch is the plain MISS path: fetch from the origin with the request as
// given and store the response when policy allows.
func (c *Cache) refetch(req *http.Request, opts FetchOptions, key string) (*http.Response, error) {
	resp, err := c.fetch.Do(req)
	if err != nil {
		return nil, err
	}
	return c.finish(resp, req, opts, key)
}

// finish applies storage policy to a fresh origin response and returns it
// with Age 0.
func (c *Cache) finish(resp *http.Response, req *http.Request, opts FetchOptions, key string) (*http.Response, error) {
	policy := ResolveTTL(resp, req, opts.override(resp, req))
	if !policy.Storable || policy.TTL <= 0 {
		resp.Header.Set("Age", "0")
		return resp, nil
	}

	entry, err := NewEntry(resp, req, c.clock.Now(), policy.TTL)
	if err != nil {
		// The body broke mid-read; there is nothing servable left.
		return nil, fmt.Errorf("reading origin response for %q: %w", key, err)
	}
	resp.Header.Set("Age", "0")

	if err := c.writeEntry(req.Context(), key, entry, storeTTL(policy, resp.Header)); err != nil {
		return resp, err
	}
	return resp, nil
}

// revalidate asks the origin whether the expired entry is still good,
// serving the stored body on a 304 and the fresh response otherwise.
func (c *Cache) revalidate(req *http.Request, opts FetchOptions, key string, entry *Entry, etag string) (*http.Response, error) {
	ConditionalRequests.Inc()
	condReq := req.Clone(req.Context())
	condReq.Header.Set("If-None-Match", etag)

	resp, err := c.fetch.Do(condReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusNotModified {
		return c.finish(resp, req, opts, key)
	}

	NotModifiedResponses.Inc()
	resp.Body.Close()

	// The 304 re-certifies the stored body. Its headers drive the next
	// freshness window, with the status standing in for the 200 it
	// confirms.
	entry.CachedAt = c.clock.Now()
	confirmed := &http.Response{StatusCode: http.StatusOK, Header: resp.Header}
	policy := ResolveTTL(confirmed, req, opts.override(confirmed, req))

	served := entry.Response(0)
	served.StatusCode = http.StatusOK
	served.Status = "200 OK"

	c.logger.Debug().Str("key", key).Str("etag", etag).Msg("Entry revalidated by origin")
	if policy.Storable && policy.TTL > 0 {
		entry.TTL = policy.TTL
		if err := c.writeEntry(req.Context(), key, entry, storeTTL(policy, resp.Header)); err != nil {
			return served, err
		}
	}
	return served, nil
}

// writeEntry encodes and stores an entry under key with the given store
// lifetime.
func (c *Cache) writeEntry(ctx context.Context, key string, entry *Entry, ttl time.Duration) error {
	data, err := entry.Encode()
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, storeKeyPrefix+key, data, ttl); err != nil {
		StoreErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("cache store for %q: %w", key, err)
	}
	EntriesStored.Inc()
	c.logger.Debug().Str("key", key).Dur("ttl", entry.TTL).Dur("store_ttl", ttl).Msg("Stored response")
	return nil
}
