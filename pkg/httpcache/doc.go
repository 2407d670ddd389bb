// Package httpcache caches HTTP responses the way a private client-side
// cache would, with a deliberately small rule set:
//
// - Cache-Control driven storability (no-store, private, max-age)
// - Caller TTL overrides that bypass header policy per fetch
// - ETag revalidation with If-None-Match once an entry expires
// - Vary-aware reuse with one stored variant per key
// - Pluggable store, origin transport, and clock
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	// Create a cache over an in-memory store
//	cache, err := httpcache.New(httpcache.Config{
//		Store: keyvalue.NewMemory(),
//	})
//	if err != nil {
//		return err
//	}
//
//	// Fetch through the cache; repeated calls within the response's
//	// max-age window are served locally with an Age header
//	req, _ := http.NewRequest(http.MethodGet, "https://api.example.com/people/1", nil)
//	resp, err := cache.Do(req)
//
// # Shared Stores
//
//	// Any keyvalue.Store works; Redis makes the cache shared
//	cache, err := httpcache.New(httpcache.Config{
//		Store: keyvalue.NewRedis(redis.NewClient(&redis.Options{
//			Addr: "localhost:6379",
//		})),
//	})
//
// # TTL Overrides
//
//	// Force storage of a response the headers would reject
//	resp, err := cache.Fetch(req, httpcache.FetchOptions{
//		CacheOptions: &httpcache.CacheOptions{TTL: 5 * time.Minute},
//	})
//
//	// Or decide once the response is known; TTL 0 disables storage
//	resp, err := cache.Fetch(req, httpcache.FetchOptions{
//		CacheOptionsFn: func(resp *http.Response, req *http.Request) httpcache.CacheOptions {
//			if resp.Header.Get("X-Volatile") != "" {
//				return httpcache.CacheOptions{}
//			}
//			return httpcache.CacheOptions{TTL: time.Minute}
//		},
//	})
//
// # Revalidation
//
// Expired entries whose response carried an ETag are not refetched blindly:
// the cache sends If-None-Match and, on a 304, serves the stored body with
// a reset freshness window. To keep that possible, entries with an ETag are
// handed to the store with twice their freshness lifetime, so the body is
// still around when it is stale but revalidatable.
//
// # Metrics
//
// The cache exports Prometheus metrics on the default registry:
//
//   - httpcache_hits_total - Responses served from the cache
//   - httpcache_misses_total{reason} - Misses by reason (cold, vary, expired, invalid)
//   - httpcache_conditional_requests_total - If-None-Match requests sent
//   - httpcache_304_responses_total - Revalidations answered 304
//   - httpcache_stores_total - Entries written to the store
//   - httpcache_store_errors_total{operation} - Store failures
//
// # Concurrency
//
// The cache holds no locks across calls. Concurrent fetches of the same
// expired key may each reach the origin, and the last store write wins.
// Callers who need request collapsing should layer it on top.
package httpcache
