package httpcache

import (
	"net/http"
	"time"
)

// StoragePolicy is the storability decision for a single response: whether
// it may enter the cache at all, and for how long it counts as fresh.
type StoragePolicy struct {
	Storable bool
	TTL      time.Duration
}

// ResolveTTL decides storability for resp, in strict order:
//
//  1. Non-2xx responses are never storable; an override cannot rescue them.
//  2. Non-GET requests are never storable either.
//  3. A caller override wins over headers: TTL <= 0 disables storage, a
//     positive TTL forces it even for private / no-cache / Set-Cookie
//     responses.
//  4. With no override, Cache-Control decides: no-store, private, or a
//     missing (or malformed) max-age keep the response out; otherwise
//     max-age is the freshness lifetime.
func ResolveTTL(resp *http.Response, req *http.Request, override *CacheOptions) StoragePolicy {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return StoragePolicy{}
	}
	if req.Method != http.MethodGet {
		return StoragePolicy{}
	}
	if override != nil {
		if override.TTL <= 0 {
			return StoragePolicy{}
		}
		return StoragePolicy{Storable: true, TTL: override.TTL}
	}
	cc := ParseCacheControl(resp.Header.Get("Cache-Control"))
	if cc.NoStore() || cc.Private() {
		return StoragePolicy{}
	}
	maxAge, ok := cc.MaxAge()
	if !ok {
		return StoragePolicy{}
	}
	return StoragePolicy{Storable: true, TTL: maxAge}
}

// storeTTL is the lifetime handed to the backing store. Responses that can
// be revalidated outlive their freshness window, so the body is still on
// hand to serve after a 304.
func storeTTL(policy StoragePolicy, respHeader http.Header) time.Duration {
	if respHeader.Get("ETag") != "" {
		return policy.TTL * 2
	}
	return policy.TTL
}
