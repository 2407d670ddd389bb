package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/bhwanip/apollo-server/pkg/httpcache"
	"github.com/bhwanip/apollo-server/pkg/logging"
)

// proxyHandler forwards incoming requests to the origin through the cache,
// so repeated GETs are answered from the store.
type proxyHandler struct {
	cache  *httpcache.Cache
	origin *url.URL
	logger zerolog.Logger
}

func newProxyHandler(cache *httpcache.Cache, origin *url.URL) *proxyHandler {
	return &proxyHandler{
		cache:  cache,
		origin: origin,
		logger: logging.NewLogger("proxy"),
	}
}

func (p *proxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upstream := *p.origin
	upstream.Path = p.origin.Path + r.URL.Path
	upstream.RawQuery = r.URL.RawQuery

	req, err := http.NewRequestWithContext(r.Context(), r.Method, upstream.String(), r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("building upstream request: %v", err), http.StatusBadGateway)
		return
	}
	req.Header = r.Header.Clone()
	// Connection is hop-by-hop and must not be forwarded.
	req.Header.Del("Connection")

	resp, err := p.cache.Do(req)
	if err != nil {
		if resp == nil {
			p.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Upstream request failed")
			http.Error(w, fmt.Sprintf("upstream request failed: %v", err), http.StatusBadGateway)
			return
		}
		// The origin answered but the cache write failed. Serve the
		// response anyway.
		p.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Cache write failed")
	}
	defer resp.Body.Close()

	// Copy response headers
	for key, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		p.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to write response body")
	}
}
