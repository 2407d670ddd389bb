// Package metrics provides the Prometheus registry and HTTP handler shared
// by the cache daemons. The metrics themselves are defined next to the code
// that increments them (pkg/httpcache) and registered via promauto; this
// package only exposes them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the Prometheus registerer all cache metrics land on.
var Registry = prometheus.DefaultRegisterer

// Handler returns the HTTP handler serving every registered metric, for
// mounting under /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Cache Metrics (pkg/httpcache):
//   - httpcache_hits_total (Counter): Responses served from the cache
//   - httpcache_misses_total{reason} (Counter): Misses by reason (cold, vary, expired, invalid)
//   - httpcache_conditional_requests_total (Counter): If-None-Match requests sent to the origin
//   - httpcache_304_responses_total (Counter): Revalidations the origin answered with 304
//   - httpcache_stores_total (Counter): Entries written to the backing store
//   - httpcache_store_errors_total{operation} (Counter): Store failures by operation (get, set)
