package httpcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks responses served straight from the cache
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "httpcache_hits_total",
			Help: "Total number of responses served from the cache without contacting the origin",
		},
	)

	// CacheMisses tracks cache misses by reason
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpcache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"reason"}, // "cold", "vary", "expired", "invalid"
	)

	// ConditionalRequests tracks revalidation requests sent with If-None-Match
	ConditionalRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "httpcache_conditional_requests_total",
			Help: "Total number of conditional revalidation requests sent to the origin",
		},
	)

	// NotModifiedResponses tracks revalidations answered 304 by the origin
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "httpcache_304_responses_total",
			Help: "Total number of 304 Not Modified responses to revalidations",
		},
	)

	// EntriesStored tracks entries written to the backing store
	EntriesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "httpcache_stores_total",
			Help: "Total number of entries written to the backing store",
		},
	)

	// StoreErrors tracks backing store failures
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpcache_store_errors_total",
			Help: "Total number of backing store failures",
		},
		[]string{"operation"}, // "get", "set"
	)
)
