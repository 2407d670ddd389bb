package httpcache

import "net/http"

// ResolveKey returns the cache key for req: the explicit key verbatim when
// one is given, otherwise the request URL with its fragment stripped.
// Scheme, host, path and query all participate, so the same URL always maps
// to the same slot and explicit keys let callers share one slot across
// requests.
func ResolveKey(req *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	u := *req.URL
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
