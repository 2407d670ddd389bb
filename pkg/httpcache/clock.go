package httpcache

import "time"

// Clock supplies the cache's single notion of current time. Freshness math
// and entry timestamps all go through it, so tests can drive expiry without
// sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall-clock Clock used by default.
func SystemClock() Clock { return systemClock{} }
