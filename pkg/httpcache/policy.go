package httpcache

import (
	"strconv"
	"strings"
	"time"
)

// CacheControl is the parsed form of a Cache-Control response header value.
// Only the directives that drive storability are interpreted; everything
// else is parsed and ignored.
type CacheControl struct {
	directives map[string]string
}

// ParseCacheControl parses a raw Cache-Control header value. Directive names
// are case-insensitive and comma-separated; an empty input (header absent)
// yields a value with no directives at all.
func ParseCacheControl(value string) CacheControl {
	cc := CacheControl{directives: make(map[string]string)}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, arg, _ := strings.Cut(part, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		cc.directives[name] = strings.Trim(strings.TrimSpace(arg), `"`)
	}
	return cc
}

// NoStore reports whether the no-store directive is present.
func (c CacheControl) NoStore() bool {
	_, ok := c.directives["no-store"]
	return ok
}

// Private reports whether the private directive is present.
func (c CacheControl) Private() bool {
	_, ok := c.directives["private"]
	return ok
}

// MaxAge returns the max-age directive as a duration. ok is false when the
// directive is missing or its value is not a non-negative integer; a
// malformed max-age counts as absent rather than as zero.
func (c CacheControl) MaxAge() (time.Duration, bool) {
	arg, ok := c.directives["max-age"]
	if !ok {
		return 0, false
	}
	seconds, err := strconv.Atoi(arg)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}
