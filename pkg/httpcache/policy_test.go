package httpcache

import (
	"testing"
	"time"
)

func TestParseCacheControl(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		noStore   bool
		private   bool
		maxAge    time.Duration
		hasMaxAge bool
	}{
		{
			name:  "absent header",
			value: "",
		},
		{
			name:    "no-store alone",
			value:   "no-store",
			noStore: true,
		},
		{
			name:    "private alone",
			value:   "private",
			private: true,
		},
		{
			name:      "max-age alone",
			value:     "max-age=60",
			maxAge:    60 * time.Second,
			hasMaxAge: true,
		},
		{
			name:      "private with max-age",
			value:     "private, max-age=60",
			private:   true,
			maxAge:    60 * time.Second,
			hasMaxAge: true,
		},
		{
			name:      "max-age of zero is present",
			value:     "max-age=0",
			maxAge:    0,
			hasMaxAge: true,
		},
		{
			name:      "case insensitive names",
			value:     "No-Store, MAX-AGE=10",
			noStore:   true,
			maxAge:    10 * time.Second,
			hasMaxAge: true,
		},
		{
			name:      "quoted max-age argument",
			value:     `max-age="30"`,
			maxAge:    30 * time.Second,
			hasMaxAge: true,
		},
		{
			name:  "malformed max-age is absent",
			value: "max-age=abc",
		},
		{
			name:  "empty max-age is absent",
			value: "max-age=",
		},
		{
			name:  "negative max-age is absent",
			value: "max-age=-5",
		},
		{
			name:  "bare max-age without value is absent",
			value: "max-age",
		},
		{
			name:      "unrecognized directives ignored",
			value:     "immutable, stale-while-revalidate=60, max-age=5",
			maxAge:    5 * time.Second,
			hasMaxAge: true,
		},
		{
			name:      "whitespace and empty parts tolerated",
			value:     " , no-store ,  max-age=7 ,",
			noStore:   true,
			maxAge:    7 * time.Second,
			hasMaxAge: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := ParseCacheControl(tt.value)
			if got := cc.NoStore(); got != tt.noStore {
				t.Errorf("NoStore() = %v, want %v", got, tt.noStore)
			}
			if got := cc.Private(); got != tt.private {
				t.Errorf("Private() = %v, want %v", got, tt.private)
			}
			maxAge, ok := cc.MaxAge()
			if ok != tt.hasMaxAge {
				t.Errorf("MaxAge() present = %v, want %v", ok, tt.hasMaxAge)
			}
			if maxAge != tt.maxAge {
				t.Errorf("MaxAge() = %v, want %v", maxAge, tt.maxAge)
			}
		})
	}
}
