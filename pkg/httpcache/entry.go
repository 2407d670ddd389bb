package httpcache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidEntry indicates a stored entry that cannot be decoded. The
// cache treats it as a miss, never as a fatal error.
var ErrInvalidEntry = errors.New("invalid cache entry")

// Entry is the stored form of one cached origin response. A key holds at
// most one Entry; storing a new variant replaces the old one.
type Entry struct {
	Data       []byte            `json:"data"`
	StatusCode int               `json:"status_code"`
	Headers    http.Header       `json:"headers"`
	CachedAt   time.Time         `json:"cached_at"`
	Vary       map[string]string `json:"vary,omitempty"`
	TTL        time.Duration     `json:"ttl"`
}

// NewEntry captures resp into a storable Entry with the given freshness
// lifetime. The response body is read fully and replaced with an in-memory
// reader, so resp stays consumable by the caller.
func NewEntry(resp *http.Response, req *http.Request, now time.Time, ttl time.Duration) (*Entry, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return &Entry{
		Data:       body,
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		CachedAt:   now,
		Vary:       varySnapshot(resp.Header, req.Header),
		TTL:        ttl,
	}, nil
}

// varySnapshot records the request header values named by the response's
// Vary header. A later request must reproduce them to reuse the entry.
func varySnapshot(respHeader, reqHeader http.Header) map[string]string {
	var snapshot map[string]string
	for _, field := range respHeader.Values("Vary") {
		for _, name := range strings.Split(field, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if snapshot == nil {
				snapshot = make(map[string]string)
			}
			name = textproto.CanonicalMIMEHeaderKey(name)
			snapshot[name] = reqHeader.Get(name)
		}
	}
	return snapshot
}

// MatchesVary reports whether reqHeader reproduces the header values the
// entry was stored under. Entries stored without Vary match any request;
// a header absent both then and now also matches.
func (e *Entry) MatchesVary(reqHeader http.Header) bool {
	for name, want := range e.Vary {
		if reqHeader.Get(name) != want {
			return false
		}
	}
	return true
}

// Age returns how long the entry has been cached as of now, never negative.
func (e *Entry) Age(now time.Time) time.Duration {
	age := now.Sub(e.CachedAt)
	if age < 0 {
		return 0
	}
	return age
}

// IsFresh reports whether the entry may still be served without consulting
// the origin.
func (e *Entry) IsFresh(now time.Time) bool {
	return e.Age(now) < e.TTL
}

// ETag returns the entity tag the entry was stored with, or "".
func (e *Entry) ETag() string {
	return e.Headers.Get("ETag")
}

// Response materializes the entry as an HTTP response carrying its current
// age. The stored headers are cloned, so the entry itself stays pristine.
func (e *Entry) Response(age time.Duration) *http.Response {
	header := e.Headers.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set("Age", strconv.Itoa(int(age/time.Second)))

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode)),
		StatusCode:    e.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Data)),
		ContentLength: int64(len(e.Data)),
	}
}

// Encode renders the entry for storage.
func (e *Entry) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	return data, nil
}

// DecodeEntry parses a stored entry. Decode failures wrap ErrInvalidEntry
// so callers can fall back to a miss.
func DecodeEntry(data []byte) (*Entry, error) {
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return &entry, nil
}
