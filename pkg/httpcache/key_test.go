package httpcache

import (
	"net/http"
	"testing"
)

func TestResolveKey(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		explicit string
		want     string
	}{
		{
			name: "plain url",
			url:  "https://api.example.com/people",
			want: "https://api.example.com/people",
		},
		{
			name: "query participates",
			url:  "https://api.example.com/people?page=2",
			want: "https://api.example.com/people?page=2",
		},
		{
			name: "fragment stripped",
			url:  "https://api.example.com/people?page=2#section",
			want: "https://api.example.com/people?page=2",
		},
		{
			name:     "explicit key wins verbatim",
			url:      "https://api.example.com/people?page=2",
			explicit: "people:all",
			want:     "people:all",
		},
		{
			name: "relative url",
			url:  "/people?page=2",
			want: "/people?page=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, tt.url, nil)
			if err != nil {
				t.Fatalf("NewRequest failed: %v", err)
			}
			if got := ResolveKey(req, tt.explicit); got != tt.want {
				t.Errorf("ResolveKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveKeyDeterministic(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/people?a=1&b=2", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}

	first := ResolveKey(req, "")
	for i := 0; i < 10; i++ {
		if got := ResolveKey(req, ""); got != first {
			t.Errorf("ResolveKey() = %q on run %d, want %q (not deterministic)", got, i, first)
		}
	}
}

func TestResolveKeyDoesNotMutateRequest(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/people#frag", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}

	ResolveKey(req, "")
	if req.URL.Fragment != "frag" {
		t.Errorf("request URL fragment = %q after ResolveKey, want %q", req.URL.Fragment, "frag")
	}
}
