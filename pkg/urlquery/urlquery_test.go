package urlquery

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want url.Values
	}{
		{"empty", "", url.Values{}},
		{"leading question mark", "?a=1", url.Values{"a": {"1"}}},
		{"repeated keys", "tag=go&tag=web", url.Values{"tag": {"go", "web"}}},
		{"escaped", "query=hello%20world&x=a%2Bb", url.Values{"query": {"hello world"}, "x": {"a+b"}}},
		{"plus is space", "query=a+b", url.Values{"query": {"a b"}}},
		{"bare key", "flag", url.Values{"flag": {""}}},
		{"undecodable value kept", "a=%zz&b=2", url.Values{"a": {"%zz"}, "b": {"2"}}},
		{"semicolon kept", "tags=go;rust&b=2", url.Values{"tags": {"go;rust"}, "b": {"2"}}},
		{"empty key skipped", "=x&b=2", url.Values{"b": {"2"}}},
		{"empty pairs skipped", "&&a=1&", url.Values{"a": {"1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Parse(tt.raw)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestMergeQueryKey(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		rawQuery string
		key      string
		value    string
		want     string
	}{
		{"into empty query", "/", "", "query", "hel", "/?query=hel"},
		{"preserves other keys", "/", "filter=newest&page=2", "query", "hel", "/?filter=newest&page=2&query=hel"},
		{"replaces existing", "/tags", "query=old&page=2", "query", "new", "/tags?page=2&query=new"},
		{"encodes value", "/", "", "query", "a&b c", "/?query=a%26b+c"},
		{"empty path", "", "", "query", "x", "/?query=x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeQueryKey(tt.path, tt.rawQuery, tt.key, tt.value); got != tt.want {
				t.Errorf("MergeQueryKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergeQueryKeyIdempotent(t *testing.T) {
	first := MergeQueryKey("/", "b=2&a=1", "query", "go")
	u, err := url.Parse(first)
	if err != nil {
		t.Fatal(err)
	}
	second := MergeQueryKey(u.Path, u.RawQuery, "query", "go")
	if first != second {
		t.Errorf("merge not idempotent: %q then %q", first, second)
	}
}

func TestStripQueryKeys(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		keys     []string
		want     string
	}{
		{"removes key", "page=2&query=hel", []string{"query"}, "/?page=2"},
		{"only key", "query=hel", []string{"query"}, "/"},
		{"missing key is no-op", "page=2&sort=asc", []string{"query"}, "/?page=2&sort=asc"},
		{"drops empty fields", "page=&query=x&sort=asc", []string{"query"}, "/?sort=asc"},
		{"several keys", "a=1&b=2&c=3", []string{"c", "a"}, "/?b=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripQueryKeys("/", tt.rawQuery, tt.keys...); got != tt.want {
				t.Errorf("StripQueryKeys() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripQueryKeysOrderIndependent(t *testing.T) {
	raw := "a=1&b=2&c=3&d=4"
	if x, y := StripQueryKeys("/", raw, "a", "c"), StripQueryKeys("/", raw, "c", "a"); x != y {
		t.Errorf("order dependent: %q vs %q", x, y)
	}
	once := StripQueryKeys("/", raw, "a")
	u, _ := url.Parse(once)
	if twice := StripQueryKeys(u.Path, u.RawQuery, "a"); once != twice {
		t.Errorf("strip not idempotent: %q then %q", once, twice)
	}
}

func TestUndecodablePairsSurviveRewrites(t *testing.T) {
	tests := []struct {
		name      string
		rawQuery  string
		wantMerge string
		wantStrip string
	}{
		{
			name:      "bare percent",
			rawQuery:  "discount=50%&page=2&query=old",
			wantMerge: "/?discount=50%25&page=2&query=hel",
			wantStrip: "/?discount=50%25&page=2",
		},
		{
			name:      "semicolon",
			rawQuery:  "page=2&tags=go;rust&query=old",
			wantMerge: "/?page=2&query=hel&tags=go%3Brust",
			wantStrip: "/?page=2&tags=go%3Brust",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeQueryKey("/", tt.rawQuery, "query", "hel"); got != tt.wantMerge {
				t.Errorf("MergeQueryKey = %q, want %q", got, tt.wantMerge)
			}
			if got := StripQueryKeys("/", tt.rawQuery, "query"); got != tt.wantStrip {
				t.Errorf("StripQueryKeys = %q, want %q", got, tt.wantStrip)
			}
		})
	}
}

func TestGet(t *testing.T) {
	if got := Get("query=hel&page=2", "query"); got != "hel" {
		t.Errorf("Get() = %q, want hel", got)
	}
	if got := Get("page=2", "query"); got != "" {
		t.Errorf("Get() = %q, want empty", got)
	}
}
