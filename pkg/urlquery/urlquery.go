// Package urlquery merges keys into and strips keys from URL query strings
// without disturbing the other parameters.
//
// Both helpers re-serialize against the caller's current path and encode
// keys in sorted order, so the same logical query always produces the same
// URL:
//
//	urlquery.MergeQueryKey("/", "page=2", "query", "hel")   // "/?page=2&query=hel"
//	urlquery.StripQueryKeys("/", "page=2&query=hel", "query") // "/?page=2"
package urlquery

import (
	"net/url"
	"strings"
)

// Parse parses a raw query string into values. A leading '?' is accepted.
// A key or value that does not decode, such as "50%" or "go;rust", is kept
// verbatim so that rewriting the query never loses a parameter.
func Parse(raw string) url.Values {
	raw = strings.TrimPrefix(raw, "?")
	values := make(url.Values)
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = unescape(key)
		if key == "" {
			continue
		}
		values[key] = append(values[key], unescape(value))
	}
	return values
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// Get returns the first value of key in the raw query, or "".
func Get(rawQuery, key string) string {
	return Parse(rawQuery).Get(key)
}

// MergeQueryKey upserts key=value into the query and returns path plus the
// re-serialized query. Every other key is preserved. Applying it twice with
// the same key and value yields the same string.
func MergeQueryKey(path, rawQuery, key, value string) string {
	values := Parse(rawQuery)
	if key != "" {
		values.Set(key, value)
	}
	return Build(path, values)
}

// StripQueryKeys removes each of keys from the query (absent keys are
// ignored), drops fields left without a value, and returns path plus the
// re-serialized query. The result does not depend on the order of keys.
func StripQueryKeys(path, rawQuery string, keys ...string) string {
	values := Parse(rawQuery)
	for _, key := range keys {
		values.Del(key)
	}
	return Build(path, compact(values))
}

// Build joins path and the encoded values. When no values remain the bare
// path is returned, with "/" standing in for an empty path.
func Build(path string, values url.Values) string {
	if path == "" {
		path = "/"
	}
	encoded := values.Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}

// compact removes empty values, and keys left with none.
func compact(values url.Values) url.Values {
	for key, vs := range values {
		kept := vs[:0]
		for _, v := range vs {
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			delete(values, key)
			continue
		}
		values[key] = kept
	}
	return values
}
