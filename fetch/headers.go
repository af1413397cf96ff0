package fetch

import (
	"fmt"
	"net/http"
	"sort"
)

// undefinedHeaderValue is skipped when merging, so an unset variable
// interpolated into a header never reaches the wire.
const undefinedHeaderValue = "undefined"

// MergeHeaders merges header sources in increasing precedence.
//
// Each source may be nil, false, http.Header, map[string]string,
// map[string][]string or [][2]string. A later source replaces every value
// of a header set by an earlier one; names are compared case-insensitively.
// Values equal to "undefined" are ignored. Unsupported sources are skipped;
// use MergeHeadersStrict to reject them.
//
// Example:
//
//	h := fetch.MergeHeaders(
//	    map[string]string{"a": "1"},
//	    map[string]string{"a": "2", "b": "3"},
//	)
//	// h.Get("a") == "2", h.Get("b") == "3"
func MergeHeaders(sources ...any) http.Header {
	h, _ := mergeHeaders(false, sources)
	return h
}

// MergeHeadersStrict is MergeHeaders but fails with ErrInvalidHeaderSource
// on a source it cannot read.
func MergeHeadersStrict(sources ...any) (http.Header, error) {
	return mergeHeaders(true, sources)
}

func mergeHeaders(strict bool, sources []any) (http.Header, error) {
	out := make(http.Header)
	for i, src := range sources {
		h, ok := toHeader(src)
		if !ok {
			if strict {
				return nil, fmt.Errorf("%w: source %d has type %T", ErrInvalidHeaderSource, i, src)
			}
			continue
		}

		for name, values := range h {
			kept := make([]string, 0, len(values))
			for _, v := range values {
				if v != undefinedHeaderValue {
					kept = append(kept, v)
				}
			}
			if len(kept) > 0 {
				out[name] = kept
			}
		}
	}
	return out, nil
}

// toHeader converts a header source to an http.Header with canonical names.
func toHeader(src any) (http.Header, bool) {
	h := make(http.Header)

	switch s := src.(type) {
	case nil:
	case bool:
		if s {
			return nil, false
		}
	case http.Header:
		for _, name := range sortedKeys(s) {
			for _, v := range s[name] {
				h.Add(name, v)
			}
		}
	case map[string][]string:
		for _, name := range sortedKeys(s) {
			for _, v := range s[name] {
				h.Add(name, v)
			}
		}
	case map[string]string:
		for _, name := range sortedKeys(s) {
			h.Add(name, s[name])
		}
	case [][2]string:
		for _, kv := range s {
			h.Add(kv[0], kv[1])
		}
	default:
		return nil, false
	}
	return h, true
}

// sortedKeys makes the result deterministic when a map holds the same
// header under differently cased names.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
