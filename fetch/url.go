package fetch

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/go-querystring/query"
)

// absoluteURL matches URLs that start with a scheme, e.g. "https://".
var absoluteURL = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://`)

// IsAbsoluteURL reports whether u starts with "scheme://".
func IsAbsoluteURL(u string) bool {
	return absoluteURL.MatchString(u)
}

// compileHref joins base URL, URL and query. The base URL is ignored for
// absolute URLs. No slashes are added or removed.
func compileHref(baseURL, u, query string) string {
	if IsAbsoluteURL(u) {
		baseURL = ""
	}
	return baseURL + u + query
}

// compileQuery turns params into a query string with a leading "?", or ""
// when there is nothing to send. String params are used verbatim; falsy
// params (nil, false, "", 0) send nothing.
func compileQuery(params any, serialize SerializeParamsFunc) (string, error) {
	if isFalsy(params) {
		return "", nil
	}
	if p, ok := params.(string); ok {
		return withQuestionMark(p), nil
	}

	s, err := serialize(params)
	if err != nil {
		return "", fmt.Errorf("fetch: serialize params: %w", err)
	}
	return withQuestionMark(s), nil
}

func withQuestionMark(s string) string {
	if s == "" || strings.HasPrefix(s, "?") {
		return s
	}
	return "?" + s
}

// DefaultSerializeParams encodes params as a query string.
//
// url.Values are encoded as-is. Any other value is first round-tripped
// through JSON, which turns time.Time into RFC 3339 text, applies json
// struct tags and drops nil values, and must then be a JSON object; null
// and an empty array encode to "". Keys are sorted. Arrays become repeated
// keys (a=1&a=2) rather than one comma-joined value (a=1%2C2); nested
// objects are sent as their JSON text.
//
// Example:
//
//	s, _ := fetch.DefaultSerializeParams(map[string]any{"b": 2, "a": 1})
//	// s == "a=1&b=2"
func DefaultSerializeParams(params any) (string, error) {
	if v, ok := params.(url.Values); ok {
		return v.Encode(), nil
	}

	data, err := json.Marshal(params)
	if err != nil {
		return "", err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return "", err
	}

	switch obj := decoded.(type) {
	case nil:
		return "", nil
	case []any:
		if len(obj) == 0 {
			return "", nil
		}
		return "", fmt.Errorf("%w: got %T", ErrInvalidParams, params)
	case map[string]any:
		values := make(url.Values, len(obj))
		for k, v := range obj {
			addQueryValue(values, k, v)
		}
		return values.Encode(), nil
	default:
		return "", fmt.Errorf("%w: got %T", ErrInvalidParams, params)
	}
}

// addQueryValue adds the JSON-decoded value v under key. Nil values are
// skipped.
func addQueryValue(values url.Values, key string, v any) {
	switch val := v.(type) {
	case nil:
	case []any:
		for _, item := range val {
			addQueryValue(values, key, item)
		}
	default:
		values.Add(key, queryText(val))
	}
}

// queryText renders a JSON-decoded scalar or object as query text.
func queryText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

// StructParams encodes a struct using `url:"..."` field tags, following the
// conventions of github.com/google/go-querystring.
//
// Example:
//
//	type ListUsers struct {
//	    Page  int      `url:"page"`
//	    Tags  []string `url:"tag"`
//	    Query string   `url:"q,omitempty"`
//	}
//
//	defaults := &fetch.Options{SerializeParams: fetch.StructParams}
func StructParams(params any) (string, error) {
	values, err := query.Values(params)
	if err != nil {
		return "", err
	}
	return values.Encode(), nil
}
