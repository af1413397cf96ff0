package fetch

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// CurlCommand returns a cURL command equivalent to the resolved request.
//
// Example output:
//
//	curl -X POST 'https://api.example.com/users' \
//	  -H 'Content-Type: application/json' \
//	  -d '{"name":"John"}'
//
// The command is a single line; opaque bodies that are not text (readers,
// scalars) are left out.
func (r *Resolved) CurlCommand() string {
	parts := []string{"curl"}

	if r.Method != "" && r.Method != http.MethodGet {
		parts = append(parts, "-X", r.Method)
	}

	parts = append(parts, shellQuote(r.Href))

	// Headers (sorted for consistent output)
	names := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, k := range names {
		for _, v := range r.Headers[k] {
			parts = append(parts, "-H", shellQuote(k+": "+v))
		}
	}

	if body, ok := textBody(r.Body); ok && body != "" {
		parts = append(parts, "-d", shellQuote(body))
	}

	return strings.Join(parts, " ")
}

// textBody returns the body as text when it is available without
// consuming a stream.
func textBody(body any) (string, bool) {
	switch b := body.(type) {
	case string:
		return b, true
	case []byte:
		return string(b), true
	case url.Values:
		return b.Encode(), true
	default:
		return "", false
	}
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// logResolved writes a debug entry for a resolution.
func logResolved(logger zerolog.Logger, r *Resolved) {
	names := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		names = append(names, k)
	}
	sort.Strings(names)

	logger.Debug().
		Str("method", r.Method).
		Str("href", r.Href).
		Str("body_kind", r.BodyKind.String()).
		Strs("headers", names).
		Str("curl", r.CurlCommand()).
		Msg("fetch options resolved")
}

// logResolveError writes a debug entry for a failed resolution.
func logResolveError(logger zerolog.Logger, err error) {
	logger.Debug().
		Err(err).
		Msg("fetch options not resolved")
}
