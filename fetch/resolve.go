package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// contentTypeJSON is the automatic header for structured bodies.
const contentTypeJSON = "application/json"

// Resolved is the final request configuration.
//
// The embedded Options hold the merged values, with three fields replaced
// by derived values:
//   - Body is the serialized body for structured bodies, untouched otherwise
//   - Headers is the merged header set
//   - Method falls back to Config.DefaultMethod
//
// A Resolved is a plain value: it performs no I/O and does not invoke any
// of its policies.
type Resolved struct {
	Options

	// Href is the request target: base URL (unless URL is absolute), URL
	// and query string.
	Href string

	// Query is the serialized query string including the leading "?", or "".
	Query string

	// BodyKind is the classification of the body before serialization.
	BodyKind BodyKind
}

// Resolver merges default and per-call options into Resolved values.
// A Resolver is safe for concurrent use.
type Resolver struct {
	cfg *internalConfig
}

// NewResolver creates a Resolver.
//
// Example:
//
//	r := fetch.NewResolver(
//	    fetch.WithServiceName("billing-client"),
//	    fetch.WithLogger(logger),
//	)
//	res, err := r.Resolve(ctx, defaults, &fetch.Options{URL: "/invoices"})
func NewResolver(opts ...Option) *Resolver {
	return &Resolver{cfg: newConfig(opts...)}
}

var defaultResolver = NewResolver()

// Resolve resolves options with a Resolver using the default configuration.
// Either side may be nil.
func Resolve(defaults, override *Options) (*Resolved, error) {
	return defaultResolver.Resolve(context.Background(), defaults, override)
}

// Resolve merges defaults and override and computes the derived fields.
// Either side may be nil. Neither input is modified.
//
// Precedence, lowest first: fallback policies, defaults, override. URL,
// Params and Body are only read from override; OnSuccess, OnError and
// BeforeFetch only from defaults.
//
// The only errors come from SerializeParams and SerializeBody.
func (r *Resolver) Resolve(ctx context.Context, defaults, override *Options) (*Resolved, error) {
	start := time.Now()
	ctx, span := r.startSpan(ctx)

	res, err := r.resolve(defaults, override)

	kind := BodyOpaque
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	} else {
		kind = res.BodyKind
	}

	if r.cfg.config.Debug {
		if err != nil {
			logResolveError(r.cfg.Logger, err)
		} else {
			logResolved(r.cfg.Logger, res)
		}
	}

	r.cfg.Metrics.recordResolve(ctx, time.Since(start), kind, outcome, r.cfg.baseAttributes())
	endSpan(span, res, err)

	return res, err
}

func (r *Resolver) resolve(defaults, override *Options) (*Resolved, error) {
	merged := mergeOptions(r.cfg.Fallbacks, defaults, override)
	if merged.Method == "" {
		merged.Method = r.cfg.config.DefaultMethod
	}

	query, err := compileQuery(merged.Params, merged.SerializeParams)
	if err != nil {
		return nil, err
	}

	kind := ClassifyBody(merged.Body)

	var autoHeaders http.Header
	if kind.Structured() {
		body, err := merged.SerializeBody(merged.Body)
		if err != nil {
			return nil, fmt.Errorf("fetch: serialize body: %w", err)
		}
		merged.Body = body
		autoHeaders = http.Header{"Content-Type": {contentTypeJSON}}
	}

	merged.Headers = MergeHeaders(autoHeaders, headersOf(defaults), headersOf(override))

	return &Resolved{
		Options:  merged,
		Href:     compileHref(merged.BaseURL, merged.URL, query),
		Query:    query,
		BodyKind: kind,
	}, nil
}

func headersOf(o *Options) http.Header {
	if o == nil {
		return nil
	}
	return o.Headers
}

// BodyReader returns the body as a reader for the transport, or nil when
// there is no body, including nil pointers, maps and slices. Readers are returned as-is and are consumed by the
// first request that reads them.
func (r *Resolved) BodyReader() io.Reader {
	if isNil(r.Body) {
		return nil
	}

	switch b := r.Body.(type) {
	case string:
		return strings.NewReader(b)
	case []byte:
		return bytes.NewReader(b)
	case io.Reader:
		return b
	case url.Values:
		return strings.NewReader(b.Encode())
	default:
		return strings.NewReader(fmt.Sprint(b))
	}
}

// NewRequest builds the *http.Request described by r. It does not send it.
//
// A url.Values body gets "application/x-www-form-urlencoded" unless a
// Content-Type header is already set.
//
// Example:
//
//	res, err := fetch.Resolve(defaults, opts)
//	if err != nil {
//	    return err
//	}
//	req, err := res.NewRequest(ctx)
//	if err != nil {
//	    return err
//	}
//	resp, err := httpClient.Do(req)
func (r *Resolved) NewRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, r.Method, r.Href, r.BodyReader())
	if err != nil {
		return nil, err
	}

	req.Header = r.Headers.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}

	if _, ok := r.Body.(url.Values); ok && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	return req, nil
}

// BackOff returns a fresh DelayBackOff following r.RetryDelay.
func (r *Resolved) BackOff() *DelayBackOff {
	return NewDelayBackOff(r.RetryDelay)
}
