package fetch

import (
	"context"
	"net/http"
)

// DefaultsFunc returns the default options for a call. It receives the
// per-call options, so defaults may depend on them. It may return nil.
type DefaultsFunc func(override *Options) *Options

// StaticDefaults returns a DefaultsFunc that always yields a copy of o.
func StaticDefaults(o Options) DefaultsFunc {
	return func(_ *Options) *Options {
		c := o
		return &c
	}
}

// Fetcher binds default options to a Resolver, so every call only supplies
// what is specific to it.
//
// Example:
//
//	f := fetch.NewFetcher(fetch.StaticDefaults(fetch.Options{
//	    BaseURL: "https://api.example.com",
//	    Headers: http.Header{"Authorization": {"Bearer " + token}},
//	}))
//
//	req, res, err := f.NewRequest(ctx, &fetch.Options{
//	    URL:    "/users",
//	    Params: map[string]any{"page": 2},
//	})
//	// res.Href == "https://api.example.com/users?page=2"
//
// A Fetcher is safe for concurrent use when its DefaultsFunc is.
type Fetcher struct {
	resolver *Resolver
	defaults DefaultsFunc
}

// NewFetcher creates a Fetcher. A nil defaults means no default options.
func NewFetcher(defaults DefaultsFunc, opts ...Option) *Fetcher {
	if defaults == nil {
		defaults = func(_ *Options) *Options { return nil }
	}
	return &Fetcher{
		resolver: NewResolver(opts...),
		defaults: defaults,
	}
}

// Resolve resolves the defaults for override together with override.
func (f *Fetcher) Resolve(ctx context.Context, override *Options) (*Resolved, error) {
	return f.resolver.Resolve(ctx, f.defaults(override), override)
}

// NewRequest resolves override and builds the corresponding *http.Request.
// The request is not sent.
func (f *Fetcher) NewRequest(ctx context.Context, override *Options) (*http.Request, *Resolved, error) {
	res, err := f.Resolve(ctx, override)
	if err != nil {
		return nil, nil, err
	}

	req, err := res.NewRequest(ctx)
	if err != nil {
		return nil, res, err
	}
	return req, res, nil
}
