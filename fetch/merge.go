package fetch

import "slices"

// mergeOptions layers fallbacks, defaults and override, lowest precedence
// first. Override-only keys are stripped from defaults and default-only keys
// from override before layering. Headers are left out; see MergeHeaders.
func mergeOptions(fallbacks Options, defaults, override *Options) Options {
	merged := fallbacks
	merged.Extra = nil

	overlay(&merged, withoutOverrideOnly(defaults))
	overlay(&merged, withoutDefaultOnly(override))

	merged.Headers = nil
	return merged
}

// overlay copies every set field of src onto dst.
func overlay(dst *Options, src Options) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.URL != "" {
		dst.URL = src.URL
	}
	if src.Params != nil {
		dst.Params = src.Params
	}
	if src.Body != nil {
		dst.Body = src.Body
	}
	if src.Method != "" {
		dst.Method = src.Method
	}
	if src.Headers != nil {
		dst.Headers = src.Headers
	}
	if src.ParseSuccess != nil {
		dst.ParseSuccess = src.ParseSuccess
	}
	if src.ParseError != nil {
		dst.ParseError = src.ParseError
	}
	if src.RetryWhen != nil {
		dst.RetryWhen = src.RetryWhen
	}
	if src.RetryDelay != nil {
		dst.RetryDelay = src.RetryDelay
	}
	if src.SerializeBody != nil {
		dst.SerializeBody = src.SerializeBody
	}
	if src.SerializeParams != nil {
		dst.SerializeParams = src.SerializeParams
	}
	if src.OnSuccess != nil {
		dst.OnSuccess = src.OnSuccess
	}
	if src.OnError != nil {
		dst.OnError = src.OnError
	}
	if src.BeforeFetch != nil {
		dst.BeforeFetch = src.BeforeFetch
	}
	for k, v := range src.Extra {
		if isNil(v) {
			continue
		}
		if dst.Extra == nil {
			dst.Extra = make(map[string]any, len(src.Extra))
		}
		dst.Extra[k] = v
	}
}

// withoutOverrideOnly returns a copy of o with URL, Params and Body unset.
func withoutOverrideOnly(o *Options) Options {
	if o == nil {
		return Options{}
	}
	c := *o
	c.URL = ""
	c.Params = nil
	c.Body = nil
	c.Extra = omit(o.Extra, overrideOnlyKeys[:])
	return c
}

// withoutDefaultOnly returns a copy of o with the lifecycle hooks unset.
func withoutDefaultOnly(o *Options) Options {
	if o == nil {
		return Options{}
	}
	c := *o
	c.OnSuccess = nil
	c.OnError = nil
	c.BeforeFetch = nil
	c.Extra = omit(o.Extra, defaultOnlyKeys[:])
	return c
}

// omit copies m without the given keys and without nil values, typed
// nils included.
func omit(m map[string]any, keys []string) map[string]any {
	var out map[string]any
	for k, v := range m {
		if isNil(v) || slices.Contains(keys, k) {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(m))
		}
		out[k] = v
	}
	return out
}
