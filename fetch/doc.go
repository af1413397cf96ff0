// Package fetch resolves the final configuration of an HTTP request from
// shared default options and per-call options.
//
// Resolution is pure: it merges the two option sets, serializes the body
// and the query, merges headers and attaches response-parsing and retry
// policies. Sending the request, retrying it and parsing the response are
// left to the caller, who gets everything needed in a *Resolved.
//
// # Quick Start
//
//	defaults := &fetch.Options{
//	    BaseURL: "https://api.example.com",
//	    Headers: http.Header{"Authorization": {"Bearer " + token}},
//	}
//
//	res, err := fetch.Resolve(defaults, &fetch.Options{
//	    Method: http.MethodPost,
//	    URL:    "/users",
//	    Params: map[string]any{"notify": true},
//	    Body:   newUser,
//	})
//	// res.Href == "https://api.example.com/users?notify=true"
//	// res.Body == `{"name":"john"}`
//	// res.Headers.Get("Content-Type") == "application/json"
//
//	req, err := res.NewRequest(ctx)
//
// # Precedence
//
// Layers, lowest precedence first:
//
//  1. Built-in fallback policies (see Fallbacks)
//  2. Default options, without URL, Params and Body
//  3. Per-call options, without OnSuccess, OnError and BeforeFetch
//
// An unset (zero) field never overrides a set one.
//
// # Bodies
//
// Maps, structs, slices and json.Marshaler values are structured: they are
// encoded with SerializeBody (JSON by default) and get a
// "Content-Type: application/json" header unless one is given. Strings,
// byte slices, readers and url.Values are opaque and pass through.
//
// # Query Strings
//
// String params are appended as-is, with a "?" added when missing. Other
// params go through SerializeParams. The default serializer accepts
// url.Values, maps and structs with json tags; StructParams handles structs
// with url tags.
//
// # Retry Policies
//
// Resolved options carry RetryWhen and RetryDelay but nothing here retries.
// An executor can use them directly or through DelayBackOff with
// github.com/cenkalti/backoff/v5:
//
//	resp, err := backoff.Retry(ctx, op,
//	    backoff.WithBackOff(res.BackOff()),
//	    backoff.WithMaxTries(4),
//	)
//
// # Observability
//
// Each resolution emits a "fetch.Resolve" span and the metrics
// fetch.resolve.count and fetch.resolve.duration. WithDebug logs resolved
// options, with an equivalent cURL command, through zerolog.
package fetch
