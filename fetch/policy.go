package fetch

import (
	"context"
	"math"
	"net/http"
	"slices"
	"time"

	json "github.com/goccy/go-json"
)

// ParseSuccessFunc turns a successful response into data.
type ParseSuccessFunc func(ctx context.Context, resp *http.Response) (any, error)

// ParseErrorFunc turns a failed response into an error value. The resolved
// options of the request that produced the response are passed along.
type ParseErrorFunc func(ctx context.Context, resp *http.Response, req *Resolved) error

// RetryWhenFunc reports whether a response should be retried.
type RetryWhenFunc func(resp *http.Response) bool

// RetryDelayFunc returns the wait before the given retry attempt.
// Attempts are counted from 1. A negative duration means stop.
type RetryDelayFunc func(attempt int) time.Duration

// SerializeBodyFunc encodes a structured body.
type SerializeBodyFunc func(body any) (string, error)

// SerializeParamsFunc encodes non-string params into a query string,
// with or without the leading "?".
type SerializeParamsFunc func(params any) (string, error)

// OnSuccessFunc is called by an executor with the parsed data of a
// successful response.
type OnSuccessFunc func(data any, req *Resolved)

// OnErrorFunc is called by an executor with the error of a failed request.
type OnErrorFunc func(err error, req *Resolved)

// BeforeFetchFunc is called by an executor before the request is sent.
type BeforeFetchFunc func(req *Resolved)

// retryableStatuses is read-only after package initialization.
var retryableStatuses = map[int]struct{}{
	http.StatusRequestTimeout:        {}, // 408
	http.StatusRequestEntityTooLarge: {}, // 413
	http.StatusTooManyRequests:       {}, // 429
	http.StatusInternalServerError:   {}, // 500
	http.StatusBadGateway:            {}, // 502
	http.StatusServiceUnavailable:    {}, // 503
	http.StatusGatewayTimeout:        {}, // 504
}

// Default retry delay parameters.
const (
	// DefaultRetryInitialDelay is the wait before the first retry.
	DefaultRetryInitialDelay = 2 * time.Second

	// DefaultRetryMultiplier is the growth factor between retries.
	DefaultRetryMultiplier = 1.5
)

// RetryableStatuses returns the status codes DefaultRetryWhen retries,
// in ascending order.
func RetryableStatuses() []int {
	codes := make([]int, 0, len(retryableStatuses))
	for code := range retryableStatuses {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// DefaultRetryWhen retries 408, 413, 429, 500, 502, 503 and 504.
// Every other status, including success, is not retried.
func DefaultRetryWhen(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	_, ok := retryableStatuses[resp.StatusCode]
	return ok
}

// DefaultRetryDelay waits 2s before the first retry and 1.5 times longer
// before each following one: 2s, 3s, 4.5s, 6.75s, ...
func DefaultRetryDelay(attempt int) time.Duration {
	return exponentialDelay(DefaultRetryInitialDelay, DefaultRetryMultiplier, attempt)
}

// DefaultSerializeBody encodes body as JSON text.
func DefaultSerializeBody(body any) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Fallbacks returns the built-in policies. They are the lowest precedence
// layer of every resolution.
func Fallbacks() Options {
	return Options{
		ParseSuccess:    DefaultParseSuccess,
		ParseError:      DefaultParseError,
		RetryWhen:       DefaultRetryWhen,
		RetryDelay:      DefaultRetryDelay,
		SerializeBody:   DefaultSerializeBody,
		SerializeParams: DefaultSerializeParams,
	}
}

// StatusRetryWhen returns a RetryWhenFunc that retries the given status
// codes only.
//
// Example:
//
//	defaults := &fetch.Options{
//	    RetryWhen: fetch.StatusRetryWhen(502, 503, 504),
//	}
func StatusRetryWhen(codes ...int) RetryWhenFunc {
	codeSet := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		codeSet[code] = struct{}{}
	}

	return func(resp *http.Response) bool {
		if resp == nil {
			return false
		}
		_, ok := codeSet[resp.StatusCode]
		return ok
	}
}

// NeverRetry returns a RetryWhenFunc that never retries.
func NeverRetry() RetryWhenFunc {
	return func(_ *http.Response) bool {
		return false
	}
}

// ExponentialDelay returns a RetryDelayFunc of initial × multiplier^(attempt-1),
// capped at maxDelay when maxDelay is positive.
//
// Example with initial=500ms, multiplier=2, maxDelay=5s:
//
//	Attempt 1: 500ms → Attempt 2: 1s → Attempt 3: 2s → Attempt 4: 4s → Attempt 5: 5s
func ExponentialDelay(initial time.Duration, multiplier float64, maxDelay time.Duration) RetryDelayFunc {
	return func(attempt int) time.Duration {
		d := exponentialDelay(initial, multiplier, attempt)
		if maxDelay > 0 && d > maxDelay {
			return maxDelay
		}
		return d
	}
}

// ConstantDelay returns a RetryDelayFunc that always waits d.
func ConstantDelay(d time.Duration) RetryDelayFunc {
	return func(_ int) time.Duration {
		return d
	}
}

// exponentialDelay treats attempts below 1 as the first attempt.
func exponentialDelay(initial time.Duration, multiplier float64, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(initial) * math.Pow(multiplier, float64(attempt-1))
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}
