package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidHeaderSource is returned by MergeHeadersStrict for a header
	// source of an unsupported type.
	ErrInvalidHeaderSource = errors.New("fetch: unsupported header source")

	// ErrInvalidParams is returned by DefaultSerializeParams when params do
	// not encode to a JSON object.
	ErrInvalidParams = errors.New("fetch: params must encode to an object")
)

// ResponseError is the error produced by DefaultParseError for a response
// the executor considers failed.
//
// Example:
//
//	if re, ok := fetch.AsResponseError(err); ok {
//	    log.Printf("status %d: %v", re.StatusCode(), re.Data)
//	}
type ResponseError struct {
	// Response is the failed response. Its body has been buffered and can
	// be read again.
	Response *http.Response

	// Data is the decoded body: JSON value, text, or nil.
	Data any

	// Request is the resolved options of the request.
	Request *Resolved
}

// Error implements error.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("fetch: request failed with status %d", e.StatusCode())
}

// StatusCode returns the response status code, or 0 without a response.
func (e *ResponseError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// IsResponseError reports whether err is or wraps a *ResponseError.
func IsResponseError(err error) bool {
	_, ok := AsResponseError(err)
	return ok
}

// AsResponseError finds the first *ResponseError in err's chain.
func AsResponseError(err error) (*ResponseError, bool) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
