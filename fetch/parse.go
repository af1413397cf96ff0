package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
)

// DefaultParseSuccess decodes the response body as JSON, or returns it as
// text when it is not valid JSON. A result without content (empty body,
// null, false, "" or 0) yields nil.
//
// The body is buffered and put back on resp, so it can be read again.
func DefaultParseSuccess(ctx context.Context, resp *http.Response) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := bufferBody(resp)
	if err != nil {
		return nil, err
	}
	return decodeResponse(data), nil
}

// DefaultParseError returns a *ResponseError carrying the response, its
// body decoded the same way as DefaultParseSuccess, and req.
//
// It always returns an error value. A body that cannot be read leaves
// ResponseError.Data nil.
func DefaultParseError(_ context.Context, resp *http.Response, req *Resolved) error {
	data, err := bufferBody(resp)

	var decoded any
	if err == nil {
		decoded = decodeResponse(data)
	}

	return &ResponseError{
		Response: resp,
		Data:     decoded,
		Request:  req,
	}
}

// bufferBody reads the whole body and replaces resp.Body with a fresh
// reader over the same bytes.
func bufferBody(resp *http.Response) ([]byte, error) {
	if resp == nil || resp.Body == nil || resp.Body == http.NoBody {
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// decodeResponse tries JSON first, then falls back to text. Falsy results
// become nil.
func decodeResponse(data []byte) any {
	if len(data) == 0 {
		return nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		v = string(data)
	}
	if isFalsy(v) {
		return nil
	}
	return v
}
