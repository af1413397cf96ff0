package fetch

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenJSON struct{}

func (brokenJSON) MarshalJSON() ([]byte, error) {
	return nil, errors.New("broken")
}

func TestIsAbsoluteURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "given https url, then absolute", url: "https://other.com/y", want: true},
		{name: "given http url, then absolute", url: "http://other.com", want: true},
		{name: "given ws url, then absolute", url: "ws://other.com/socket", want: true},
		{name: "given relative path, then relative", url: "/users", want: false},
		{name: "given bare host, then relative", url: "other.com/y", want: false},
		{name: "given protocol relative url, then relative", url: "//other.com/y", want: false},
		{name: "given scheme later in string, then relative", url: "/redirect?to=https://x.com", want: false},
		{name: "given empty string, then relative", url: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAbsoluteURL(tt.url))
		})
	}
}

func TestCompileHref(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		url     string
		query   string
		want    string
	}{
		{
			name:    "given relative url, then base url is prepended",
			baseURL: "https://api.x.com",
			url:     "/users",
			query:   "?a=1&b=2",
			want:    "https://api.x.com/users?a=1&b=2",
		},
		{
			name:    "given absolute url, then base url is ignored",
			baseURL: "https://api.x.com",
			url:     "https://other.com/y",
			want:    "https://other.com/y",
		},
		{
			name:    "given no url, then base url alone",
			baseURL: "https://api.x.com",
			want:    "https://api.x.com",
		},
		{
			name: "given nothing, then empty",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compileHref(tt.baseURL, tt.url, tt.query))
		})
	}
}

func TestCompileQuery(t *testing.T) {
	tests := []struct {
		name   string
		params any
		want   string
	}{
		{name: "given nil params, then empty", params: nil, want: ""},
		{name: "given empty string, then empty", params: "", want: ""},
		{name: "given string without question mark, then prefixed", params: "x=1", want: "?x=1"},
		{name: "given string with question mark, then unchanged", params: "?x=1", want: "?x=1"},
		{name: "given map, then serialized and prefixed", params: map[string]any{"a": 1, "b": 2}, want: "?a=1&b=2"},
		{name: "given empty map, then empty", params: map[string]any{}, want: ""},
		{name: "given false, then empty", params: false, want: ""},
		{name: "given zero, then empty", params: 0, want: ""},
		{name: "given zero float, then empty", params: 0.0, want: ""},
		{name: "given empty slice, then empty", params: []int{}, want: ""},
		{name: "given nil slice, then empty", params: []string(nil), want: ""},
		{name: "given nil map, then empty", params: map[string]any(nil), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compileQuery(tt.params, DefaultSerializeParams)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileQuery_SerializerError(t *testing.T) {
	errBoom := errors.New("boom")
	failing := func(_ any) (string, error) { return "", errBoom }

	_, err := compileQuery(map[string]any{"a": 1}, failing)

	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "serialize params")
}

func TestCompileQuery_SerializerWithQuestionMark(t *testing.T) {
	prefixed := func(_ any) (string, error) { return "?q=go", nil }

	got, err := compileQuery(struct{}{}, prefixed)

	require.NoError(t, err)
	assert.Equal(t, "?q=go", got)
}

func TestDefaultSerializeParams(t *testing.T) {
	type filter struct {
		Status string     `json:"status"`
		Owner  *string    `json:"owner"`
		Since  time.Time  `json:"since"`
		Limit  int        `json:"limit,omitempty"`
		Tags   []string   `json:"tags"`
		Range  [2]float64 `json:"range"`
	}

	tests := []struct {
		name   string
		params any
		want   string
	}{
		{
			name:   "given map, then keys are sorted",
			params: map[string]any{"b": 2, "a": 1},
			want:   "a=1&b=2",
		},
		{
			name:   "given nil values, then they are dropped",
			params: map[string]any{"a": nil, "b": "x"},
			want:   "b=x",
		},
		{
			name:   "given url values, then encoded as-is",
			params: url.Values{"tag": {"a", "b"}, "q": {"go lang"}},
			want:   "q=go+lang&tag=a&tag=b",
		},
		{
			name: "given struct, then json tags and time formatting apply",
			params: filter{
				Status: "open",
				Since:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
				Tags:   []string{"x", "y"},
				Range:  [2]float64{0.5, 10},
			},
			want: "range=0.5&range=10&since=2024-01-02T03%3A04%3A05Z&status=open&tags=x&tags=y",
		},
		{
			name:   "given booleans and large integers, then rendered literally",
			params: map[string]any{"flag": false, "id": int64(9007199254740993)},
			want:   "flag=false&id=9007199254740993",
		},
		{
			name:   "given nested object, then sent as json text",
			params: map[string]any{"filter": map[string]any{"a": 1}},
			want:   "filter=%7B%22a%22%3A1%7D",
		},
		{
			name:   "given special characters, then escaped",
			params: map[string]string{"q": "a&b=c"},
			want:   "q=a%26b%3Dc",
		},
		{
			name:   "given nil pointer, then empty",
			params: (*filter)(nil),
			want:   "",
		},
		{
			name:   "given empty slice, then empty",
			params: []any{},
			want:   "",
		},
		{
			name:   "given nil slice, then empty",
			params: []int(nil),
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultSerializeParams(tt.params)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultSerializeParams_Errors(t *testing.T) {
	tests := []struct {
		name    string
		params  any
		wantErr error
	}{
		{
			name:    "given slice, then invalid params",
			params:  []int{1, 2},
			wantErr: ErrInvalidParams,
		},
		{
			name:    "given scalar, then invalid params",
			params:  42,
			wantErr: ErrInvalidParams,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DefaultSerializeParams(tt.params)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("given unencodable value, then returns error", func(t *testing.T) {
		_, err := DefaultSerializeParams(map[string]any{"v": brokenJSON{}})

		assert.Error(t, err)
	})
}

func TestStructParams(t *testing.T) {
	type listUsers struct {
		Page  int      `url:"page"`
		Tags  []string `url:"tag"`
		Query string   `url:"q,omitempty"`
	}

	tests := []struct {
		name    string
		params  any
		want    string
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name:    "given tagged struct, then encodes with url tags",
			params:  listUsers{Page: 2, Tags: []string{"a", "b"}},
			want:    "page=2&tag=a&tag=b",
			wantErr: assert.NoError,
		},
		{
			name:    "given struct pointer, then encodes fields",
			params:  &listUsers{Page: 1, Query: "john"},
			want:    "page=1&q=john",
			wantErr: assert.NoError,
		},
		{
			name:    "given non-struct, then returns error",
			params:  "page=1",
			want:    "",
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StructParams(tt.params)

			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
