package fetch

import (
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// scope is the instrumentation scope name for OpenTelemetry.
	scope = "github.com/kroma-labs/sentinel-fetch/fetch"
)

// Option keys. These are the names used for partitioning and for entries
// of Options.Extra that shadow a named field.
const (
	KeyBaseURL         = "baseUrl"
	KeyURL             = "url"
	KeyParams          = "params"
	KeyBody            = "body"
	KeyMethod          = "method"
	KeyHeaders         = "headers"
	KeyParseSuccess    = "parseSuccess"
	KeyParseError      = "parseError"
	KeyRetryWhen       = "retryWhen"
	KeyRetryDelay      = "retryDelay"
	KeySerializeBody   = "serializeBody"
	KeySerializeParams = "serializeParams"
	KeyOnSuccess       = "onSuccess"
	KeyOnError         = "onError"
	KeyBeforeFetch     = "beforeFetch"
)

// defaultOnlyKeys are only ever taken from the default options.
var defaultOnlyKeys = [...]string{KeyOnError, KeyOnSuccess, KeyBeforeFetch}

// overrideOnlyKeys are only ever taken from the per-call options.
var overrideOnlyKeys = [...]string{KeyBody, KeyURL, KeyParams}

// DefaultOnlyKeys returns the option keys that are accepted from the
// default options only. Values for these keys in per-call options are dropped.
func DefaultOnlyKeys() []string {
	return append([]string(nil), defaultOnlyKeys[:]...)
}

// OverrideOnlyKeys returns the option keys that are accepted from the
// per-call options only. Values for these keys in default options are dropped.
func OverrideOnlyKeys() []string {
	return append([]string(nil), overrideOnlyKeys[:]...)
}

// Options describes one side of a request configuration: either the shared
// defaults or the per-call override.
//
// The zero value of every field means "not set". An unset field never
// overrides a value from a lower-precedence layer, so a per-call Options
// only needs to carry what differs from the defaults.
//
// Example:
//
//	defaults := &fetch.Options{
//	    BaseURL: "https://api.example.com",
//	    Headers: http.Header{"Authorization": {"Bearer " + token}},
//	}
//
//	res, err := fetch.Resolve(defaults, &fetch.Options{
//	    Method: http.MethodPost,
//	    URL:    "/users",
//	    Body:   map[string]any{"name": "john"},
//	})
type Options struct {
	// BaseURL is prepended to URL unless URL is absolute.
	BaseURL string

	// URL is the request target, relative to BaseURL or absolute.
	// Per-call only.
	URL string

	// Params is the query. A string is used as-is (a leading "?" is added
	// when missing); anything else goes through SerializeParams.
	// Per-call only.
	Params any

	// Body is the request payload. Structured values (maps, structs,
	// slices, json.Marshaler) are serialized with SerializeBody; strings,
	// byte slices, readers and url.Values pass through untouched.
	// Per-call only.
	Body any

	// Method is the HTTP method. Defaults to Config.DefaultMethod.
	Method string

	// Headers are merged by name: per-call headers win over default
	// headers, which win over the automatic JSON content type.
	Headers http.Header

	ParseSuccess    ParseSuccessFunc
	ParseError      ParseErrorFunc
	RetryWhen       RetryWhenFunc
	RetryDelay      RetryDelayFunc
	SerializeBody   SerializeBodyFunc
	SerializeParams SerializeParamsFunc

	// OnSuccess, OnError and BeforeFetch are lifecycle hooks. They are
	// honored on the default options only.
	OnSuccess   OnSuccessFunc
	OnError     OnErrorFunc
	BeforeFetch BeforeFetchFunc

	// Extra carries options this package does not know about. Entries with
	// a nil value, including typed nils such as (*T)(nil) or a nil map, are
	// treated as unset. Entries named like a partitioned
	// option (see DefaultOnlyKeys, OverrideOnlyKeys) follow the same rules.
	Extra map[string]any
}

// =============================================================================
// Config - Resolver Configuration
// =============================================================================

// Config holds the resolver settings that are not part of a request.
//
// Example:
//
//	cfg := fetch.DefaultConfig()
//	cfg.DefaultMethod = http.MethodPost
//
//	r := fetch.NewResolver(fetch.WithConfig(cfg))
type Config struct {
	// DefaultMethod is used when neither side of the options sets Method.
	//
	// Default: GET
	DefaultMethod string

	// Debug logs every resolution at debug level, including an equivalent
	// cURL command.
	//
	// Default: false
	Debug bool
}

// DefaultConfig returns the configuration used by NewResolver when no
// WithConfig option is given.
func DefaultConfig() Config {
	return Config{
		DefaultMethod: http.MethodGet,
		Debug:         false,
	}
}

// internalConfig holds all resolver configuration including OTel settings.
type internalConfig struct {
	config Config

	// Logger receives debug output. Default: zerolog.Nop()
	Logger zerolog.Logger

	// Fallbacks are the lowest precedence layer of every resolution.
	Fallbacks Options

	// ServiceName is added as "fetch.client.name" on spans and metrics.
	ServiceName string

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *metrics
}

// newConfig creates a new internal config with defaults and applies options.
func newConfig(opts ...Option) *internalConfig {
	cfg := &internalConfig{
		config:         DefaultConfig(),
		Logger:         zerolog.Nop(),
		Fallbacks:      Fallbacks(),
		TracerProvider: otel.GetTracerProvider(),
		MeterProvider:  otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.config.DefaultMethod == "" {
		cfg.config.DefaultMethod = http.MethodGet
	}

	cfg.Tracer = cfg.TracerProvider.Tracer(scope)
	cfg.Meter = cfg.MeterProvider.Meter(scope)

	// Metrics stay nil on failure; recording is a no-op then.
	cfg.Metrics, _ = newMetrics(cfg.Meter)

	return cfg
}

// baseAttributes returns common attributes for all spans and metrics.
func (cfg *internalConfig) baseAttributes() []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 1)
	if cfg.ServiceName != "" {
		attrs = append(attrs, attribute.String("fetch.client.name", cfg.ServiceName))
	}
	return attrs
}

// =============================================================================
// Options - Functional Options for Resolver Configuration
// =============================================================================

// Option configures a Resolver or Fetcher.
type Option func(*internalConfig)

// WithConfig replaces the resolver configuration.
func WithConfig(c Config) Option {
	return func(cfg *internalConfig) {
		cfg.config = c
	}
}

// WithDebug enables or disables debug logging of resolved options.
// Output goes to the logger set with WithLogger.
//
// Example:
//
//	r := fetch.NewResolver(
//	    fetch.WithLogger(zerolog.New(os.Stderr)),
//	    fetch.WithDebug(true),
//	)
func WithDebug(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.config.Debug = enabled
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *internalConfig) {
		cfg.Logger = l
	}
}

// WithServiceName sets an identifier added as "fetch.client.name" to spans
// and metrics.
func WithServiceName(name string) Option {
	return func(cfg *internalConfig) {
		cfg.ServiceName = name
	}
}

// WithTracerProvider sets a custom OpenTelemetry TracerProvider.
// If not called, the global provider from otel.GetTracerProvider() is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *internalConfig) {
		cfg.TracerProvider = tp
	}
}

// WithMeterProvider sets a custom OpenTelemetry MeterProvider.
// If not called, the global provider from otel.GetMeterProvider() is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *internalConfig) {
		cfg.MeterProvider = mp
	}
}

// WithFallbacks replaces individual built-in fallback policies. Fields left
// unset in fb keep the built-in behavior. Only policy fields are read.
//
// Example - never retry unless a caller says otherwise:
//
//	r := fetch.NewResolver(
//	    fetch.WithFallbacks(fetch.Options{RetryWhen: fetch.NeverRetry()}),
//	)
func WithFallbacks(fb Options) Option {
	return func(cfg *internalConfig) {
		overlay(&cfg.Fallbacks, Options{
			ParseSuccess:    fb.ParseSuccess,
			ParseError:      fb.ParseError,
			RetryWhen:       fb.RetryWhen,
			RetryDelay:      fb.RetryDelay,
			SerializeBody:   fb.SerializeBody,
			SerializeParams: fb.SerializeParams,
		})
	}
}
