package jwks

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultCacheMaxEntries   = 5
	defaultCacheMaxAge       = 10 * time.Minute
	defaultRequestsPerMinute = 10
	defaultRequestTimeout    = 30 * time.Second
)

// ClientOption is how options for the Client are set up.
type ClientOption func(*clientConfig) error

// clientConfig holds internal configuration for creating a Client.
type clientConfig struct {
	jwksURI   string
	issuerURL *url.URL

	httpClient   *http.Client
	customClient bool
	headers      http.Header

	cacheEnabled    bool
	cacheMaxEntries int
	cacheMaxAge     time.Duration

	rateLimitEnabled  bool
	requestsPerMinute int

	requestTimeout time.Duration

	logger  Logger
	metrics Metrics
	tracer  Tracer
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		httpClient:        &http.Client{Timeout: defaultRequestTimeout},
		cacheEnabled:      true,
		cacheMaxEntries:   defaultCacheMaxEntries,
		cacheMaxAge:       defaultCacheMaxAge,
		requestsPerMinute: defaultRequestsPerMinute,
		requestTimeout:    defaultRequestTimeout,
		logger:            noopLogger{},
		metrics:           noopMetrics{},
		tracer:            noopTracer{},
	}
}

// WithJWKSURI sets the JWKS endpoint the client fetches keys from.
// Either this or WithIssuerURL is required.
func WithJWKSURI(uri string) ClientOption {
	return func(c *clientConfig) error {
		if uri == "" {
			return fmt.Errorf("JWKS URI cannot be empty")
		}
		if _, err := url.ParseRequestURI(uri); err != nil {
			return fmt.Errorf("JWKS URI is not a valid URL: %w", err)
		}
		c.jwksURI = uri
		return nil
	}
}

// WithIssuerURL sets an OIDC issuer URL. The JWKS URI is discovered
// from the issuer's .well-known/openid-configuration document on first
// use, retrying on failure until discovery succeeds once. Ignored when
// WithJWKSURI is also given.
func WithIssuerURL(issuerURL *url.URL) ClientOption {
	return func(c *clientConfig) error {
		if issuerURL == nil {
			return fmt.Errorf("issuer URL cannot be nil")
		}
		c.issuerURL = issuerURL
		return nil
	}
}

// WithCustomClient sets a custom HTTP client, e.g. one carrying proxy
// or TLS configuration. If not specified, a default client whose
// timeout follows WithRequestTimeout is used.
func WithCustomClient(client *http.Client) ClientOption {
	return func(c *clientConfig) error {
		if client == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		c.httpClient = client
		c.customClient = true
		return nil
	}
}

// WithProxyURL routes JWKS requests through the given proxy. Only the
// transport is replaced; any other client configuration set via
// WithCustomClient is preserved if that option runs first.
func WithProxyURL(proxyURL *url.URL) ClientOption {
	return func(c *clientConfig) error {
		if proxyURL == nil {
			return fmt.Errorf("proxy URL cannot be nil")
		}
		client := *c.httpClient
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		c.httpClient = &client
		return nil
	}
}

// WithCustomHeaders adds headers to every JWKS request.
func WithCustomHeaders(headers http.Header) ClientOption {
	return func(c *clientConfig) error {
		if c.headers == nil {
			c.headers = http.Header{}
		}
		for name, values := range headers {
			for _, value := range values {
				c.headers.Add(name, value)
			}
		}
		return nil
	}
}

// WithCacheDisabled turns off key caching entirely. Every resolution
// then goes through the (deduplicated, rate-limit gated) fetch path.
func WithCacheDisabled() ClientOption {
	return func(c *clientConfig) error {
		c.cacheEnabled = false
		return nil
	}
}

// WithCacheMaxEntries bounds the key cache; the least-recently-used
// entry is evicted on overflow. Zero removes the bound.
// Default: 5 entries.
func WithCacheMaxEntries(maxEntries int) ClientOption {
	return func(c *clientConfig) error {
		if maxEntries < 0 {
			return fmt.Errorf("cache max entries cannot be negative")
		}
		c.cacheMaxEntries = maxEntries
		return nil
	}
}

// WithCacheMaxAge sets how long a cached key is served before a lookup
// treats it as absent. Zero disables expiry. Default: 10 minutes.
func WithCacheMaxAge(maxAge time.Duration) ClientOption {
	return func(c *clientConfig) error {
		if maxAge < 0 {
			return fmt.Errorf("cache max age cannot be negative")
		}
		c.cacheMaxAge = maxAge
		return nil
	}
}

// WithRateLimit enables the sliding-window fetch limiter, admitting at
// most requestsPerMinute network fetches in any trailing 60 second
// window. Zero applies the default of 10 per minute. Cache hits never
// consume budget. Rate limiting is off unless this option is given.
func WithRateLimit(requestsPerMinute int) ClientOption {
	return func(c *clientConfig) error {
		if requestsPerMinute < 0 {
			return fmt.Errorf("requests per minute cannot be negative")
		}
		if requestsPerMinute == 0 {
			requestsPerMinute = defaultRequestsPerMinute
		}
		c.rateLimitEnabled = true
		c.requestsPerMinute = requestsPerMinute
		return nil
	}
}

// WithRequestTimeout bounds each JWKS fetch. The default HTTP client's
// timeout follows this value; a client given via WithCustomClient keeps
// its own. Default: 30 seconds.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) error {
		if timeout <= 0 {
			return fmt.Errorf("request timeout must be positive")
		}
		c.requestTimeout = timeout
		return nil
	}
}

// WithLogger sets the logger the client writes to. The root package
// provides adapters for zap, zerolog, and logrus.
func WithLogger(logger Logger) ClientOption {
	return func(c *clientConfig) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink for cache and fetch activity.
func WithMetrics(metrics Metrics) ClientOption {
	return func(c *clientConfig) error {
		if metrics == nil {
			return fmt.Errorf("metrics cannot be nil")
		}
		c.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer used to wrap network fetches.
func WithTracer(tracer Tracer) ClientOption {
	return func(c *clientConfig) error {
		if tracer == nil {
			return fmt.Errorf("tracer cannot be nil")
		}
		c.tracer = tracer
		return nil
	}
}
