package jwks

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/authkit-go/go-jwks-client/internal/oidc"
)

// Client resolves signing keys from a JWKS endpoint. It owns the cache,
// rate limiter, and in-flight fetch registry; one instance is meant to
// be shared across all concurrently-arriving verification requests and
// lives for the process lifetime.
type Client struct {
	httpClient *http.Client
	fetcher    *fetcher
	cache      *keyCache    // nil when caching is disabled
	limiter    *rateLimiter // nil when rate limiting is disabled

	// In-flight fetch registry: at most one network fetch per URI is
	// outstanding; concurrent callers share its outcome.
	group singleflight.Group

	logger  Logger
	metrics Metrics
	tracer  Tracer

	// JWKS URI, either configured directly or discovered from the
	// issuer's well-known configuration. Discovery is retried until it
	// succeeds once; the URI never changes after that.
	issuerURL *url.URL
	jwksURIMu sync.Mutex
	jwksURI   string
}

// refreshResult is the outcome of one shared fetch: every extracted key
// in document order, plus a kid index for lookups.
type refreshResult struct {
	keys  []*SigningKey
	byKid map[string]*SigningKey
}

// NewClient builds a Client from the supplied options.
//
// Either WithJWKSURI or WithIssuerURL is required; constructing a client
// with neither fails with a KindArgument error.
//
// Example:
//
//	client, err := jwks.NewClient(
//	    jwks.WithJWKSURI("https://issuer.example.com/.well-known/jwks.json"),
//	    jwks.WithCacheMaxAge(10*time.Minute),
//	    jwks.WithRateLimit(10),
//	)
func NewClient(opts ...ClientOption) (*Client, error) {
	config := defaultClientConfig()

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, wrapError(KindArgument, err, "invalid option")
		}
	}

	if config.jwksURI == "" && config.issuerURL == nil {
		return nil, newError(KindArgument, "a JWKS URI is required (use WithJWKSURI or WithIssuerURL)")
	}

	// The default client's timeout must not undercut the configured
	// request timeout; a custom client's own timeout is left alone.
	if !config.customClient {
		config.httpClient.Timeout = config.requestTimeout
	}

	c := &Client{
		httpClient: config.httpClient,
		jwksURI:    config.jwksURI,
		issuerURL:  config.issuerURL,
		logger:     config.logger,
		metrics:    config.metrics,
		tracer:     config.tracer,
	}

	c.fetcher = &fetcher{
		client:  config.httpClient,
		headers: config.headers,
		timeout: config.requestTimeout,
		logger:  config.logger,
	}

	if config.cacheEnabled {
		cache, err := newKeyCache(config.cacheMaxEntries, config.cacheMaxAge)
		if err != nil {
			return nil, err
		}
		c.cache = cache
	}

	if config.rateLimitEnabled {
		c.limiter = newRateLimiter(config.requestsPerMinute, time.Minute)
	}

	return c, nil
}

// GetSigningKey resolves the signing key for kid.
//
// A cache hit returns immediately without consuming rate-limit budget.
// On a miss the client fetches the document (deduplicated per URI),
// extracts every entry, and bulk-populates the cache, so one round trip
// serves all keys the provider publishes. An empty kid succeeds only
// when the document contains exactly one key.
func (c *Client) GetSigningKey(ctx context.Context, kid string) (*SigningKey, error) {
	if c.cache != nil {
		if key, ok := c.cache.get(kid); ok {
			c.metrics.IncCounter(metricCacheHit, nil)
			return key, nil
		}
		c.metrics.IncCounter(metricCacheMiss, nil)
	}

	result, err := c.refresh(ctx)
	if err != nil {
		return nil, err
	}

	var key *SigningKey
	if kid != "" {
		found, ok := result.byKid[kid]
		if !ok {
			return nil, newError(KindKeyNotFound, "unable to find a signing key that matches %q", kid)
		}
		key = found
	} else {
		// Without a kid there is nothing to disambiguate with, so the
		// document must hold exactly one key.
		if len(result.keys) != 1 {
			return nil, newError(KindKeyNotFound, "secret or public key must be provided")
		}
		key = result.keys[0]

		// Memoize the no-kid resolution under the empty string; bulk
		// population only covers entries that carry their own kid.
		if c.cache != nil {
			c.cache.add(kid, key)
		}
	}

	return key, nil
}

// GetSigningKeys fetches the document and returns every key it could
// extract, in document order. Entries without usable material are
// skipped, not fatal.
func (c *Client) GetSigningKeys(ctx context.Context) ([]*SigningKey, error) {
	result, err := c.refresh(ctx)
	if err != nil {
		return nil, err
	}

	if len(result.keys) == 0 {
		return nil, newError(KindKeyNotFound, "the JWKS endpoint did not contain any signing keys")
	}

	return result.keys, nil
}

// JWKSURI returns the configured or discovered JWKS URI. It is empty
// until discovery from the issuer URL has run.
func (c *Client) JWKSURI() string {
	c.jwksURIMu.Lock()
	defer c.jwksURIMu.Unlock()
	return c.jwksURI
}

// refresh performs the rate-limit gated fetch-and-extract cycle,
// collapsing concurrent callers for the same URI into a single network
// call. All waiters observe the same outcome.
func (c *Client) refresh(ctx context.Context) (*refreshResult, error) {
	uri, err := c.resolveJWKSURI(ctx)
	if err != nil {
		return nil, err
	}

	value, err, shared := c.group.Do(uri, func() (interface{}, error) {
		if c.limiter != nil && !c.limiter.allow() {
			c.metrics.IncCounter(metricRateLimited, nil)
			return nil, newError(KindRateLimit, "JWKS fetch budget for %q is exhausted", uri)
		}
		return c.fetchAndExtract(ctx, uri)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debugf("joined in-flight JWKS fetch for %s", uri)
	}

	return value.(*refreshResult), nil
}

func (c *Client) fetchAndExtract(ctx context.Context, uri string) (*refreshResult, error) {
	span := c.tracer.StartSpan(spanFetch)
	span.SetTag("jwks.uri", uri)
	defer span.Finish()

	c.metrics.IncCounter(metricFetch, nil)
	start := time.Now()

	doc, err := c.fetcher.fetch(ctx, uri)
	c.metrics.ObserveHistogram(metricFetchDuration, time.Since(start).Seconds(), nil)
	if err != nil {
		c.metrics.IncCounter(metricFetchError, nil)
		span.SetTag("error", true)
		return nil, err
	}

	result := &refreshResult{
		byKid: make(map[string]*SigningKey, len(doc.Keys)),
	}

	for _, entry := range doc.Keys {
		key, err := ExtractSigningKey(entry)
		if err != nil {
			// A malformed key among many valid ones must not break
			// resolution of the others.
			c.logger.Warnf("skipping JWK entry %q: %v", entry.Kid, err)
			continue
		}

		result.keys = append(result.keys, key)
		if key.Kid != "" {
			if _, seen := result.byKid[key.Kid]; !seen {
				result.byKid[key.Kid] = key
			}
			if c.cache != nil {
				c.cache.add(key.Kid, key)
			}
		}
	}

	return result, nil
}

// resolveJWKSURI returns the JWKS URI, discovering it from the issuer's
// well-known configuration when none was configured. A failed discovery
// is not latched: the next caller tries again, and concurrent callers
// serialize so the endpoint sees one attempt at a time.
func (c *Client) resolveJWKSURI(ctx context.Context) (string, error) {
	c.jwksURIMu.Lock()
	defer c.jwksURIMu.Unlock()

	if c.jwksURI != "" {
		return c.jwksURI, nil
	}

	endpoints, err := oidc.GetWellKnownEndpoints(ctx, c.httpClient, *c.issuerURL)
	if err != nil {
		return "", wrapError(KindFetch, err, "could not discover JWKS URI from issuer %q", c.issuerURL)
	}

	c.logger.Infof("discovered JWKS URI %s from issuer %s", endpoints.JWKSURI, c.issuerURL)
	c.jwksURI = endpoints.JWKSURI

	return c.jwksURI, nil
}
