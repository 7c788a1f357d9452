package jwks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// Response bodies larger than this are rejected. JWKS documents are
// typically well under 10KB.
const maxResponseSize = 1 * 1024 * 1024

// fetcher performs a single GET of the JWKS document. It holds no cache
// or rate-limit state; each call is one deterministic network attempt.
type fetcher struct {
	client  *http.Client
	headers http.Header
	timeout time.Duration
	logger  Logger
}

// fetch retrieves and decodes the JWKS document at uri. Any transport
// failure, non-2xx status, malformed body, or missing "keys" field is a
// KindFetch error carrying the underlying cause.
func (f *fetcher) fetch(ctx context.Context, uri string) (*JSONWebKeySet, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, wrapError(KindFetch, err, "could not build request for %q", uri)
	}
	for name, values := range f.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, wrapError(KindFetch, err, "could not retrieve JWKS from %q", uri)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newError(KindFetch, "request to %q returned status %d", uri, resp.StatusCode)
	}

	var doc JSONWebKeySet
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&doc); err != nil {
		return nil, wrapError(KindFetch, err, "could not decode JWKS document from %q", uri)
	}
	if doc.Keys == nil {
		return nil, newError(KindFetch, "JWKS document from %q has no keys field", uri)
	}

	f.logger.Debugf("fetched JWKS document with %d keys from %s", len(doc.Keys), uri)

	return &doc, nil
}
