// Package jwks resolves token signing keys from a JSON Web Key Set
// endpoint.
//
// A Client wraps one JWKS URI with a TTL and size bounded key cache, a
// sliding-window fetch rate limiter, and per-URI deduplication of
// concurrent fetches. Callers hand it the kid from an unverified token
// header and receive the matching public key material, or a typed error
// describing exactly why resolution failed.
//
// Basic usage:
//
//	client, err := jwks.NewClient(
//	    jwks.WithJWKSURI("https://issuer.example.com/.well-known/jwks.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	key, err := client.GetSigningKey(ctx, kid)
//	if err != nil {
//	    switch jwks.KindOf(err) {
//	    case jwks.KindKeyNotFound:
//	        // no published key matches the token
//	    case jwks.KindRateLimit:
//	        // fetch budget exhausted, retry later
//	    default:
//	        // transport or parse failure
//	    }
//	}
//
//	// key.PublicKey is *rsa.PublicKey or *ecdsa.PublicKey,
//	// key.PEM is the same material in PEM form.
//
// The client never validates token signatures, expiry, audience, or
// issuer claims. It only supplies candidate verification keys; what to
// do with them is the verification middleware's concern.
//
// # Caching and rate limiting
//
// Each successful fetch populates the cache with every key the document
// publishes, so one network round trip serves all kids. Lookups apply
// lazy expiry: an entry older than the configured max age counts as a
// miss. The rate limiter only meters actual network attempts; cache
// hits are free, and rejected attempts do not consume budget.
//
// Concurrent resolutions of uncached kids for the same URI collapse
// into one in-flight fetch whose outcome every waiter shares.
package jwks
