// Package keyresolver turns unverified JWT headers into verification
// key material fetched from a JWKS endpoint.
//
// The Resolver is the piece a token-verification middleware plugs in:
// it inspects the token's algorithm and kid, refuses symmetric (HMAC
// family) tokens outright, and otherwise asks the jwks.Client for the
// matching public key. The client handles caching, rate limiting, and
// deduplication of concurrent fetches; see the jwks package.
//
//	resolver, err := keyresolver.New(
//	    keyresolver.WithJWKSURI("https://issuer.example.com/.well-known/jwks.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	key, err := resolver.Resolve(ctx, keyresolver.TokenHeader{
//	    Alg: "RS256",
//	    Kid: "2026-02-key",
//	})
//
// Shims under validate/ expose the resolver in the calling conventions
// of common verification libraries: validate/jwtgo produces a
// golang-jwt jwt.Keyfunc, validate/jwx produces a lestrrat-go/jwx
// jwk.Set. Internal logic stays in the Resolver; each shim is a thin
// translation of one external convention.
//
// This package never validates signatures or claims. A resolved key
// that the token was not actually signed with will simply fail
// signature verification downstream.
package keyresolver
