// Package jwtgo exposes a Resolver as a golang-jwt/v5 jwt.Keyfunc.
//
//	resolver, _ := keyresolver.New(keyresolver.WithJWKSURI(jwksURI))
//	token, err := jwt.Parse(raw, jwtgo.Keyfunc(resolver))
package jwtgo

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	keyresolver "github.com/authkit-go/go-jwks-client"
)

// Keyfunc adapts the resolver to the jwt.Keyfunc signature. The
// jwt.Keyfunc contract carries no context, so resolution runs under
// context.Background; use KeyfuncWithContext to bound it.
func Keyfunc(r *keyresolver.Resolver) jwt.Keyfunc {
	return KeyfuncWithContext(context.Background(), r)
}

// KeyfuncWithContext adapts the resolver to the jwt.Keyfunc signature,
// running every resolution under ctx.
//
// The token's header is handed to the resolver unverified; HMAC-family
// tokens are refused there before any key lookup. When a configured
// error handler suppresses a resolution failure, the keyfunc reports
// jwt.ErrTokenUnverifiable, which is that library's "no key available"
// outcome.
func KeyfuncWithContext(ctx context.Context, r *keyresolver.Resolver) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		header := keyresolver.TokenHeader{
			Alg: token.Method.Alg(),
		}
		if kid, ok := token.Header["kid"].(string); ok {
			header.Kid = kid
		}

		key, err := r.Resolve(ctx, header)
		if err != nil {
			return nil, err
		}
		if key == nil {
			return nil, jwt.ErrTokenUnverifiable
		}

		return key.PublicKey, nil
	}
}
