// Package jwx exposes resolved signing keys in the lestrrat-go/jwx
// calling conventions.
package jwx

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/authkit-go/go-jwks-client/jwks"
)

// KeySet fetches every signing key the provider currently publishes and
// returns them as a jwk.Set, suitable for jwt.WithKeySet or any other
// jwx API that consumes key sets. Kid and algorithm hints survive the
// conversion when the JWKS document published them.
func KeySet(ctx context.Context, client *jwks.Client) (jwk.Set, error) {
	signingKeys, err := client.GetSigningKeys(ctx)
	if err != nil {
		return nil, err
	}

	set := jwk.NewSet()
	for _, signingKey := range signingKeys {
		key, err := jwk.FromRaw(signingKey.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("could not convert signing key %q: %w", signingKey.Kid, err)
		}

		if signingKey.Kid != "" {
			if err := key.Set(jwk.KeyIDKey, signingKey.Kid); err != nil {
				return nil, fmt.Errorf("could not set kid on key %q: %w", signingKey.Kid, err)
			}
		}
		if signingKey.Alg != "" {
			if err := key.Set(jwk.AlgorithmKey, signingKey.Alg); err != nil {
				return nil, fmt.Errorf("could not set alg on key %q: %w", signingKey.Kid, err)
			}
		}

		if err := set.AddKey(key); err != nil {
			return nil, fmt.Errorf("could not add key %q to set: %w", signingKey.Kid, err)
		}
	}

	return set, nil
}

// KeyFunc returns a keyFunc in the validator convention whose non-error
// result is a jwk.Set: a function taking a context and returning the
// current key set. Each call re-resolves through the client, so the
// client's cache and rate limiter still govern network activity.
func KeyFunc(client *jwks.Client) func(ctx context.Context) (interface{}, error) {
	return func(ctx context.Context) (interface{}, error) {
		return KeySet(ctx, client)
	}
}
