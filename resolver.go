package keyresolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/authkit-go/go-jwks-client/jwks"
)

// TokenHeader is the decoded, unverified header of an incoming token.
// Only the fields needed to pick a verification key are modeled.
type TokenHeader struct {
	// Alg is the signing algorithm the token claims to use. Required.
	Alg string

	// Kid selects which published key signed the token. Optional; when
	// empty, resolution succeeds only if the provider publishes exactly
	// one key.
	Kid string
}

// SigningKeyErrorHandler lets the embedding application substitute its
// own error for a failed resolution before the result reaches the
// verification middleware. Returning a different error replaces the
// original; returning nil suppresses it, making Resolve return
// (nil, nil), which the shims translate into their convention's
// "no key available" outcome.
type SigningKeyErrorHandler func(err error) error

// Resolver bridges a verification middleware to a jwks.Client. Given an
// unverified token header it hands back the matching public key
// material, refusing symmetric algorithms outright: a JWKS endpoint can
// never legitimately supply a shared secret, so an HMAC-style token is
// rejected before any key lookup happens.
type Resolver struct {
	client            *jwks.Client
	onSigningKeyError SigningKeyErrorHandler
	logger            Logger
}

// New builds a Resolver from the supplied options.
//
// A JWKS client configuration is required: pass either WithClient or
// WithJWKSURI. Constructing a resolver with neither fails immediately,
// before any token is ever processed.
//
// Example:
//
//	resolver, err := keyresolver.New(
//	    keyresolver.WithJWKSURI("https://issuer.example.com/.well-known/jwks.json"),
//	)
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		logger: &DefaultLogger{},
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if r.client == nil {
		return nil, fmt.Errorf("%w: a JWKS client is required (use WithClient or WithJWKSURI)", jwks.ErrInvalidArgument)
	}

	return r, nil
}

// Client returns the underlying JWKS client.
func (r *Resolver) Client() *jwks.Client {
	return r.client
}

// Resolve turns an unverified token header into verification key
// material.
//
// Symmetric and absent algorithms fail with ErrUnsupportedAlgorithm.
// Resolution failures from the client are offered to the configured
// SigningKeyErrorHandler, if any, before being returned; without a
// handler the typed error passes through unchanged.
func (r *Resolver) Resolve(ctx context.Context, header TokenHeader) (*jwks.SigningKey, error) {
	if err := checkAlgorithm(header.Alg); err != nil {
		r.logger.Debugf("refusing key resolution for algorithm %q", header.Alg)
		return nil, err
	}

	key, err := r.client.GetSigningKey(ctx, header.Kid)
	if err != nil {
		r.logger.Debugf("signing key resolution failed for kid %q: %v", header.Kid, err)

		if r.onSigningKeyError != nil {
			err = r.onSigningKeyError(err)
			if err == nil {
				return nil, nil
			}
		}
		return nil, err
	}

	return key, nil
}

// ErrUnsupportedAlgorithm is returned when a token claims an algorithm
// that asymmetric key resolution cannot serve, such as the HMAC family
// or "none".
var ErrUnsupportedAlgorithm = errors.New("token algorithm is not supported for signing key resolution")

// unsupportedAlgError carries the offending algorithm while supporting
// errors.Is against ErrUnsupportedAlgorithm.
type unsupportedAlgError struct {
	alg string
}

func (e unsupportedAlgError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedAlgorithm, e.alg)
}

func (e unsupportedAlgError) Is(target error) bool {
	return target == ErrUnsupportedAlgorithm
}

func checkAlgorithm(alg string) error {
	switch {
	case alg == "":
		return unsupportedAlgError{alg: alg}
	case strings.EqualFold(alg, "none"):
		return unsupportedAlgError{alg: alg}
	case strings.HasPrefix(strings.ToUpper(alg), "HS"):
		return unsupportedAlgError{alg: alg}
	}
	return nil
}
