package keyresolver

import (
	"errors"

	"github.com/authkit-go/go-jwks-client/jwks"
)

// Option configures the Resolver. Returns an error for validation
// failures.
type Option func(*Resolver) error

// WithClient sets a pre-built JWKS client. Use this when the client is
// shared with other consumers or needs options beyond WithJWKSURI.
func WithClient(client *jwks.Client) Option {
	return func(r *Resolver) error {
		if client == nil {
			return errors.New("client cannot be nil")
		}
		r.client = client
		return nil
	}
}

// WithJWKSURI builds a JWKS client for the given endpoint, forwarding
// any extra client options.
//
// Example:
//
//	resolver, err := keyresolver.New(
//	    keyresolver.WithJWKSURI(
//	        "https://issuer.example.com/.well-known/jwks.json",
//	        jwks.WithRateLimit(10),
//	        jwks.WithCacheMaxAge(10*time.Minute),
//	    ),
//	)
func WithJWKSURI(uri string, opts ...jwks.ClientOption) Option {
	return func(r *Resolver) error {
		client, err := jwks.NewClient(append([]jwks.ClientOption{jwks.WithJWKSURI(uri)}, opts...)...)
		if err != nil {
			return err
		}
		r.client = client
		return nil
	}
}

// WithSigningKeyErrorHandler sets the hook invoked when key resolution
// fails. See SigningKeyErrorHandler for the substitution contract.
func WithSigningKeyErrorHandler(handler SigningKeyErrorHandler) Option {
	return func(r *Resolver) error {
		if handler == nil {
			return errors.New("signing key error handler cannot be nil")
		}
		r.onSigningKeyError = handler
		return nil
	}
}

// WithLogger sets the logger for the resolver itself. The underlying
// client takes its own logger via jwks.WithLogger.
func WithLogger(logger Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		r.logger = logger
		return nil
	}
}
