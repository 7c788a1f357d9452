package jwks

import (
	"errors"
	"fmt"
)

// Kind identifies the failure class of an Error. The set is closed so
// callers can branch exhaustively on resolution outcomes instead of
// inspecting message text.
type Kind int

const (
	// KindArgument means the client or resolver was constructed with
	// invalid or missing configuration. No partial client is produced.
	KindArgument Kind = iota + 1

	// KindFetch means the JWKS document could not be retrieved or parsed.
	// A later resolution attempt may succeed; nothing is retried internally.
	KindFetch

	// KindRateLimit means the fetch budget for the trailing window is
	// exhausted. The attempt never reached the network.
	KindRateLimit

	// KindInvalidKey means a single JWK entry carried no usable key
	// material. It is fatal to that entry only, never to the whole fetch.
	KindInvalidKey

	// KindKeyNotFound means resolution completed but no key matched the
	// request, or the request was ambiguous.
	KindKeyNotFound
)

func (k Kind) String() string {
	switch k {
	case KindArgument:
		return "argument"
	case KindFetch:
		return "fetch"
	case KindRateLimit:
		return "rate_limit"
	case KindInvalidKey:
		return "invalid_key"
	case KindKeyNotFound:
		return "key_not_found"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidArgument is matched by errors.Is for any KindArgument error.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFetchFailed is matched by errors.Is for any KindFetch error.
	ErrFetchFailed = errors.New("jwks fetch failed")

	// ErrRateLimited is matched by errors.Is for any KindRateLimit error.
	ErrRateLimited = errors.New("jwks fetch rate limited")

	// ErrInvalidKey is matched by errors.Is for any KindInvalidKey error.
	ErrInvalidKey = errors.New("invalid jwk entry")

	// ErrSigningKeyNotFound is matched by errors.Is for any KindKeyNotFound error.
	ErrSigningKeyNotFound = errors.New("signing key not found")
)

// Error is the typed error returned by this package. Every failure path
// carries exactly one Kind; the optional cause preserves the underlying
// transport or parse error for logging.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// Kind reports the failure class of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Error returns a string representation of the error.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is supports equality against the per-kind sentinel values, so callers
// can write errors.Is(err, jwks.ErrRateLimited) without unwrapping to
// *Error themselves.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.kind == KindArgument
	case ErrFetchFailed:
		return e.kind == KindFetch
	case ErrRateLimited:
		return e.kind == KindRateLimit
	case ErrInvalidKey:
		return e.kind == KindInvalidKey
	case ErrSigningKeyNotFound:
		return e.kind == KindKeyNotFound
	}
	return false
}

// KindOf returns the Kind of err if it is (or wraps) an *Error,
// and 0 otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return 0
}
