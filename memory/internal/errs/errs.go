// Package errs classifies failures seen by the memory provider so the
// adapter can decide which ones propagate and which are absorbed into
// negative results.
package errs

import "fmt"

// Kind partitions provider failures by handling policy.
type Kind int

const (
	// KindConnection covers liveness/initialization failures. Fatal to the
	// provider instance until it is re-initialized.
	KindConnection Kind = iota

	// KindIdentity covers token issuance and user lookup failures. These
	// surface to callers instead of being absorbed.
	KindIdentity

	// KindAPI covers per-call remote failures (HTTP status, network,
	// malformed response). Absorbed into negative/empty results.
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindIdentity:
		return "identity"
	case KindAPI:
		return "api"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Error wraps a failure with its handling classification.
type Error struct {
	Kind       Kind
	StatusCode int // HTTP status, 0 when not an HTTP-level failure
	Underlying error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Kind, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Kind, e.Underlying)
}

func (e *Error) Unwrap() error { return e.Underlying }

// Connection builds a KindConnection error.
func Connection(op string, err error) *Error {
	return &Error{Kind: KindConnection, Underlying: fmt.Errorf("%s: %w", op, err)}
}

// Identity builds a KindIdentity error.
func Identity(op string, err error) *Error {
	return &Error{Kind: KindIdentity, Underlying: fmt.Errorf("%s: %w", op, err)}
}

// API builds a KindAPI error for a non-success HTTP status.
func API(op string, statusCode int, body string) *Error {
	return &Error{
		Kind:       KindAPI,
		StatusCode: statusCode,
		Underlying: fmt.Errorf("%s failed: HTTP %d: %s", op, statusCode, body),
	}
}

// Network builds a KindAPI error for a transport-level failure.
func Network(op string, err error) *Error {
	return &Error{Kind: KindAPI, Underlying: fmt.Errorf("%s network error: %w", op, err)}
}

// IsIdentity reports whether err carries the identity classification.
func IsIdentity(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindIdentity
}
