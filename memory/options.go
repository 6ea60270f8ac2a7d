package memory

// This file defines functional options that configure the Mycelia adapter
// during construction. Keeping them in a standalone file makes it easy to
// discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"
)

// Option mutates the adapter during NewMycelia. Options must be
// deterministic and side-effect free.
type Option func(*Mycelia) error

// WithHTTPClient injects a custom *http.Client. Useful for setting transport
// timeouts, tracing, or custom TLS settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(m *Mycelia) error {
		if hc == nil {
			return fmt.Errorf("nil http client")
		}
		m.http = hc
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client Timeout.
//
// This is the single configured request timeout: it bounds connection, TLS
// handshake, redirects and reading the response. There is no per-operation
// override and no retry after it fires.
func WithHTTPTimeout(d time.Duration) Option {
	return func(m *Mycelia) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		m.http.Timeout = d
		return nil
	}
}

// WithDebugLogging wraps the adapter's transport so each request/response is
// logged when enabled is true.
func WithDebugLogging(enabled bool) Option {
	return func(m *Mycelia) error {
		if enabled {
			base := m.http.Transport
			if base == nil {
				base = http.DefaultTransport
			}
			m.http.Transport = &debugTransport{base: base}
		}
		return nil
	}
}
