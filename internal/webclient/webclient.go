package webclient

import (
	"context"
	"errors"
)

var (
	// ErrNilRequest is returned by Do when req is nil.
	ErrNilRequest = errors.New("webclient: nil request")

	// ErrBodyNotAllowed is returned by backends that cannot attach a body to
	// the requested method (browsers refuse bodies on GET and HEAD).
	ErrBodyNotAllowed = errors.New("webclient: request body not allowed for method")

	// ErrUnknownBackend is returned by NewWebClient for unregistered names.
	ErrUnknownBackend = errors.New("webclient: backend not registered")
)

// WebClient issues a single HTTP request and returns the raw response.
// Implementations never interpret the body; a non-2xx status is a Response,
// not an error. Errors are reserved for transfer failures.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	Close() error
}
