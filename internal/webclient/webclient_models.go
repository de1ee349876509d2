package webclient

import (
	"net/http"
	"time"
)

type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int
	// Status is the status text, e.g. "200 OK" for net/http or "OK" from a
	// browser fetch.
	Status    string
	FetchedAt time.Time
}
