// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/raysh454/reqview/internal/logging"
	"github.com/raysh454/reqview/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// Has reports whether msg was logged at any level.
func (l *DummyLogger) Has(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, list := range [][]string{l.Debugs, l.Infos, l.Warns, l.Errors} {
		for _, m := range list {
			if m == msg {
				return true
			}
		}
	}
	return false
}

// ─── WebClient ─────────────────────────────────────────────────────────

// Reply scripts the DummyWebClient's answer for one URL.
type Reply struct {
	Status int
	Body   string
	Err    error

	// Hold, when non-nil, blocks the request until it is closed.
	Hold chan struct{}
}

// ErrDummyTransfer is a ready-made transfer failure for Reply.Err.
var ErrDummyTransfer = errors.New("dummy transfer failure")

// DummyWebClient implements webclient.WebClient.
// By default it returns body `{"url":"<url>"}` with status 200.
// Replies[url] overrides the answer for a specific URL.
type DummyWebClient struct {
	ResponseDelay time.Duration
	Replies       map[string]Reply

	mu       sync.Mutex
	Requests []*webclient.Request
	closed   bool
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	if req == nil {
		return nil, webclient.ErrNilRequest
	}
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	reply, scripted := d.Replies[req.URL]
	d.mu.Unlock()

	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if reply.Hold != nil {
		select {
		case <-reply.Hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if !scripted {
		return &webclient.Response{
			Request:    req,
			Body:       []byte(`{"url":"` + req.URL + `"}`),
			StatusCode: http.StatusOK,
			Status:     "200 OK",
			FetchedAt:  time.Now(),
		}, nil
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	return &webclient.Response{
		Request:    req,
		Body:       []byte(reply.Body),
		StatusCode: status,
		Status:     http.StatusText(status),
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Sent returns a copy of the recorded requests.
func (d *DummyWebClient) Sent() []*webclient.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*webclient.Request(nil), d.Requests...)
}

// Closed reports whether Close was called.
func (d *DummyWebClient) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
