// Package dispatcher turns a submitted form (URL, method, body) into one
// asynchronous HTTP request and paints its outcome into a display.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/reqview/internal/display"
	"github.com/raysh454/reqview/internal/jsontree"
	"github.com/raysh454/reqview/internal/logging"
	"github.com/raysh454/reqview/internal/webclient"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("dispatcher: controller closed")

// defaultAccept mirrors what a browser page asking for text/HTML sends; the
// response is never decoded by the transport.
const defaultAccept = "text/html, */*; q=0.01"

// Renderer draws raw response text into a container. See jsontree.Widget
// for the contract.
type Renderer interface {
	Render(c jsontree.Container, text string) error
}

// Intent is one captured submission.
type Intent struct {
	ID          string      `json:"id"`
	Seq         uint64      `json:"seq"`
	Method      string      `json:"method"`
	URL         string      `json:"url"`
	Body        string      `json:"body"`
	Headers     http.Header `json:"headers,omitempty"`
	SubmittedAt time.Time   `json:"submitted_at"`
}

// Outcome is the result of one completed request, successful or not.
type Outcome struct {
	IntentID string `json:"intent_id"`
	Seq      uint64 `json:"seq"`

	// Status is 0 when no HTTP response was received.
	Status     int           `json:"status"`
	StatusText string        `json:"status_text"`
	Body       string        `json:"body"`
	Headers    http.Header   `json:"headers,omitempty"`
	Duration   time.Duration `json:"duration"`

	// Err is the transfer failure, nil whenever a response arrived.
	Err error `json:"-"`
}

// StatusLine is what the status region shows: the code alone, or 0 and the
// transfer error.
func (o Outcome) StatusLine() string {
	if o.Err != nil {
		return "0 (" + o.Err.Error() + ")"
	}
	return strconv.Itoa(o.Status)
}

// Controller owns one display and issues requests into it. Construct one per
// surface lifetime.
type Controller struct {
	wc       webclient.WebClient
	disp     *display.Display
	renderer Renderer
	logger   logging.Logger
	policy   Policy

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu orders submissions (seq bump + clear) against completions
	// (seq check + paint).
	mu     sync.Mutex
	seq    uint64
	closed bool
	latest *Outcome
	hooks  []func(Outcome)
}

// New builds a controller. A nil renderer defaults to a jsontree.Widget.
func New(cfg Config, wc webclient.WebClient, disp *display.Display, renderer Renderer, logger logging.Logger) *Controller {
	if renderer == nil {
		renderer = jsontree.NewWidget(0)
	}
	policy := cfg.Policy
	if policy == "" {
		policy = LastSubmissionWins
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		wc:       wc,
		disp:     disp,
		renderer: renderer,
		logger:   logger.With(logging.Field{Key: "component", Value: "dispatcher"}),
		policy:   policy,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Display returns the display the controller paints.
func (c *Controller) Display() *display.Display {
	return c.disp
}

// Policy returns the active completion policy.
func (c *Controller) Policy() Policy {
	return c.policy
}

// OnOutcome registers fn to run after each outcome is painted. Discarded
// outcomes are not reported.
func (c *Controller) OnOutcome(fn func(Outcome)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Latest returns the outcome currently displayed, or nil.
func (c *Controller) Latest() *Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest == nil {
		return nil
	}
	out := *c.latest
	return &out
}

// Submit clears both regions and issues the request in the background. It
// returns the intent with ID, Seq and SubmittedAt filled in. Method defaults
// to GET; URL and body are used exactly as given.
func (c *Controller) Submit(in Intent) (Intent, error) {
	in.Method = normalizeMethod(in.Method)
	if in.Method == "" {
		in.Method = http.MethodGet
	}
	in.Headers = in.Headers.Clone()
	if in.Headers == nil {
		in.Headers = http.Header{}
	}
	if in.Headers.Get("Accept") == "" {
		in.Headers.Set("Accept", defaultAccept)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Intent{}, ErrClosed
	}
	c.seq++
	in.Seq = c.seq
	in.ID = uuid.New().String()
	in.SubmittedAt = time.Now().UTC()
	c.disp.Clear()
	c.latest = nil
	c.wg.Add(1)
	c.mu.Unlock()

	c.logger.Info("request issued",
		logging.Field{Key: "intent_id", Value: in.ID},
		logging.Field{Key: "seq", Value: in.Seq},
		logging.Field{Key: "method", Value: in.Method},
		logging.Field{Key: "url", Value: in.URL})

	go c.run(in)
	return in, nil
}

func (c *Controller) run(in Intent) {
	defer c.wg.Done()

	req := &webclient.Request{
		Method:  in.Method,
		URL:     in.URL,
		Headers: in.Headers,
	}
	if in.Body != "" {
		req.Body = []byte(in.Body)
	}

	start := time.Now()
	resp, err := c.wc.Do(c.ctx, req)
	out := Outcome{
		IntentID: in.ID,
		Seq:      in.Seq,
		Duration: time.Since(start),
	}
	if err != nil {
		out.Err = err
		out.StatusText = err.Error()
	} else {
		out.Status = resp.StatusCode
		out.StatusText = resp.Status
		out.Body = string(resp.Body)
		out.Headers = resp.Headers
	}

	c.complete(out)
}

// complete paints out unless the policy says it is stale.
func (c *Controller) complete(out Outcome) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Debug("dropping outcome after close", logging.Field{Key: "seq", Value: out.Seq})
		return
	}
	if c.policy == LastSubmissionWins && out.Seq != c.seq {
		newest := c.seq
		c.mu.Unlock()
		c.logger.Debug("discarding superseded outcome",
			logging.Field{Key: "seq", Value: out.Seq},
			logging.Field{Key: "newest_seq", Value: newest})
		return
	}

	c.disp.SetStatus(out.StatusLine())
	renderErr := c.renderer.Render(c.disp.Response(), out.Body)
	c.latest = &out
	hooks := make([]func(Outcome), len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.Unlock()

	fields := []logging.Field{
		{Key: "intent_id", Value: out.IntentID},
		{Key: "seq", Value: out.Seq},
		{Key: "status", Value: out.Status},
		{Key: "duration", Value: out.Duration.String()},
	}
	if out.Err != nil {
		c.logger.Warn("request failed", append(fields, logging.Err(out.Err))...)
	} else {
		c.logger.Info("request completed", fields...)
	}
	if renderErr != nil {
		c.logger.Debug("response rendered as placeholder", logging.Err(renderErr))
	}

	for _, fn := range hooks {
		fn(out)
	}
}

// Wait blocks until every issued request has completed.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close rejects new submissions, cancels in-flight requests and waits for
// them to return.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return nil
}

// normalizeMethod upper-cases the standard verbs the way fetch() does and
// leaves any other token as typed.
func normalizeMethod(m string) string {
	m = strings.TrimSpace(m)
	switch up := strings.ToUpper(m); up {
	case http.MethodDelete, http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPost, http.MethodPut:
		return up
	}
	return m
}

// Describe is a one-line summary of an intent for logs and terminals.
func (in Intent) Describe() string {
	return fmt.Sprintf("#%d %s %s", in.Seq, in.Method, in.URL)
}
