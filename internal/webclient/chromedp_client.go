package webclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/reqview/internal/logging"
)

// fetchScript runs inside the tab. The single argument is a JSON object
// built by fetchParams, so user input never becomes script source.
const fetchScript = `(async (p) => {
	const init = { method: p.method, headers: p.headers };
	if (p.body !== "") { init.body = p.body; }
	const r = await fetch(p.url, init);
	const headers = {};
	r.headers.forEach((v, k) => { headers[k] = v; });
	return { status: r.status, statusText: r.statusText, headers: headers, body: await r.text() };
})(%s)`

type fetchParams struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

type fetchResult struct {
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// ChromedpClient lets a headless Chrome perform the transfer: each request
// opens a tab on the target's origin and calls fetch() there, so cookies,
// proxies and TLS behave the way they do for a page in the browser.
type ChromedpClient struct {
	logger logging.Logger
	cfg    Config

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewChromedpClient starts the browser. It fails if Chrome cannot be
// launched.
func NewChromedpClient(cfg Config, logger logging.Logger) (*ChromedpClient, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	componentLogger := logger.With(logging.Field{Key: "backend", Value: string(ClientChromedp)})
	componentLogger.Debug("created chromedp webclient",
		logging.Field{Key: "headless", Value: cfg.Headless})

	return &ChromedpClient{
		logger:        componentLogger,
		cfg:           cfg,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// origin returns scheme://host/ for rawURL, the page the fetch runs from.
func origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u.Scheme + "://" + u.Host + "/", nil
}

// watchLoadingFailures records the browser's reason for the last failed
// load, which is more useful than fetch's "Failed to fetch".
func watchLoadingFailures(ctx context.Context) func() string {
	var mu sync.Mutex
	var last string
	chromedp.ListenTarget(ctx, func(ev any) {
		if e, ok := ev.(*network.EventLoadingFailed); ok {
			mu.Lock()
			last = e.ErrorText
			mu.Unlock()
		}
	})
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

func (c *ChromedpClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	method := strings.ToUpper(req.Method)
	if (method == http.MethodGet || method == http.MethodHead) && len(req.Body) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrBodyNotAllowed, method)
	}

	page, err := origin(req.URL)
	if err != nil {
		return nil, err
	}

	params := fetchParams{
		Method:  req.Method,
		URL:     req.URL,
		Headers: map[string]string{},
		Body:    string(req.Body),
	}
	for k, vs := range req.Headers {
		params.Headers[k] = strings.Join(vs, ", ")
	}
	arg, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode fetch params: %w", err)
	}

	tabCtx, cancel := chromedp.NewContext(c.browserCtx)
	defer cancel()
	if c.cfg.Timeout > 0 {
		var tcancel context.CancelFunc
		tabCtx, tcancel = context.WithTimeout(tabCtx, c.cfg.Timeout)
		defer tcancel()
	}
	// Tie the tab to the caller's context as well.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	lastFailure := watchLoadingFailures(tabCtx)

	c.logger.Debug("sending browser fetch",
		logging.Field{Key: "method", Value: req.Method},
		logging.Field{Key: "url", Value: req.URL},
		logging.Field{Key: "origin", Value: page})

	var res fetchResult
	err = chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(page),
		chromedp.Evaluate(fmt.Sprintf(fetchScript, arg), &res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		if reason := lastFailure(); reason != "" {
			err = fmt.Errorf("%w (%s)", err, reason)
		}
		c.logger.Warn("browser fetch failed",
			logging.Field{Key: "method", Value: req.Method},
			logging.Field{Key: "url", Value: req.URL},
			logging.Err(err))
		return nil, fmt.Errorf("browser fetch: %w", err)
	}

	headers := make(http.Header, len(res.Headers))
	for k, v := range res.Headers {
		headers.Set(k, v)
	}

	return &Response{
		Request:    req,
		Headers:    headers,
		Body:       []byte(res.Body),
		StatusCode: res.Status,
		Status:     res.StatusText,
		FetchedAt:  time.Now(),
	}, nil
}

func (c *ChromedpClient) Close() error {
	c.logger.Debug("closing chromedp webclient")
	c.browserCancel()
	c.allocCancel()
	return nil
}
