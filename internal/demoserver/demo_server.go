package demoserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/raysh454/reqview/internal/logging"
)

// DemoServer is a small HTTP target with JSON and non-JSON responses to try
// requests against.
type DemoServer struct {
	cfg      Config
	fixtures []Fixture
	router   chi.Router
	logger   logging.Logger
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config, logger logging.Logger) *DemoServer {
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultConfig().MaxDelay
	}

	s := &DemoServer{
		cfg:      cfg,
		fixtures: Fixtures(),
		router:   chi.NewRouter(),
		logger:   logger.With(logging.Field{Key: "component", Value: "demoserver"}),
	}
	s.routes()
	return s
}

func (s *DemoServer) routes() {
	r := s.router

	r.Get("/", s.indexHandler)
	r.HandleFunc("/echo", s.echoHandler)
	r.HandleFunc("/status/{code}", s.statusHandler)
	r.HandleFunc("/delay/{ms}", s.delayHandler)

	for _, f := range s.fixtures {
		r.HandleFunc(f.Path, fixtureHandler(f))
	}
}

// ServeHTTP implements http.Handler.
func (s *DemoServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("demo request",
		logging.Field{Key: "method", Value: r.Method},
		logging.Field{Key: "path", Value: r.URL.Path})
	s.router.ServeHTTP(w, r)
}

// Run listens on cfg.Addr until ctx is cancelled, then shuts down.
func (s *DemoServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *DemoServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("demo server listening", logging.Field{Key: "addr", Value: "http://" + ln.Addr().String()})
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// indexHandler lists the available endpoints.
func (s *DemoServer) indexHandler(w http.ResponseWriter, r *http.Request) {
	type endpoint struct {
		Path        string `json:"path"`
		Description string `json:"description"`
	}

	eps := []endpoint{
		{Path: "/echo", Description: "echoes method, path, query, headers and body"},
		{Path: "/status/{code}", Description: "responds with the given status code"},
		{Path: "/delay/{ms}", Description: "responds after the given number of milliseconds"},
	}
	for _, f := range s.fixtures {
		eps = append(eps, endpoint{Path: f.Path, Description: f.Description})
	}
	writeJSON(w, http.StatusOK, map[string]any{"endpoints": eps})
}

// EchoResponse is the body returned by /echo.
type EchoResponse struct {
	Method  string              `json:"method"`
	Path    string              `json:"path"`
	Query   map[string][]string `json:"query"`
	Headers map[string][]string `json:"headers"`
	Body    string              `json:"body"`
}

func (s *DemoServer) echoHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, EchoResponse{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   r.URL.Query(),
		Headers: r.Header,
		Body:    string(body),
	})
}

func (s *DemoServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil || code < 200 || code > 599 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status code must be between 200 and 599"})
		return
	}

	switch code {
	case http.StatusNoContent, http.StatusNotModified:
		w.WriteHeader(code)
		return
	}
	writeJSON(w, code, map[string]any{
		"status": code,
		"text":   http.StatusText(code),
	})
}

func (s *DemoServer) delayHandler(w http.ResponseWriter, r *http.Request) {
	ms, err := strconv.Atoi(chi.URLParam(r, "ms"))
	if err != nil || ms < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "delay must be a non-negative number of milliseconds"})
		return
	}
	d := time.Duration(ms) * time.Millisecond
	if d > s.cfg.MaxDelay {
		d = s.cfg.MaxDelay
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-r.Context().Done():
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"delayed_ms": d.Milliseconds()})
}

func fixtureHandler(f Fixture) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := f.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", f.ContentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(f.Body))
	}
}
