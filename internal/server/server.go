package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"

	_ "github.com/raysh454/reqview/docs/swagger" // registers the API docs
	"github.com/raysh454/reqview/internal/dispatcher"
	"github.com/raysh454/reqview/internal/logging"
)

//go:embed static/index.html
var static embed.FS

// Server is the HTTP + WebSocket surface over one controller.
type Server struct {
	cfg      Config
	ctrl     *dispatcher.Controller
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger

	quit     chan struct{}
	quitOnce sync.Once
}

// NewServer creates a Server painting ctrl's display.
func NewServer(cfg Config, ctrl *dispatcher.Controller, logger logging.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("server")
	}

	s := &Server{
		cfg:    cfg,
		ctrl:   ctrl,
		router: chi.NewRouter(),
		logger: logger.With(logging.Field{Key: "component", Value: "server"}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict to the page's own origin once the server can bind beyond localhost
				return true
			},
		},
		quit: make(chan struct{}),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/api/requests", s.optionsHandler("POST"))
	r.Options("/api/display", s.optionsHandler("GET"))
	r.Options("/api/outcome", s.optionsHandler("GET"))

	r.Get("/", s.handleIndex)

	r.Post("/api/requests", s.handleSubmit)
	r.Get("/api/display", s.handleDisplay)
	r.Get("/api/outcome", s.handleOutcome)

	r.Get("/ws/display", s.handleDisplayWS)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close ends open display streams. The controller belongs to the caller.
func (s *Server) Close() {
	s.quitOnce.Do(func() { close(s.quit) })
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// Run listens on cfg.Addr until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := s.HTTPServer()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("web surface listening", logging.Field{Key: "addr", Value: "http://" + ln.Addr().String()})
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// --- HTTP handlers ---

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// handleSubmit issues one request.
//
// @Summary Submit a request
// @Description Clears the display and issues the request in the background. The outcome arrives on /ws/display.
// @Tags requests
// @Accept json
// @Produce json
// @Param request body SubmitRequest true "request to issue"
// @Success 202 {object} dispatcher.Intent
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/requests [post]
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var body SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("decoding submit body", logging.Err(err))
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	in := dispatcher.Intent{
		Method: body.Method,
		URL:    body.URL,
		Body:   body.Body,
	}
	if len(body.Headers) > 0 {
		in.Headers = make(http.Header, len(body.Headers))
		for k, v := range body.Headers {
			in.Headers.Set(k, v)
		}
	}

	issued, err := s.ctrl.Submit(in)
	if err != nil {
		s.logger.Warn("submitting request", logging.Err(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, issued)
}

// handleDisplay returns the current display.
//
// @Summary Current display
// @Tags display
// @Produce json
// @Success 200 {object} DisplayResponse
// @Router /api/display [get]
func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	view, err := newDisplayResponse(s.ctrl.Display().Snapshot(), s.cfg.MaxDepth)
	if err != nil {
		s.logger.Error("rendering display", logging.Err(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleOutcome returns the outcome currently displayed.
//
// @Summary Displayed outcome
// @Tags display
// @Produce json
// @Success 200 {object} dispatcher.Outcome
// @Failure 404 {object} ErrorResponse
// @Router /api/outcome [get]
func (s *Server) handleOutcome(w http.ResponseWriter, r *http.Request) {
	out := s.ctrl.Latest()
	if out == nil {
		writeError(w, http.StatusNotFound, "no outcome displayed")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// WebSockets

// handleDisplayWS streams a DisplayResponse for the current display and
// after every change.
func (s *Server) handleDisplayWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Err(err))
		return
	}
	defer conn.Close()

	disp := s.ctrl.Display()
	snaps, unsubscribe := disp.Subscribe()
	defer unsubscribe()

	// Reading is how gorilla notices the peer went away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	send := func(view DisplayResponse) bool {
		if err := conn.WriteJSON(view); err != nil {
			s.logger.Debug("display stream closed", logging.Err(err))
			return false
		}
		return true
	}

	view, err := newDisplayResponse(disp.Snapshot(), s.cfg.MaxDepth)
	if err != nil || !send(view) {
		return
	}

	for {
		select {
		case <-gone:
			return
		case <-s.quit:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			return
		case snap, ok := <-snaps:
			if !ok {
				return
			}
			view, err := newDisplayResponse(snap, s.cfg.MaxDepth)
			if err != nil {
				s.logger.Error("rendering display", logging.Err(err))
				continue
			}
			if !send(view) {
				return
			}
		}
	}
}
