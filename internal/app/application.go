package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raysh454/reqview/internal/dispatcher"
	"github.com/raysh454/reqview/internal/display"
	"github.com/raysh454/reqview/internal/jsontree"
	"github.com/raysh454/reqview/internal/logging"
	"github.com/raysh454/reqview/internal/webclient"
)

// Application is the runtime state shared by every surface: config, logger,
// the web client and the controller that owns the display. Pass it to a
// surface rather than using package-level variables.
type Application struct {
	Config     *Config
	Logger     logging.Logger
	Client     webclient.WebClient
	Controller *dispatcher.Controller
}

// NewApplication wires the parts together. A nil wc is built from
// cfg.WebClient; a caller-supplied wc is still closed by Shutdown.
func NewApplication(cfg *Config, logger logging.Logger, wc webclient.WebClient) (*Application, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("reqview")
	}

	if wc == nil {
		var err error
		wc, err = webclient.NewWebClient(cfg.WebClient, logger)
		if err != nil {
			return nil, fmt.Errorf("creating web client: %w", err)
		}
	}

	widget := jsontree.NewWidget(cfg.Render.RawLimit)
	ctrl := dispatcher.New(cfg.Dispatcher, wc, display.New(), widget, logger)

	logger.Debug("application wired",
		logging.Field{Key: "backend", Value: string(cfg.WebClient.Client)},
		logging.Field{Key: "policy", Value: string(ctrl.Policy())})

	return &Application{
		Config:     cfg,
		Logger:     logger,
		Client:     wc,
		Controller: ctrl,
	}, nil
}

// Display is the display every surface renders.
func (a *Application) Display() *display.Display {
	return a.Controller.Display()
}

// Shutdown cancels in-flight requests, waits for them up to ctx's deadline
// (15s if none) and releases the web client.
func (a *Application) Shutdown(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.Logger.Info("application shutdown initiated")

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
	}

	done := make(chan struct{})
	go func() {
		_ = a.Controller.Close()
		close(done)
	}()

	var errs []error
	select {
	case <-done:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("waiting for in-flight requests: %w", ctx.Err()))
	}

	if err := a.Client.Close(); err != nil {
		a.Logger.Warn("closing web client", logging.Err(err))
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
