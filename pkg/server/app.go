package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
	domrepo "github.com/driver4567/StockvsTrend/internal/domain/repository"
	"github.com/driver4567/StockvsTrend/internal/handler/ws"
	mid "github.com/driver4567/StockvsTrend/internal/middleware"
	"github.com/driver4567/StockvsTrend/internal/usecase"
	"github.com/driver4567/StockvsTrend/pkg/config"
	xhttp "github.com/driver4567/StockvsTrend/pkg/http"
	applogger "github.com/driver4567/StockvsTrend/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	dash       *usecase.Dashboard
	orch       *usecase.Orchestrator
	pipeline   *mid.EventPipeline
	publisher  domrepo.EventPublisher
	hub        *ws.Hub
	httpServer *xhttp.Server

	unsubscribe func()
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	dash *usecase.Dashboard,
	orch *usecase.Orchestrator,
	pipeline *mid.EventPipeline,
	publisher domrepo.EventPublisher,
	hub *ws.Hub,
	httpServer *xhttp.Server,
) *App {
	return &App{
		cfg:        cfg,
		logger:     l,
		dash:       dash,
		orch:       orch,
		pipeline:   pipeline,
		publisher:  publisher,
		hub:        hub,
		httpServer: httpServer,
	}
}

// Dashboard exposes the running dashboard.
func (a *App) Dashboard() *usecase.Dashboard { return a.dash }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.Shutdown(context.Background())
}

// Start wires the observers, starts the HTTP server and, when configured,
// loads the default query and submits it.
func (a *App) Start(ctx context.Context) error {
	a.pipeline.Start(ctx)
	a.unsubscribe = a.dash.Subscribe(a.pipeline)
	a.hub.Start()

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	if a.cfg.Defaults.DispatchOnStart {
		q := a.dash.Reset()
		if _, err := a.dash.Submit(false); err != nil {
			if !errors.Is(err, models.ErrConfiguration) {
				return err
			}
			a.logger.Warn("initial submit skipped", applogger.Error(err))
		} else {
			a.logger.Info("initial query submitted",
				applogger.String("symbol", q.Symbol),
				applogger.String("search_term", q.SearchTerm),
				applogger.String("date_range", string(q.DateRange)),
			)
		}
	}
	return nil
}

// Shutdown stops intake first, then lets in-flight fetches resolve so their
// events are published before the publisher closes.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	a.hub.Close()
	a.orch.Close()

	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.pipeline.Stop()

	if err := a.publisher.Close(); err != nil {
		a.logger.Warn("event publisher close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
