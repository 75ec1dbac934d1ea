package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	"trd/internal/controllers"
	"trd/internal/fetchmetrics"
	"trd/internal/providers"
	"trd/internal/scheduler/interfaces"
	"trd/internal/structures"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shutdownTimeout = 30 * time.Second

	// POST /api/fetch answers only after a whole ingestion cycle.
	writeTimeout = 10 * time.Minute
)

type App struct {
	WebServer     *http.Server
	conf          *structures.Config
	logger        providers.Logger
	scheduler     interfaces.SchedulerInterface
	apiController *controllers.ApiController
}

func NewApp(
	apiController *controllers.ApiController,
	healthController *controllers.HealthController,
	scheduler interfaces.SchedulerInterface,
	store *fetchmetrics.Store,
	conf *structures.Config,
	logger providers.Logger,
	router providers.RouterProviderInterface,
	metrics providers.MetricsProviderInterface,
) (*App, error) {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	router.Mount(apiMux)

	instrumentedAPI := providers.MetricsMiddleware(metrics, providers.RequestLogMiddleware(logger, apiMux))

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	loaded, skipped, err := store.Restore()
	if err != nil {
		logger.Errorf(providers.TypeApp, "Restore fetch metrics error: %s", err)
	} else {
		logger.Infof(providers.TypeApp, "Restored %d fetch metrics (%d corrupt lines skipped)", loaded, skipped)
	}

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
		conf:          conf,
		logger:        logger,
		scheduler:     scheduler,
		apiController: apiController,
	}, nil
}

// Run serves HTTP until SIGINT/SIGTERM, then stops the scheduler and drains
// in-flight requests.
func (app *App) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	if err := app.apiController.WarmupCache(ctx); err != nil {
		app.logger.Warnf(providers.TypeApp, "Cache warmup skipped: %s", err)
	}
	cancel()

	if app.conf.Scheduler.AutoFetch {
		if _, err := app.scheduler.Start(app.conf.Scheduler.IntervalMinutes); err != nil {
			return fmt.Errorf("auto fetch: %w", err)
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", app.WebServer.Addr)
		if err := app.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
		app.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	return errors.Join(runErr, app.Shutdown())
}

func (app *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	schedErr := app.scheduler.Shutdown(ctx)
	if schedErr != nil {
		app.logger.Errorf(providers.TypeApp, "Scheduler shutdown: %s", schedErr)
	}

	if err := app.WebServer.Shutdown(ctx); err != nil {
		return errors.Join(schedErr, err)
	}
	app.logger.Infof(providers.TypeApp, "gracefully stopped")
	return schedErr
}
