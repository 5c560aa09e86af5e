package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"review-service/internal/booking"
	"review-service/internal/bootstrap"
	"review-service/internal/config"
	"review-service/internal/db"
	"review-service/internal/driver"
	"review-service/internal/health"
	"review-service/internal/logger"
	"review-service/internal/metrics"
	"review-service/internal/middleware"
	"review-service/internal/repository"
	"review-service/internal/student"
	"review-service/internal/telemetry"

	"github.com/gorilla/mux"
	"github.com/uptrace/bun"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// startup holds what New has opened so far so a failed step can release it.
type startup struct {
	database      *bun.DB
	meterProvider *sdkmetric.MeterProvider
	logger        *slog.Logger
}

func (s *startup) release(ctx context.Context) {
	db.Close(s.database)
	if err := telemetry.Shutdown(ctx, s.meterProvider, s.logger); err != nil {
		s.logger.Warn("failed to shut down telemetry", "error", err)
	}
}

type App struct {
	config        *config.Config
	router        *mux.Router
	server        *http.Server
	database      *bun.DB
	meterProvider *sdkmetric.MeterProvider
	logger        *slog.Logger
}

// New wires the service. Any failure, including the sample data run, is
// returned to the caller.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slogLogger := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Env:     cfg.Env,
		Service: ServiceName,
		Version: Version,
	})
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "env", cfg.Env, "commit", GitCommit, "build_time", BuildTime)

	meterProvider, err := telemetry.InitMeterProvider(ctx, cfg.Telemetry.OTLPEndpoint, ServiceName, Version, slogLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	started := &startup{meterProvider: meterProvider, logger: slogLogger}
	abort := func(err error) (*App, error) {
		started.release(ctx)
		return nil, err
	}

	m, err := metrics.New(ServiceName, slogLogger)
	if err != nil {
		return abort(fmt.Errorf("failed to initialize metrics: %w", err))
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		return abort(err)
	}
	started.database = database
	if err := m.Database.RegisterDB(database.DB, m.Meter()); err != nil {
		slogLogger.Warn("failed to register database pool metrics", "error", err)
	}
	if err := m.Health.RegisterServiceInfo(m.Meter(), ServiceName, Version, cfg.Env); err != nil {
		slogLogger.Warn("failed to register service info metric", "error", err)
	}

	if err := db.RunMigrations(ctx, database); err != nil {
		return abort(fmt.Errorf("failed to run migrations: %w", err))
	}

	repos := repository.New(database, m)

	if cfg.Bootstrap.Enabled {
		if _, err := bootstrap.NewRunner(repos, slogLogger).Run(ctx); err != nil {
			return abort(fmt.Errorf("bootstrap failed: %w", err))
		}
	}

	app := &App{
		config:        cfg,
		router:        mux.NewRouter(),
		database:      database,
		meterProvider: meterProvider,
		logger:        slogLogger,
	}

	app.router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	app.router.Use(m.HTTP.Middleware())

	health.NewHandler(database, m.Health).RegisterRoutes(app.router)
	driver.NewHandler(driver.NewService(repos.Driver, repos.Booking), slogLogger).RegisterRoutes(app.router)
	booking.NewHandler(booking.NewService(repos), slogLogger).RegisterRoutes(app.router)
	student.NewHandler(student.NewService(repos.Student, repos.Course), slogLogger).RegisterRoutes(app.router)

	slogLogger.Info("application initialized successfully")

	return app, nil
}

func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		errs = append(errs, a.server.Shutdown(ctx))
	}
	errs = append(errs, telemetry.Shutdown(ctx, a.meterProvider, a.logger))
	db.Close(a.database)

	return errors.Join(errs...)
}
