package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"timeTracker/internal/config"
	"timeTracker/internal/handlers"
	"timeTracker/internal/logger"
	"timeTracker/internal/middleware"
	"timeTracker/internal/service"
	"timeTracker/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const serviceName = "time-tracker"

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.Repository
	service    *service.ItemService
	worker     *worker.StaleTimerWorker
	shutdowns  []func() // функции для graceful shutdown, вызываются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	repo, closeRepo, err := OpenRepository(ctx, a.config, true)
	if err != nil {
		return fmt.Errorf("инициализация репозитория: %w", err)
	}
	a.repository = repo
	a.shutdowns = append(a.shutdowns, closeRepo)

	a.service = service.NewItemService(repo)
	a.router = a.newRouter()
	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           otelhttp.NewHandler(a.router, serviceName),
		ReadHeaderTimeout: a.config.Server.RequestTimeout,
	}

	if a.config.Worker.Enabled {
		w := a.config.Worker
		a.worker = worker.NewStaleTimerWorker(repo, &w.Interval, &w.MaxRunning, &w.BatchSize)
	}

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.Bool("worker", a.worker != nil))
	return nil
}

func (a *App) newRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", handlers.UserHeader, "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Timeout(a.config.Server.RequestTimeout))
	r.Use(middleware.RateLimit(a.config.Server.RateLimit))

	h := handlers.NewItemHandler(a.service)
	h.Register(r)
	return r
}

// Handler отдаёт роутер без otel-обёртки, для тестов
func (a *App) Handler() http.Handler {
	return a.router
}

// Run обслуживает HTTP и фоновый воркер до отмены ctx, затем останавливает их
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	if a.worker != nil {
		g.Go(func() error {
			a.worker.Start(ctx)
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.Close()
	return err
}

func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
