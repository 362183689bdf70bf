package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskMaster/internal/config"
	"taskMaster/internal/handlers"
	"taskMaster/internal/logger"
	"taskMaster/internal/middleware"
	"taskMaster/internal/models/task"
	"taskMaster/internal/repository/task/inmemory"
	"taskMaster/internal/repository/task/postgres"
	"taskMaster/internal/repository/task/sqlite"
	"taskMaster/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type repository interface {
	service.TaskRepository
	Close()
}

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository repository
	service    *service.TaskService
	shutdowns  []func() // функции для graceful shutdown, выполняются в обратном порядке
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

	repo, err := a.initRepository(ctx)
	if err != nil {
		a.Shutdown()
		return fmt.Errorf("инициализация хранилища: %w", err)
	}
	a.repository = repo
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Закрытие хранилища...")
		repo.Close()
	})

	a.service = service.NewTaskService(repo, service.WithStrictUpdate(a.config.Validation.StrictUpdate))

	if a.config.Seed.SampleData {
		if err := seed(ctx, a.service); err != nil {
			a.Shutdown()
			return fmt.Errorf("загрузка демо-данных: %w", err)
		}
	}

	a.router = a.initRouter()
	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))
	return nil
}

func (a *App) initRepository(ctx context.Context) (repository, error) {
	db := a.config.Database

	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		storage, err := postgres.New(ctx, db.URL, postgres.PoolConfig{
			MaxConnections: db.MaxConnections,
			MinConnections: db.MinConnections,
			IdleTimeout:    db.IdleTimeout,
			SlowQuery:      db.SlowQuery,
		})
		if err != nil {
			return nil, err
		}
		if err := storage.Init(ctx); err != nil {
			storage.Close()
			return nil, err
		}
		return storage, nil

	case config.RepositoryInMemory:
		return inmemory.NewTaskStorage(), nil

	case config.RepositorySQLite:
		storage, err := sqlite.New(ctx, db.Path, sqlite.WithSlowQuery(db.SlowQuery))
		if err != nil {
			return nil, err
		}
		return storage, nil

	default:
		return nil, fmt.Errorf("неизвестный тип хранилища %q", a.config.Repository.Type)
	}
}

func (a *App) initRouter() *chi.Mux {
	srv := a.config.Server
	taskHandler := handlers.NewTaskHandler(a.service, srv.MaxBodyBytes)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: srv.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(srv.RateLimitRPM))
	if srv.RequestTimeout > 0 {
		r.Use(chimw.Timeout(srv.RequestTimeout))
	}

	taskHandler.Register(r, middleware.JSONContent)

	if srv.StaticDir != "" {
		if info, err := os.Stat(srv.StaticDir); err == nil && info.IsDir() {
			r.NotFound(handlers.Static(srv.StaticDir))
			logger.Info("Раздача статики включена", zap.String("dir", srv.StaticDir))
		} else {
			logger.Warn("Директория статики недоступна, фронтенд отключён", zap.String("dir", srv.StaticDir))
		}
	}

	return r
}

// Handler - корневой обработчик, доступен после Init
func (a *App) Handler() http.Handler {
	return a.router
}

// Run запускает сервер и ждёт SIGINT/SIGTERM или отмены ctx
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.Shutdown()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("запуск сервера: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}

var sampleTasks = []*task.Input{
	{
		Title:       task.String("Welcome to TaskMaster API"),
		Description: task.String("This is a demo task in your deployed API"),
		Status:      task.String(string(task.StatusCompleted)),
		Priority:    task.String(string(task.PriorityHigh)),
		Keys:        4,
	},
	{
		Title:       task.String("Try the task endpoints"),
		Description: task.String("Verify that all API endpoints work correctly"),
		Status:      task.String(string(task.StatusInProgress)),
		Priority:    task.String(string(task.PriorityHigh)),
		Keys:        4,
	},
	{
		Title:       task.String("API Documentation Complete"),
		Description: task.String("Endpoint reference is ready"),
		Status:      task.String(string(task.StatusCompleted)),
		Priority:    task.String(string(task.PriorityMedium)),
		Keys:        4,
	},
}

// seed добавляет демо-задачи только в пустое хранилище
func seed(ctx context.Context, svc *service.TaskService) error {
	stats, err := svc.Stats(ctx)
	if err != nil {
		return err
	}
	if stats.Total > 0 {
		logger.Info("Хранилище не пустое, демо-данные пропущены", zap.Int64("total", stats.Total))
		return nil
	}

	for _, in := range sampleTasks {
		if _, err := svc.Create(ctx, in); err != nil {
			return err
		}
	}

	logger.Info("Демо-данные добавлены", zap.Int("count", len(sampleTasks)))
	return nil
}
