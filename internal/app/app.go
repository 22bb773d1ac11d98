// Package app assembles the client from configuration: session backend, gateways, services,
// store, orchestrator and the bridge router.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/repository"
	"github.com/noah-isme/schedule-sync/internal/saga"
	"github.com/noah-isme/schedule-sync/internal/service"
	"github.com/noah-isme/schedule-sync/internal/session"
	"github.com/noah-isme/schedule-sync/internal/state"
	"github.com/noah-isme/schedule-sync/internal/store"
	"github.com/noah-isme/schedule-sync/internal/workflow"
	"github.com/noah-isme/schedule-sync/pkg/cache"
	"github.com/noah-isme/schedule-sync/pkg/config"
	"github.com/noah-isme/schedule-sync/pkg/database"
	"github.com/noah-isme/schedule-sync/pkg/gateway"
	"github.com/noah-isme/schedule-sync/pkg/storage"
)

const cacheNamespace = "schedule-sync:cache"

// App owns every long-lived component of the client.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *service.MetricsService
	Store     *store.Store[state.RootState]
	Saga      *workflow.Orchestrator
	Session   *session.Context
	Directory *service.DirectoryService
	Exports   *service.ExportService
	Validator *validator.Validate

	redis   *redis.Client
	closers []func() error
}

// Option adjusts assembly.
type Option func(*options)

type options struct {
	backendURL  string
	sessionRepo session.Repository
}

// WithBackendURL overrides the backend endpoint derived from ENV.
func WithBackendURL(url string) Option {
	return func(o *options) { o.backendURL = url }
}

// WithSessionRepository bypasses SESSION_BACKEND.
func WithSessionRepository(repo session.Repository) Option {
	return func(o *options) { o.sessionRepo = repo }
}

// New wires the client. The orchestrator is not started; call Start.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{backendURL: cfg.BackendURL()}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   service.NewMetricsService(),
		Validator: validator.New(),
	}
	ready := false
	defer func() {
		if !ready {
			_ = a.Close()
		}
	}()

	var err error
	repo := o.sessionRepo
	if repo == nil {
		if repo, err = a.openSessionRepository(ctx); err != nil {
			return nil, err
		}
	}
	if a.Session, err = session.New(ctx, repo, logger.Named("session")); err != nil {
		return nil, err
	}

	backend, err := gateway.New(o.backendURL,
		gateway.WithTokenSource(a.Session),
		gateway.WithLogger(logger.Named("backend")),
		gateway.WithObserver(a.Metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("backend gateway: %w", err)
	}
	external, err := gateway.New(cfg.ScheduleAPIURL,
		gateway.WithLogger(logger.Named("timetable")),
		gateway.WithObserver(a.Metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("timetable gateway: %w", err)
	}
	logger.Info("gateways configured",
		zap.String("backend", backend.BaseURL()),
		zap.String("timetable", external.BaseURL()),
		zap.String("session_backend", cfg.Session.Backend),
	)

	cacheSvc, err := a.openCache(ctx)
	if err != nil {
		return nil, err
	}
	a.Directory = service.NewDirectoryService(backend, cacheSvc, cfg.Cache.TTL, logger.Named("directory"))

	exportStorage, err := storage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		return nil, err
	}
	a.Exports = service.NewExportService(exportStorage, cfg.Export.FontPath, cfg.Export.Retention, a.Validator, logger.Named("export"))

	a.Store = store.New(state.Initial(), state.Reduce,
		store.WithLogger(logger.Named("store")),
		store.WithEventCounter(a.Metrics),
	)
	a.Saga = saga.New(a.Store,
		saga.WithLogger(logger.Named("saga")),
		saga.WithMetrics(a.Metrics),
	)
	workflow.Register(a.Saga, workflow.Deps{
		Auth:            service.NewAuthService(backend, a.Validator, logger),
		Users:           service.NewUserService(backend, a.Validator, logger),
		Directory:       a.Directory,
		Timetable:       service.NewTimetableService(external, logger),
		SubjectSchedule: service.NewSubjectScheduleService(backend, logger),
		Comments:        service.NewCommentService(backend, a.Validator, logger),
		Tags:            service.NewTagService(backend, a.Validator, logger),
		Links:           service.NewLinkService(backend, a.Validator, logger),
		Session:         a.Session,
		Logger:          logger.Named("workflow"),
	})

	ready = true
	return a, nil
}

// Start lets the orchestrator react to events.
func (a *App) Start(ctx context.Context) {
	a.Saga.Start(ctx)
}

// Bootstrap rehydrates the session into state and loads the reference lists.
func (a *App) Bootstrap() {
	a.Store.Dispatch(state.AppStarted{})
}

// Run dispatches events in order and returns the state once every workflow they started, and
// every workflow those started, has finished.
func (a *App) Run(ctx context.Context, events ...store.Event) (state.RootState, error) {
	for _, e := range events {
		a.Store.Dispatch(e)
	}
	if err := a.Saga.Wait(ctx); err != nil {
		return a.Store.State(), err
	}
	return a.Store.State(), nil
}

// Close stops the orchestrator and releases backend connections.
func (a *App) Close() error {
	if a.Saga != nil {
		a.Saga.Stop()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openSessionRepository(ctx context.Context) (session.Repository, error) {
	cfg := a.Config
	switch cfg.Session.Backend {
	case config.SessionBackendSQLite, config.SessionBackendPostgres:
		db, err := a.openDatabase(ctx)
		if err != nil {
			return nil, err
		}
		migrator, err := NewMigrator(db.DB, cfg.Session.Backend, a.Logger.Named("migrate"))
		if err != nil {
			return nil, err
		}
		if err := migrator.Run(ctx); err != nil {
			return nil, err
		}
		return repository.NewSessionRepository(db), nil
	case config.SessionBackendRedis:
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisSessionRepository(client, cfg.Session.RedisKey), nil
	case config.SessionBackendMemory:
		return repository.NewMemorySessionRepository(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

func (a *App) openDatabase(ctx context.Context) (*sqlx.DB, error) {
	db, err := OpenSessionDB(ctx, a.Config)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	return db, nil
}

// OpenSessionDB connects to the sql session backend selected by SESSION_BACKEND.
func OpenSessionDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.Session.Backend {
	case config.SessionBackendSQLite:
		db, err = database.NewSQLite(ctx, cfg.Session.SQLitePath)
	case config.SessionBackendPostgres:
		db, err = database.NewPostgres(ctx, cfg.Database)
	default:
		return nil, fmt.Errorf("session backend %q is not sql", cfg.Session.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s session database: %w", cfg.Session.Backend, err)
	}
	return db, nil
}

func (a *App) openCache(ctx context.Context) (*service.CacheService, error) {
	if !a.Config.Cache.Enabled {
		return service.NewCacheService(nil, a.Metrics, a.Config.Cache.TTL, a.Logger, false), nil
	}
	client, err := a.redisClient(ctx)
	if err != nil {
		return nil, err
	}
	repo := repository.NewCacheRepository(client, cacheNamespace, a.Logger.Named("cache"))
	return service.NewCacheService(repo, a.Metrics, a.Config.Cache.TTL, a.Logger.Named("cache"), true), nil
}

func (a *App) redisClient(ctx context.Context) (*redis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}
	client, err := cache.NewRedis(ctx, a.Config.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.redis = client
	a.closers = append(a.closers, client.Close)
	return client, nil
}
