package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"TodoRPC/internal/cache"
	"TodoRPC/internal/config"
	"TodoRPC/internal/migrations"
	"TodoRPC/internal/repo"
	"TodoRPC/internal/requestid"
	"TodoRPC/internal/service"

	"github.com/felixge/httpsnoop"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

type App struct {
	cfg    config.Config
	log    *slog.Logger
	pg     *pgxpool.Pool
	sqlite *sql.DB
	redis  *redis.Client
	router *gin.Engine
}

// New opens the configured store, applies migrations, connects Redis when
// configured and builds the router.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	todoRepo, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	var todoCache *cache.TodoCache
	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		a.redis = rdb
		todoCache = cache.NewTodoCache(rdb, cfg.Redis.DefaultTTL.Duration())
	} else {
		log.Info("redis not configured, list cache disabled")
	}

	svc := service.NewTodoService(todoRepo, todoCache, service.WithLogger(log))
	a.router = newRouter(cfg, log, svc)
	return a, nil
}

// Router returns the gin engine without the access log.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Handler returns the router wrapped with the access log.
func (a *App) Handler() http.Handler {
	return accessLog(a.log, a.router)
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.pg != nil {
		a.pg.Close()
	}
	if a.sqlite != nil {
		errs = append(errs, a.sqlite.Close())
	}
	return errors.Join(errs...)
}

func (a *App) openStore(ctx context.Context) (repo.TodoRepo, error) {
	switch a.cfg.Store.Driver {
	case config.DriverPostgres:
		if err := runMigrations(ctx, "pgx", a.cfg.Store.PGDSN, config.DriverPostgres); err != nil {
			return nil, err
		}
		pool, err := newPostgres(ctx, a.cfg.Store.PGDSN)
		if err != nil {
			return nil, err
		}
		a.pg = pool
		return repo.NewPGTodoRepo(pool), nil
	case config.DriverSQLite:
		db, err := newSQLite(ctx, a.cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.sqlite = db
		if _, err := migrations.Up(ctx, db, config.DriverSQLite); err != nil {
			_ = db.Close()
			return nil, err
		}
		return repo.NewSQLiteTodoRepo(db), nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", a.cfg.Store.Driver)
}

func newPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// single writer; also keeps ":memory:" on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA busy_timeout=5000;"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite %s: %w", pragma, err)
		}
	}
	return db, nil
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runMigrations(ctx context.Context, driver, dsn, dialect string) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("migrations open db: %w", err)
	}
	defer db.Close()

	if _, err := migrations.Up(ctx, db, dialect); err != nil {
		return err
	}
	return nil
}

func newRouter(cfg config.Config, log *slog.Logger, svc *service.TodoService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestid.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestid.Header},
		ExposeHeaders: []string{"Content-Length", "Content-Type", requestid.Header},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, log, svc)
	return r
}

// accessLog logs one line per request.
func accessLog(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		log.Info("handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"duration", m.Duration,
			"bytes", m.Written,
			"request_id", w.Header().Get(requestid.Header),
		)
	})
}
