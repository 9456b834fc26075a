package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"TodoAPI/internal/cache"
	"TodoAPI/internal/config"
	dom "TodoAPI/internal/domain"
	"TodoAPI/internal/middleware"
	"TodoAPI/internal/repo"
	"TodoAPI/internal/service"
	"TodoAPI/migrations"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg    config.Config
	log    *log.Logger
	db     *pgxpool.Pool
	redis  *redis.Client
	router *gin.Engine
}

// New connects the configured store (and Redis, if set), runs migrations and builds the router.
func New(cfg config.Config, logger *log.Logger) (*App, error) {
	a := &App{cfg: cfg, log: logger}

	var todoRepo repo.TodoRepo
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		if err := runMigrations(cfg.PG.DSN); err != nil {
			return nil, err
		}
		db, err := newPostgres(cfg.PG.DSN)
		if err != nil {
			return nil, err
		}
		a.db = db
		todoRepo = repo.NewPGTodoRepo(db)
		logger.Info("store ready", "driver", cfg.Store.Driver)
	default:
		todoRepo = repo.NewMemoryTodoRepo()
		logger.Warn("using in-memory store, data is lost on restart")
	}

	var listCache service.ListCache
	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
		a.redis = rdb
		listCache = cache.NewTodoCache(rdb, cfg.Redis.DefaultTTL.Duration())
		logger.Info("list cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.DefaultTTL.Duration())
	}

	router, err := newRouter(cfg, logger, todoRepo, listCache)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	a.router = router
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	return nil
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// runMigrations applies the embedded goose migrations.
func runMigrations(dsn string) error {
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func newRouter(cfg config.Config, logger *log.Logger, todoRepo repo.TodoRepo, listCache service.ListCache) (*gin.Engine, error) {
	dev := cfg.App.IsDevelopment()
	if dev {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.RequestLogger(logger),
		middleware.ErrorHandler(logger, dev),
		middleware.Recovery(),
	)
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.HTTP.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	if cfg.HTTP.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst))
	}

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(dom.NewAppError(http.StatusNotFound, "Route not found"))
	})
	r.NoMethod(func(c *gin.Context) {
		_ = c.Error(dom.NewAppError(http.StatusMethodNotAllowed, "Method not allowed"))
	})

	if err := Setup(r, cfg, todoRepo, listCache); err != nil {
		return nil, err
	}
	return r, nil
}
