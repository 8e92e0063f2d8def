package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/config"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/codec"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/handler"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/query"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/repository"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/service"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/storage"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/logger"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/metrics"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/middleware"
)

var startTime = time.Now()

func main() {
	fs := pflag.NewFlagSet("docstore", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Configure(cfg.Log); err != nil {
		logger.Fatalf("failed to configure logging: %v", err)
	}
	defer logger.Sync()
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := cfg.Store.Codec()
	if err != nil {
		logger.Fatalf("date pattern: %v", err)
	}
	// one client serves both the redis store and the redis rate limiter
	var rdb *redis.Client
	if cfg.Store.Backend == config.BackendRedis || (cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis) {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", cfg.Redis.Addr(), err)
		}
		defer rdb.Close()
	}

	backend, closeBackend, err := openBackend(ctx, cfg, rdb)
	if err != nil {
		logger.Fatalf("open %s store: %v", cfg.Store.Backend, err)
	}
	defer closeBackend()

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := newRouter(cfg, backend, c, rdb)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("Starting docstore on %s (store=%s, date pattern %q)", addr, cfg.Store.Backend, c.Pattern())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server failed: %v", err)
	}
	logger.Infof("docstore stopped")
}

// newRouter wires the store, engine and service into a gin engine with the
// health, readiness, metrics and document routes. rdb, when set, is checked
// by /ready and backs the rate limiter if RateLimit.UseRedis is on.
func newRouter(cfg *config.Config, backend repository.Backend, dc *codec.Codec, rdb *redis.Client) *gin.Engine {
	store := repository.NewStore(backend, dc)
	svc := service.New(store, query.New(store, dc))

	r := gin.New()
	r.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	r.Use(middleware.RequestLogger(), gin.Recovery())
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Window))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := map[string]bool{}
		_, err := backend.RecordExists(ctx, "ready-probe")
		deps["store"] = err == nil
		if rdb != nil {
			deps["redis"] = rdb.Ping(ctx).Err() == nil
		}
		for _, ok := range deps {
			if !ok {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(startTime).String()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterSwagger(r)
	handler.RegisterDocumentRoutes(r, svc, dc)
	return r
}

// openBackend connects the configured store backend. The returned func
// releases its connections. rdb is used by the redis backend.
func openBackend(ctx context.Context, cfg *config.Config, rdb *redis.Client) (repository.Backend, func(), error) {
	noop := func() {}
	switch cfg.Store.Backend {
	case config.BackendRedis:
		if rdb == nil {
			return nil, nil, errors.New("redis backend needs a redis client")
		}
		logger.Infof("using Redis store at %s (prefix %q)", cfg.Redis.Addr(), cfg.Redis.Prefix)
		return repository.NewRedis(rdb, cfg.Redis.Prefix), noop, nil
	case config.BackendMemory:
		logger.Warnf("using in-memory store; documents are lost on exit")
		return repository.NewMemory(), noop, nil
	case config.BackendMinIO:
		s, err := storage.NewMinIOStorage(ctx, &cfg.MinIO)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("using MinIO store at %s (bucket %s)", cfg.MinIO.Endpoint, s.Bucket())
		return repository.NewMinIO(s), noop, nil
	case config.BackendMongo:
		client, err := connectMongo(ctx, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		m := repository.NewMongo(client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection))
		if err := m.EnsureIndexes(ctx); err != nil {
			logger.Warnf("could not create mongo indexes: %v", err)
		}
		logger.Infof("using MongoDB store %s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection)
		return m, func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		fsys, err := repository.NewFileSystem(cfg.Store.Root)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("using filesystem store at %s", fsys.Root())
		return fsys, noop, nil
	}
}

// connectMongo retries with backoff to tolerate startup races.
func connectMongo(ctx context.Context, cfg config.MongoDBConfig) (*mongo.Client, error) {
	const maxAttempts = 5
	backoff := time.Second
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err := repository.ConnectMongo(ctx, cfg.URI, cfg.Timeout)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("could not connect to MongoDB after %d attempts: %w", maxAttempts, lastErr)
}
