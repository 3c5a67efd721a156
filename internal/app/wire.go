package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mawrid/mawrid/internal/observability"
	"github.com/mawrid/mawrid/internal/suppliers"
	"github.com/mawrid/mawrid/internal/supabase"
)

// NewRedis opens the shared Redis client. A failed ping is logged, not fatal.
func NewRedis(ctx context.Context, cfg *Config, logger *slog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	return client
}

// NewSupabase builds the hosted backend client. metrics may be nil.
func NewSupabase(cfg *Config, metrics *observability.Metrics) *supabase.Client {
	sc := supabase.Config{
		URL:       cfg.SupabaseURL,
		AnonKey:   cfg.SupabaseAnonKey,
		JWTSecret: cfg.SupabaseJWTSecret,
		Timeout:   cfg.SupabaseTimeout,
	}
	if metrics != nil {
		sc.Observer = metrics
	}
	return supabase.NewClient(sc)
}

// Directory bundles the supplier service with the resources it owns.
type Directory struct {
	Service *suppliers.Service
	Cache   *suppliers.Cache
	pool    *pgxpool.Pool
}

// Close releases the Postgres pool when the postgres driver is in use.
func (d *Directory) Close() {
	if d != nil && d.pool != nil {
		d.pool.Close()
	}
}

// NewDirectory builds the supplier service on the configured storage driver.
func NewDirectory(ctx context.Context, cfg *Config, logger *slog.Logger, backend *supabase.Client, redisClient *redis.Client, metrics *observability.Metrics) (*Directory, error) {
	dir := &Directory{Cache: suppliers.NewCache(redisClient, cfg.CacheTTL, cfg.CacheLocalTTL)}

	var store suppliers.Store
	switch cfg.StorageDriver {
	case StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		dir.pool = pool
		store = suppliers.NewPGStore(pool, suppliers.TableName)
	default:
		store = suppliers.NewRESTStore(backend, suppliers.TableName)
	}
	logger.Info("supplier storage", slog.String("driver", cfg.StorageDriver))

	dir.Service = suppliers.NewService(store, dir.Cache, logger)
	if metrics != nil {
		dir.Service.WithObserver(metrics)
	}
	return dir, nil
}
