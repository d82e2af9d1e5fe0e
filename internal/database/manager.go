package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"tamapet-data-api/internal/cache"
	"tamapet-data-api/internal/config"
	"tamapet-data-api/internal/model"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "modernc.org/sqlite"             // Pure Go SQLite driver - no CGO required
)

// pingTimeout bounds the startup connectivity probe.
const pingTimeout = 5 * time.Second

// Manager owns the bounded store connection pool and the best-effort
// cache client. It is constructed explicitly by whoever bootstraps the
// process and passed to the repositories; there is no package-level
// instance. Shutdown order: repositories stop issuing calls, then Close.
type Manager struct {
	db             *sql.DB
	cache          cache.Cache
	storeType      string
	commandTimeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

// New opens the store pool for the configured backend and connects the
// cache. A store failure is fatal and returned as an error; a cache
// failure is logged and tolerated (reads degrade to the store).
func New(cfg *config.Config) (*Manager, error) {
	db, err := openStore(&cfg.Store)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		db:             db,
		storeType:      cfg.Store.Type,
		commandTimeout: cfg.Store.CommandTimeout,
	}
	if m.commandTimeout <= 0 {
		m.commandTimeout = 60 * time.Second
	}

	switch cfg.Cache.Type {
	case "redis":
		c, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("[Manager] Warning: redis cache unavailable, running degraded: %v", err)
		} else {
			m.cache = c
		}
	case "memory":
		m.cache = cache.NewMemoryCache()
	case "none", "":
		// no cache, every read hits the store
	default:
		db.Close()
		return nil, fmt.Errorf("unknown cache type %q", cfg.Cache.Type)
	}

	return m, nil
}

// openStore opens and verifies the *sql.DB for the configured backend.
func openStore(cfg *config.StoreConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Type {
	case "postgres", "postgresql":
		db, err = sql.Open("postgres", cfg.PostgresDSN())
	case "mysql":
		db, err = sql.Open("mysql", cfg.MySQLDSN())
	case "sqlite":
		dsn := cfg.Path
		if dsn != ":memory:" {
			dsn += "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
		}
		db, err = sql.Open("sqlite", dsn)
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Type, err)
	}

	if cfg.Type == "sqlite" {
		// SQLite only supports one writer
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MinIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s store: %w", cfg.Type, err)
	}

	log.Printf("[Manager] %s store initialized (pool max=%d idle=%d)",
		cfg.Type, cfg.MaxOpenConns, cfg.MinIdleConns)
	return db, nil
}

// DB returns the store connection pool.
func (m *Manager) DB() *sql.DB {
	return m.db
}

// Cache returns the cache client, or nil when the cache is unavailable.
func (m *Manager) Cache() cache.Cache {
	return m.cache
}

// StoreType returns the configured store backend name.
func (m *Manager) StoreType() string {
	return m.storeType
}

// OpContext bounds one repository unit of work with the per-command
// timeout.
func (m *Manager) OpContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.commandTimeout)
}

// HealthCheck probes each backend independently. Probe failures come
// back as false, never as an error.
func (m *Manager) HealthCheck(ctx context.Context) model.Health {
	var health model.Health

	if err := m.db.PingContext(ctx); err != nil {
		log.Printf("[Manager] store health check failed: %v", err)
	} else {
		health.Store = true
	}

	if m.cache != nil {
		if err := m.cache.Ping(ctx); err != nil {
			log.Printf("[Manager] cache health check failed: %v", err)
		} else {
			health.Cache = true
		}
	}

	return health
}

// Close releases the pool and the cache client. Idempotent. Callers
// must have completed their units of work first.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.closeErr = m.db.Close()
		if m.cache != nil {
			if err := m.cache.Close(); err != nil && m.closeErr == nil {
				m.closeErr = err
			}
		}
		log.Printf("[Manager] connections closed")
	})
	return m.closeErr
}
