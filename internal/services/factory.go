package services

import (
	"database/sql"
	"fmt"

	"starjar/internal/interfaces"
	"starjar/internal/pkg/caching"
	"starjar/internal/pkg/limiter"
	"starjar/internal/pkg/restapi"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	BackendPostgres = "postgres"
	BackendREST     = "rest"
)

// Config is read once, at container construction. Nothing re-reads the
// environment after that; swapping backends means building a new container.
type Config struct {
	// Backend selects the AuthService/DataService implementation:
	// "postgres" (direct database) or "rest" (remote HTTP).
	Backend string

	DatabaseDSN      string
	DatabasePassword string
	RedisURL         string
	JWTSecret        string

	// Remote backend only.
	APIBaseURL string
	APIKey     string
}

// NewContainer wires the full dependency graph lazily: nothing connects until
// first invoked, every provider is memoized, and configuration mistakes
// surface as errors at the first Invoke of the broken branch rather than at
// construction.
func NewContainer(cfg Config) *do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)

	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		cfg := do.MustInvoke[Config](i)
		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(cfg.DatabaseDSN),
			pgdriver.WithPassword(cfg.DatabasePassword),
		))

		return bun.NewDB(sqldb, pgdialect.New()), nil
	})

	do.Provide(injector, func(i *do.Injector) (redis.UniversalClient, error) {
		cfg := do.MustInvoke[Config](i)
		return db.InitRedis(&db.RedisConfig{
			URL: cfg.RedisURL,
		})
	})

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		dbRedis, err := do.Invoke[redis.UniversalClient](i)
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (*redsync.Redsync, error) {
		dbRedis, err := do.Invoke[redis.UniversalClient](i)
		if err != nil {
			return nil, err
		}

		pool := goredis.NewPool(dbRedis)
		return redsync.New(pool), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		dbRedis, err := do.Invoke[redis.UniversalClient](i)
		if err != nil {
			return nil, err
		}

		return limiter.NewLimiter(dbRedis)
	})

	do.Provide(injector, func(i *do.Injector) (*TokenIssuer, error) {
		cfg := do.MustInvoke[Config](i)
		return NewTokenIssuer(cfg.JWTSecret)
	})

	do.Provide(injector, func(i *do.Injector) (*restapi.Client, error) {
		cfg := do.MustInvoke[Config](i)
		client, err := restapi.New(restapi.Config{
			BaseURL: cfg.APIBaseURL,
			APIKey:  cfg.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}

		return client, nil
	})

	do.Provide(injector, func(i *do.Injector) (SessionVerifier, error) {
		return NewStoreSessionVerifier(i)
	})

	do.Provide(injector, func(i *do.Injector) (ResourceOwnership, error) {
		return NewOwnershipPostgres(i)
	})

	do.Provide(injector, func(i *do.Injector) (AuthService, error) {
		cfg := do.MustInvoke[Config](i)
		switch cfg.Backend {
		case BackendPostgres:
			return NewAuthPostgres(i)
		case BackendREST:
			return NewAuthREST(i)
		default:
			return nil, fmt.Errorf("%w: unsupported backend %q", ErrConfiguration, cfg.Backend)
		}
	})

	do.Provide(injector, func(i *do.Injector) (DataService, error) {
		cfg := do.MustInvoke[Config](i)
		switch cfg.Backend {
		case BackendPostgres:
			return NewDataPostgres(i)
		case BackendREST:
			return NewDataREST(i)
		default:
			return nil, fmt.Errorf("%w: unsupported backend %q", ErrConfiguration, cfg.Backend)
		}
	})

	return injector
}

// Reset tears the container down and rebuilds it from the same Config. Cached
// service instances and open connections are discarded; the next Invoke
// constructs fresh ones.
func Reset(injector *do.Injector) (*do.Injector, error) {
	cfg, err := do.Invoke[Config](injector)
	if err != nil {
		return nil, err
	}

	if err := injector.Shutdown(); err != nil {
		return nil, err
	}

	return NewContainer(cfg), nil
}
