package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/admin2fa/pkg/config"
	"github.com/dmitrymomot/admin2fa/pkg/logger"
	"github.com/dmitrymomot/admin2fa/pkg/mongo"
	"github.com/dmitrymomot/admin2fa/pkg/ratelimiter"
	"github.com/dmitrymomot/admin2fa/pkg/redis"
	"github.com/dmitrymomot/admin2fa/pkg/secrets"
	"github.com/dmitrymomot/admin2fa/pkg/twofactor"
)

const (
	serviceName       = "twofactorctl"
	attemptsKeyPrefix = "twofactor:attempts:"
)

type appConfig struct {
	Log       logger.Config
	Mongo     mongo.Config
	Redis     redis.Config
	TwoFactor twofactor.Config
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	return config.LoadEnv(path)
}

func initLogger(cfg logger.Config, debug bool) (*slog.Logger, error) {
	opts := []logger.Option{logger.WithOutput(os.Stderr)}
	if debug {
		opts = append(opts, logger.WithLevel(slog.LevelDebug))
	}
	log, err := logger.NewFromConfig(cfg, serviceName, opts...)
	if err != nil {
		return nil, err
	}
	logger.SetAsDefault(log)
	return log, nil
}

func initLimiter(ctx context.Context, cfg appConfig, log *slog.Logger) (twofactor.Limiter, func(), error) {
	bucketCfg := ratelimiter.Config{
		Capacity:       cfg.TwoFactor.AttemptsBurst,
		RefillRate:     1,
		RefillInterval: cfg.TwoFactor.AttemptsRefill,
	}

	if !cfg.Redis.Enabled() {
		// Attempts only accumulate within this process.
		store := ratelimiter.NewMemoryStore()
		bucket, err := ratelimiter.NewBucket(store, bucketCfg)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		return bucket, store.Close, nil
	}

	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	bucket, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client, attemptsKeyPrefix), bucketCfg)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	log.Debug("attempt throttling backed by redis")
	return bucket, func() { _ = client.Close() }, nil
}

// newService wires the credential store, secret sealing and attempt
// throttling from the environment. The returned func releases connections.
func newService(ctx *cli.Context) (*twofactor.Service, func(), error) {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return nil, nil, err
	}

	log, err := initLogger(cfg.Log, ctx.Bool(debugFlag.Name))
	if err != nil {
		return nil, nil, err
	}

	key, err := secrets.ParseKey(cfg.TwoFactor.EncryptionKey)
	if err != nil {
		return nil, nil, err
	}
	sealer, err := secrets.NewSealer(key)
	if err != nil {
		return nil, nil, err
	}

	db, err := mongo.NewWithDatabase(ctx.Context, cfg.Mongo, "")
	if err != nil {
		return nil, nil, err
	}
	disconnect := func() { _ = db.Client().Disconnect(context.Background()) }

	store := twofactor.NewMongoStore(db, cfg.TwoFactor.Collection, sealer)
	if err := store.EnsureIndexes(ctx.Context); err != nil {
		disconnect()
		return nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}

	limiter, closeLimiter, err := initLimiter(ctx.Context, cfg, log)
	if err != nil {
		disconnect()
		return nil, nil, err
	}

	opts, err := cfg.TwoFactor.Options()
	if err != nil {
		closeLimiter()
		disconnect()
		return nil, nil, err
	}
	opts = append(opts, twofactor.WithLimiter(limiter), twofactor.WithLogger(log))

	cleanup := func() {
		closeLimiter()
		disconnect()
	}
	return twofactor.NewService(store, opts...), cleanup, nil
}

func withService(fn func(*cli.Context, *twofactor.Service) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		svc, cleanup, err := newService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		return fn(ctx, svc)
	}
}

func runHealth(ctx *cli.Context) error {
	var cfg struct {
		Mongo mongo.Config
		Redis redis.Config
	}
	if err := config.Load(&cfg); err != nil {
		return err
	}

	client, err := mongo.New(ctx.Context, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	checks := map[string]func(context.Context) error{
		"mongo": mongo.Healthcheck(client),
	}
	if cfg.Redis.Enabled() {
		rdb, err := redis.Connect(ctx.Context, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks["redis"] = redis.Healthcheck(rdb)
	}

	var errs []error
	for name, check := range checks {
		if err := check(ctx.Context); err != nil {
			fmt.Fprintf(ctx.App.Writer, "%s: %v\n", name, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(ctx.App.Writer, "%s: ok\n", name)
	}
	return errors.Join(errs...)
}
