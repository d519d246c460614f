package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/apigate/internal/gateway"
	"github.com/dmitrymomot/apigate/internal/store"
	"github.com/dmitrymomot/apigate/pkg/auth"
	"github.com/dmitrymomot/apigate/pkg/clientip"
	"github.com/dmitrymomot/apigate/pkg/config"
	"github.com/dmitrymomot/apigate/pkg/email"
	"github.com/dmitrymomot/apigate/pkg/httpserver"
	"github.com/dmitrymomot/apigate/pkg/jwt"
	"github.com/dmitrymomot/apigate/pkg/logger"
	"github.com/dmitrymomot/apigate/pkg/metrics"
	"github.com/dmitrymomot/apigate/pkg/mongo"
	"github.com/dmitrymomot/apigate/pkg/ratelimiter"
	"github.com/dmitrymomot/apigate/pkg/redis"
	"github.com/dmitrymomot/apigate/pkg/requestid"
	"github.com/dmitrymomot/apigate/pkg/validator"
)

type appConfig struct {
	Env            string `env:"APP_ENV" envDefault:"development"`
	LogLevel       string `env:"LOG_LEVEL"`
	StrictRules    bool   `env:"VALIDATION_STRICT" envDefault:"false"`
	SeedDisposable bool   `env:"SEED_DISPOSABLE_DOMAINS" envDefault:"true"`
}

type serveConfig struct {
	App     appConfig
	HTTP    httpserver.Config
	Gateway gateway.Config
	Mongo   mongo.Config
	Redis   redis.Config
	JWT     jwt.Config
	Google  auth.GoogleOAuthConfig
	Email   email.Config
}

func serveCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				if err := config.LoadEnv(envFile); err != nil {
					return err
				}
			}
			var cfg serveConfig
			if err := config.Load(&cfg); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "load variables from this file before the default .env")
	return cmd
}

func serve(ctx context.Context, cfg serveConfig) error {
	log := logger.New(
		logger.WithEnvironment(cfg.App.Env, "apigate"),
		logger.WithLevelName(cfg.App.LogLevel),
		logger.WithContextExtractors(requestid.LogExtractor, clientip.LogExtractor),
	)
	logger.SetAsDefault(log)

	db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Client().Disconnect(context.WithoutCancel(ctx)); err != nil {
			log.Error("mongo disconnect failed", logger.Error(err))
		}
	}()

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()
	kv := redis.NewStorage(rdb, cfg.Redis.KeyPrefix)

	users := store.NewUsers(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}
	domains := store.NewDisposableDomains(kv)
	if cfg.App.SeedDisposable {
		if err := domains.SeedDefaults(ctx); err != nil {
			return fmt.Errorf("seed disposable domains: %w", err)
		}
	}

	engineOpts := []validator.Option{
		validator.WithLogger(log.With(logger.Component("validator"))),
		validator.WithAsyncRule("uniqueEmail", users.EmailAvailable),
		validator.WithAsyncRule("notDisposableEmail", domains.NotDisposable),
	}
	if cfg.App.StrictRules {
		engineOpts = append(engineOpts, validator.WithStrictMode())
	}
	engine := validator.New(engineOpts...)

	schemas, err := gateway.LoadSchemas(cfg.Gateway.SchemaDir)
	if err != nil {
		return err
	}

	tokens, err := jwt.NewFromConfig(cfg.JWT)
	if err != nil {
		return err
	}

	sender, err := email.NewSender(cfg.Email)
	if err != nil {
		return err
	}
	if !cfg.Email.PostmarkEnabled() {
		log.Warn("postmark not configured, writing emails to disk", slog.String("dir", cfg.Email.DevDir))
	}
	sendWelcome := func(ctx context.Context, u *auth.User) error {
		return email.SendWelcome(ctx, sender, cfg.Email, u.Email, u.Name)
	}

	authLimiter, err := ratelimiter.NewBucket(
		ratelimiter.NewRedisStore(rdb, cfg.Redis.KeyPrefix+"ratelimit:auth:"),
		cfg.Gateway.AuthRateLimit,
	)
	if err != nil {
		return err
	}

	m := metrics.New()
	opts := []gateway.Option{
		gateway.WithLogger(log),
		gateway.WithMetrics(m),
		gateway.WithConfig(cfg.Gateway),
		gateway.WithAuthRateLimit(authLimiter),
		gateway.WithPasswordAuth(auth.NewPasswordService(users,
			auth.WithPasswordLogger(log),
			auth.WithAfterRegister(sendWelcome),
		)),
		gateway.WithReadinessChecks(
			httpserver.Check{Name: "mongo", Probe: mongo.Healthcheck(db.Client())},
			httpserver.Check{Name: "redis", Probe: redis.Healthcheck(rdb)},
		),
	}
	if cfg.Google.Enabled() {
		opts = append(opts, gateway.WithGoogleOAuth(auth.NewOAuthService(users,
			store.NewOAuthStates(kv),
			auth.NewGoogleAdapter(cfg.Google),
			auth.WithOAuthLogger(log),
			auth.WithStateTTL(cfg.Google.StateTTL),
			auth.WithVerifiedOnly(cfg.Google.VerifiedOnly),
			auth.WithAfterOAuthSignup(sendWelcome),
		)))
	} else {
		log.Info("google oauth disabled")
	}

	gw, err := gateway.New(engine, schemas, tokens, opts...)
	if err != nil {
		return err
	}

	log.Info("starting apigate",
		slog.Int("schemas", len(schemas)),
		slog.Any("async_rules", engine.AsyncRules()),
	)
	return httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, gw.Router())
}
