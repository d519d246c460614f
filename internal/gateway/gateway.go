package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/apigate/pkg/auth"
	"github.com/dmitrymomot/apigate/pkg/clientip"
	"github.com/dmitrymomot/apigate/pkg/httpserver"
	"github.com/dmitrymomot/apigate/pkg/jwt"
	"github.com/dmitrymomot/apigate/pkg/logger"
	"github.com/dmitrymomot/apigate/pkg/metrics"
	"github.com/dmitrymomot/apigate/pkg/ratelimiter"
	"github.com/dmitrymomot/apigate/pkg/requestid"
	"github.com/dmitrymomot/apigate/pkg/validator"
)

// PasswordAuth is satisfied by *auth.PasswordService.
type PasswordAuth interface {
	Register(ctx context.Context, email, password, name string) (*auth.User, error)
	Authenticate(ctx context.Context, email, password string) (*auth.User, error)
}

// OAuthAuth is satisfied by *auth.OAuthService.
type OAuthAuth interface {
	GetAuthURL(ctx context.Context) (string, error)
	Auth(ctx context.Context, code, state string) (*auth.User, bool, error)
}

// Gateway serves the validation and authentication endpoints.
type Gateway struct {
	engine            *validator.Engine
	schemas           map[string]validator.Schema
	tokens            *jwt.Service
	passwords         PasswordAuth
	oauth             OAuthAuth
	metrics           *metrics.Metrics
	logger            *slog.Logger
	checks            []httpserver.Check
	authLimiter       ratelimiter.RateLimiter
	validationTimeout time.Duration
	maxBodyBytes      int64
}

// Option configures a Gateway.
type Option func(*Gateway)

func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithPasswordAuth mounts /auth/register and /auth/login.
func WithPasswordAuth(p PasswordAuth) Option {
	return func(g *Gateway) { g.passwords = p }
}

// WithGoogleOAuth mounts /auth/google/login and /auth/google/callback.
func WithGoogleOAuth(o OAuthAuth) Option {
	return func(g *Gateway) { g.oauth = o }
}

// WithReadinessChecks sets the dependencies probed by /health/ready.
func WithReadinessChecks(checks ...httpserver.Check) Option {
	return func(g *Gateway) { g.checks = append(g.checks, checks...) }
}

// WithAuthRateLimit limits /auth requests per client address.
func WithAuthRateLimit(l ratelimiter.RateLimiter) Option {
	return func(g *Gateway) { g.authLimiter = l }
}

func WithConfig(cfg Config) Option {
	return func(g *Gateway) {
		if cfg.ValidationTimeout > 0 {
			g.validationTimeout = cfg.ValidationTimeout
		}
		if cfg.MaxBodyBytes > 0 {
			g.maxBodyBytes = cfg.MaxBodyBytes
		}
	}
}

// New creates a Gateway. The schema set must contain the register and login
// schemas when password auth is enabled.
func New(engine *validator.Engine, schemas map[string]validator.Schema, tokens *jwt.Service, opts ...Option) (*Gateway, error) {
	g := &Gateway{
		engine:            engine,
		schemas:           schemas,
		tokens:            tokens,
		logger:            logger.Discard(),
		validationTimeout: 5 * time.Second,
		maxBodyBytes:      1 << 20,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.passwords != nil {
		for _, name := range []string{SchemaRegister, SchemaLogin} {
			if _, ok := g.schemas[name]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrMissingSchema, name)
			}
		}
	}
	return g, nil
}

// Router builds the HTTP routes.
func (g *Gateway) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware, g.observe, g.recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(g.logger, g.checks...))
	if g.metrics != nil {
		r.Method(http.MethodGet, "/metrics", g.metrics.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		if g.authLimiter != nil {
			r.Use(ratelimiter.Middleware(g.authLimiter, ratelimiter.ByIP,
				ratelimiter.WithDeniedHandler(func(w http.ResponseWriter, _ *http.Request, _ *ratelimiter.Result) {
					writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				}),
				ratelimiter.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
					g.logger.ErrorContext(r.Context(), "rate limiter failed", logger.Error(err))
					writeInternal(w)
				}),
			))
		}
		if g.passwords != nil {
			r.Post("/register", g.register)
			r.Post("/login", g.login)
		}
		if g.oauth != nil {
			r.Get("/google/login", g.googleLogin)
			r.Get("/google/callback", g.googleCallback)
		}
	})

	r.With(jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
		Service: g.tokens,
		ErrorHandler: func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		},
	})).Get("/me", g.me)

	r.Get("/validate", g.listSchemas)
	r.Post("/validate/{schema}", g.validateSchema)

	return r
}

// validate runs the named schema with the per-request timeout and records
// the outcome.
func (g *Gateway) validate(ctx context.Context, name string, payload any) (validator.Result, error) {
	schema, ok := g.schemas[name]
	if !ok {
		return validator.Result{}, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	ctx, cancel := context.WithTimeout(ctx, g.validationTimeout)
	defer cancel()

	start := time.Now()
	res, err := g.engine.ValidateAsync(ctx, payload, schema)
	if g.metrics != nil {
		g.metrics.RecordValidation(name, res, err, time.Since(start))
	}
	if err != nil {
		g.logger.ErrorContext(ctx, "validation fault",
			logger.Schema(name),
			logger.Error(err),
		)
	}
	return res, err
}

// decodeBody reads the request body into the engine's value tree.
func (g *Gateway) decodeBody(w http.ResponseWriter, r *http.Request) (any, error) {
	body, err := readLimited(w, r, g.maxBodyBytes)
	if err != nil {
		return nil, err
	}
	v, err := validator.DecodeJSON(body)
	if err != nil {
		return nil, errors.Join(ErrMalformedBody, err)
	}
	return v, nil
}
