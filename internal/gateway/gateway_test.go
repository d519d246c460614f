package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apigate/internal/gateway"
	"github.com/dmitrymomot/apigate/pkg/auth"
	"github.com/dmitrymomot/apigate/pkg/httpserver"
	"github.com/dmitrymomot/apigate/pkg/jwt"
	"github.com/dmitrymomot/apigate/pkg/metrics"
	"github.com/dmitrymomot/apigate/pkg/ratelimiter"
	"github.com/dmitrymomot/apigate/pkg/requestid"
	"github.com/dmitrymomot/apigate/pkg/validator"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	handler   http.Handler
	engine    *validator.Engine
	tokens    *jwt.Service
	metrics   *metrics.Metrics
	passwords *mockPasswords
	oauth     *mockOAuth
}

func newFixture(t *testing.T, opts ...gateway.Option) *fixture {
	t.Helper()

	schemas, err := gateway.LoadSchemas("")
	require.NoError(t, err)
	schemas["profile"] = validator.Schema{Type: validator.TypeObject, Fields: validator.Fields{
		{Name: "age", Schema: validator.Schema{Type: validator.TypeNumber, Rules: []validator.RuleRef{
			validator.Rule("min", "min", 18),
		}}},
	}}

	tokens, err := jwt.New([]byte(testSecret))
	require.NoError(t, err)

	f := &fixture{
		engine:    validator.New(),
		tokens:    tokens,
		metrics:   metrics.New(),
		passwords: &mockPasswords{},
		oauth:     &mockOAuth{},
	}
	base := []gateway.Option{
		gateway.WithMetrics(f.metrics),
		gateway.WithPasswordAuth(f.passwords),
		gateway.WithGoogleOAuth(f.oauth),
	}
	gw, err := gateway.New(f.engine, schemas, tokens, append(base, opts...)...)
	require.NoError(t, err)
	f.handler = gw.Router()

	t.Cleanup(func() {
		f.passwords.AssertExpectations(t)
		f.oauth.AssertExpectations(t)
	})
	return f
}

func (f *fixture) do(method, target, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func testUser() *auth.User {
	return &auth.User{
		ID:         uuid.New(),
		Email:      "user@example.com",
		Name:       "Test User",
		AuthMethod: auth.MethodPassword,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("password auth requires register and login schemas", func(t *testing.T) {
		_, err := gateway.New(validator.New(), map[string]validator.Schema{}, nil, gateway.WithPasswordAuth(&mockPasswords{}))
		assert.ErrorIs(t, err, gateway.ErrMissingSchema)
	})

	t.Run("validation only gateway needs no auth schemas", func(t *testing.T) {
		_, err := gateway.New(validator.New(), map[string]validator.Schema{}, nil)
		assert.NoError(t, err)
	})
}

func TestValidateEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("valid payload", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/validate/profile", `{"age": 30}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, true, body["valid"])
		assert.Empty(t, body["errors"])
		assert.NotEmpty(t, rec.Header().Get(requestid.Header))
	})

	t.Run("invalid payload", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/validate/profile", `{"age": 12}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["valid"])
		errs := body["errors"].([]any)
		require.Len(t, errs, 1)
		first := errs[0].(map[string]any)
		assert.Equal(t, "age", first["field"])
		assert.Equal(t, "min", first["rule"])
	})

	t.Run("type mismatch", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/validate/profile", `{"age": "thirty"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		first := decode(t, rec)["errors"].([]any)[0].(map[string]any)
		assert.Equal(t, "type", first["rule"])
		assert.Equal(t, "Expected type number", first["message"])
	})

	t.Run("malformed json", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/validate/profile", `{"age":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "malformed_json", decode(t, rec)["error"].(map[string]any)["code"])
	})

	t.Run("body too large", func(t *testing.T) {
		f := newFixture(t, gateway.WithConfig(gateway.Config{MaxBodyBytes: 8}))
		rec := f.do(http.MethodPost, "/validate/profile", `{"age": 30, "padding": "xxxxxxxx"}`)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("unknown schema", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/validate/missing", `{}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("async rule fault", func(t *testing.T) {
		f := newFixture(t)
		f.engine.AddAsyncRule("uniqueEmail", func(context.Context, any, validator.Params) (bool, error) {
			return false, errors.New("database unavailable")
		})
		rec := f.do(http.MethodPost, "/validate/register",
			`{"email":"user@example.com","password":"C0rrect-Horse!","name":"Test"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "database unavailable")
	})

	t.Run("validation timeout", func(t *testing.T) {
		f := newFixture(t, gateway.WithConfig(gateway.Config{ValidationTimeout: 20 * time.Millisecond}))
		f.engine.AddAsyncRule("uniqueEmail", func(ctx context.Context, _ any, _ validator.Params) (bool, error) {
			<-ctx.Done()
			return false, ctx.Err()
		})
		rec := f.do(http.MethodPost, "/validate/register",
			`{"email":"user@example.com","password":"C0rrect-Horse!","name":"Test"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("list schemas", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodGet, "/validate", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{"login", "profile", "register"}, decode(t, rec)["schemas"])
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()

	const payload = `{"email":"user@example.com","password":"C0rrect-Horse!","name":"Test User"}`

	t.Run("creates user and issues token", func(t *testing.T) {
		f := newFixture(t)
		user := testUser()
		f.passwords.On("Register", mock.Anything, "user@example.com", "C0rrect-Horse!", "Test User").
			Return(user, nil).Once()

		rec := f.do(http.MethodPost, "/auth/register", payload)

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decode(t, rec)
		claims, err := f.tokens.Parse(body["token"].(string))
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID())
		assert.Equal(t, user.Email, body["user"].(map[string]any)["email"])
	})

	t.Run("rejects invalid payload before touching storage", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/auth/register", `{"email":"nope","password":"weak","name":"Test"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		errs := decode(t, rec)["errors"].([]any)
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.(map[string]any)["field"].(string))
		}
		assert.Equal(t, []string{"email", "password"}, fields)
		f.passwords.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("async rule rejects taken email", func(t *testing.T) {
		f := newFixture(t)
		f.engine.AddAsyncRule("uniqueEmail", func(context.Context, any, validator.Params) (bool, error) {
			return false, nil
		})
		rec := f.do(http.MethodPost, "/auth/register", payload)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		first := decode(t, rec)["errors"].([]any)[0].(map[string]any)
		assert.Equal(t, "uniqueEmail", first["rule"])
		assert.Equal(t, "Email is already registered", first["message"])
	})

	t.Run("duplicate email from storage", func(t *testing.T) {
		f := newFixture(t)
		f.passwords.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, auth.ErrEmailAlreadyExists).Once()

		assert.Equal(t, http.StatusConflict, f.do(http.MethodPost, "/auth/register", payload).Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture(t)
		f.passwords.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("boom")).Once()

		assert.Equal(t, http.StatusInternalServerError, f.do(http.MethodPost, "/auth/register", payload).Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("issues token", func(t *testing.T) {
		f := newFixture(t)
		user := testUser()
		f.passwords.On("Authenticate", mock.Anything, "user@example.com", "secret").Return(user, nil).Once()

		rec := f.do(http.MethodPost, "/auth/login", `{"email":"user@example.com","password":"secret"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, decode(t, rec)["token"])
	})

	t.Run("wrong credentials", func(t *testing.T) {
		f := newFixture(t)
		f.passwords.On("Authenticate", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, auth.ErrInvalidCredentials).Once()

		rec := f.do(http.MethodPost, "/auth/login", `{"email":"user@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/auth/login", `{"email":"user@example.com","password":""}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestGoogleOAuth(t *testing.T) {
	t.Parallel()

	t.Run("login redirects to consent screen", func(t *testing.T) {
		f := newFixture(t)
		f.oauth.On("GetAuthURL", mock.Anything).Return("https://accounts.example.com/auth?state=abc", nil).Once()

		rec := f.do(http.MethodGet, "/auth/google/login", "")

		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Equal(t, "https://accounts.example.com/auth?state=abc", rec.Header().Get("Location"))
	})

	t.Run("callback creates user", func(t *testing.T) {
		f := newFixture(t)
		user := testUser()
		user.AuthMethod = auth.MethodOAuthGoogle
		f.oauth.On("Auth", mock.Anything, "code-1", "state-1").Return(user, true, nil).Once()

		rec := f.do(http.MethodGet, "/auth/google/callback?code=code-1&state=state-1", "")

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, true, body["created"])
		assert.Equal(t, auth.MethodOAuthGoogle, body["user"].(map[string]any)["auth_method"])
	})

	t.Run("callback maps errors", func(t *testing.T) {
		cases := map[error]int{
			auth.ErrInvalidState:       http.StatusBadRequest,
			auth.ErrInvalidCode:        http.StatusBadRequest,
			auth.ErrUnverifiedEmail:    http.StatusForbidden,
			auth.ErrProviderEmailInUse: http.StatusConflict,
			errors.New("network"):      http.StatusInternalServerError,
		}
		for cause, status := range cases {
			f := newFixture(t)
			f.oauth.On("Auth", mock.Anything, "c", "s").Return(nil, false, cause).Once()
			assert.Equal(t, status, f.do(http.MethodGet, "/auth/google/callback?code=c&state=s", "").Code, cause.Error())
		}
	})

	t.Run("user denied consent", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodGet, "/auth/google/callback?error=access_denied", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "oauth_denied", decode(t, rec)["error"].(map[string]any)["code"])
		f.oauth.AssertNotCalled(t, "Auth", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("provider reason does not leak into the error code", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodGet, "/auth/google/callback?error=%3Cscript%3Ex%3C%2Fscript%3E", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotContains(t, rec.Body.String(), "script")
		body := decode(t, rec)["error"].(map[string]any)
		assert.Equal(t, "oauth_denied", body["code"])
	})
}

func TestMe(t *testing.T) {
	t.Parallel()

	t.Run("returns claims", func(t *testing.T) {
		f := newFixture(t)
		token, err := f.tokens.Issue("user-1", "user@example.com")
		require.NoError(t, err)

		rec := f.do(http.MethodGet, "/me", "", "Authorization", "Bearer "+token)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "user-1", body["user_id"])
		assert.Equal(t, "user@example.com", body["email"])
	})

	t.Run("missing token", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/me", "").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/me", "", "Authorization", "Bearer nope").Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodGet, "/health/live", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ALIVE", rec.Body.String())
	})

	t.Run("readiness reports failing dependency", func(t *testing.T) {
		f := newFixture(t, gateway.WithReadinessChecks(httpserver.Check{
			Name:  "redis",
			Probe: func(context.Context) error { return errors.New("down") },
		}))
		rec := f.do(http.MethodGet, "/health/ready", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("metrics expose validation counters", func(t *testing.T) {
		f := newFixture(t)
		f.do(http.MethodPost, "/validate/profile", `{"age": 12}`)

		rec := f.do(http.MethodGet, "/metrics", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `apigate_validation_total{result="invalid",schema="profile"} 1`)
		assert.Contains(t, rec.Body.String(), `apigate_validation_errors_total{rule="min"} 1`)
		assert.Contains(t, rec.Body.String(), `apigate_http_requests_total{method="POST",route="/validate/{schema}",status="422"} 1`)
	})

	t.Run("unknown route", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/nope", "").Code)
	})
}

func TestAuthRateLimit(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute})
	require.NoError(t, err)

	f := newFixture(t, gateway.WithAuthRateLimit(limiter))
	f.passwords.On("Authenticate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, auth.ErrInvalidCredentials).Once()

	const body = `{"email":"user@example.com","password":"wrong"}`
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/auth/login", body).Code)

	rec := f.do(http.MethodPost, "/auth/login", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", decode(t, rec)["error"].(map[string]any)["code"])

	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/validate/profile", `{"age": 30}`).Code, "only /auth is limited")
}
