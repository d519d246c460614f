package gateway

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/apigate/pkg/auth"
	"github.com/dmitrymomot/apigate/pkg/jwt"
	"github.com/dmitrymomot/apigate/pkg/logger"
)

func readLimited(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, errors.Join(ErrMalformedBody, err)
	}
	return body, nil
}

// writeBodyError answers a request whose body could not be decoded.
func writeBodyError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", ErrBodyTooLarge.Error())
		return
	}
	writeError(w, http.StatusBadRequest, "malformed_json", ErrMalformedBody.Error())
}

func stringField(payload any, key string) string {
	obj, _ := payload.(map[string]any)
	s, _ := obj[key].(string)
	return s
}

func (g *Gateway) validateSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "schema")
	if _, ok := g.schemas[name]; !ok {
		writeError(w, http.StatusNotFound, "unknown_schema", "schema "+name+" not found")
		return
	}

	payload, err := g.decodeBody(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	res, err := g.validate(r.Context(), name, payload)
	if err != nil {
		writeInternal(w)
		return
	}
	writeValidation(w, res)
}

func (g *Gateway) listSchemas(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(g.schemas))
	for name := range g.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	writeJSON(w, http.StatusOK, map[string]any{"schemas": names})
}

func (g *Gateway) register(w http.ResponseWriter, r *http.Request) {
	payload, err := g.decodeBody(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	res, err := g.validate(r.Context(), SchemaRegister, payload)
	if err != nil {
		writeInternal(w)
		return
	}
	if !res.Valid {
		writeValidation(w, res)
		return
	}

	user, err := g.passwords.Register(r.Context(),
		stringField(payload, "email"),
		stringField(payload, "password"),
		stringField(payload, "name"),
	)
	switch {
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
		return
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrPasswordRequired):
		writeError(w, http.StatusUnprocessableEntity, "weak_password", err.Error())
		return
	case err != nil:
		g.logger.ErrorContext(r.Context(), "registration failed", logger.Error(err))
		writeInternal(w)
		return
	}

	g.respondWithToken(w, r, http.StatusCreated, user, true)
}

func (g *Gateway) login(w http.ResponseWriter, r *http.Request) {
	payload, err := g.decodeBody(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	res, err := g.validate(r.Context(), SchemaLogin, payload)
	if err != nil {
		writeInternal(w)
		return
	}
	if !res.Valid {
		writeValidation(w, res)
		return
	}

	user, err := g.passwords.Authenticate(r.Context(), stringField(payload, "email"), stringField(payload, "password"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
			return
		}
		g.logger.ErrorContext(r.Context(), "login failed", logger.Error(err))
		writeInternal(w)
		return
	}

	g.respondWithToken(w, r, http.StatusOK, user, false)
}

func (g *Gateway) googleLogin(w http.ResponseWriter, r *http.Request) {
	url, err := g.oauth.GetAuthURL(r.Context())
	if err != nil {
		g.logger.ErrorContext(r.Context(), "failed to start oauth flow",
			logger.Provider(auth.OAuthProviderGoogle),
			logger.Error(err),
		)
		writeInternal(w)
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (g *Gateway) googleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if reason := q.Get("error"); reason != "" {
		g.logger.InfoContext(r.Context(), "oauth callback denied by provider", slog.String("reason", reason))
		writeError(w, http.StatusBadRequest, "oauth_denied", ErrOAuthCancelled.Error())
		return
	}

	user, created, err := g.oauth.Auth(r.Context(), q.Get("code"), q.Get("state"))
	switch {
	case errors.Is(err, auth.ErrInvalidState),
		errors.Is(err, auth.ErrInvalidCode),
		errors.Is(err, auth.ErrInvalidProfile):
		writeError(w, http.StatusBadRequest, "invalid_oauth_callback", err.Error())
		return
	case errors.Is(err, auth.ErrUnverifiedEmail):
		writeError(w, http.StatusForbidden, "unverified_email", err.Error())
		return
	case errors.Is(err, auth.ErrProviderEmailInUse):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
		return
	case err != nil:
		g.logger.ErrorContext(r.Context(), "oauth callback failed",
			logger.Provider(auth.OAuthProviderGoogle),
			logger.Error(err),
		)
		writeInternal(w)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	g.respondWithToken(w, r, status, user, created)
}

func (g *Gateway) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwt.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", ErrUnauthorized.Error())
		return
	}

	body := map[string]any{
		"user_id": claims.UserID(),
		"email":   claims.Email,
	}
	if claims.ExpiresAt != nil {
		body["expires_at"] = claims.ExpiresAt.Time
	}
	writeJSON(w, http.StatusOK, body)
}

func (g *Gateway) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *auth.User, created bool) {
	token, err := g.tokens.Issue(user.ID.String(), user.Email)
	if err != nil {
		g.logger.ErrorContext(r.Context(), "failed to issue token",
			logger.UserID(user.ID.String()),
			logger.Error(err),
		)
		writeInternal(w)
		return
	}
	writeJSON(w, status, tokenResponse{Token: token, User: newUserView(user), Created: created})
}
