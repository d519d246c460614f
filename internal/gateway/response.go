package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrymomot/apigate/pkg/auth"
	"github.com/dmitrymomot/apigate/pkg/validator"
)

// ErrorDetail is the body of every non-validation error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error ErrorDetail `json:"error"`
}

type validationResponse struct {
	Valid  bool                       `json:"valid"`
	Errors validator.ValidationErrors `json:"errors"`
}

// UserView is the public representation of a user.
type UserView struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	AuthMethod string    `json:"auth_method"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

type tokenResponse struct {
	Token   string   `json:"token"`
	User    UserView `json:"user"`
	Created bool     `json:"created,omitempty"`
}

func newUserView(u *auth.User) UserView {
	return UserView{
		ID:         u.ID.String(),
		Email:      u.Email,
		Name:       u.Name,
		Avatar:     u.Avatar,
		AuthMethod: u.AuthMethod,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

func writeInternal(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "internal_error", http.StatusText(http.StatusInternalServerError))
}

func writeValidation(w http.ResponseWriter, res validator.Result) {
	status := http.StatusOK
	if !res.Valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, validationResponse{Valid: res.Valid, Errors: res.Errors})
}
