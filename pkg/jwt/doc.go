// Package jwt issues and verifies HS256 access tokens on top of
// github.com/golang-jwt/jwt/v5 and provides HTTP middleware that protects
// routes with them.
//
// Tokens carry the user id as the subject plus the user's email. Parse
// enforces the signing method, expiry and, when configured, the issuer, and
// reports failures with the sentinel errors in errors.go.
//
// # Usage
//
//	svc, err := jwt.NewFromConfig(cfg)
//	token, err := svc.Issue(user.ID, user.Email)
//
//	r.With(jwt.Middleware(svc)).Get("/me", func(w http.ResponseWriter, r *http.Request) {
//	    claims, _ := jwt.GetClaims(r.Context())
//	    _ = claims.UserID()
//	})
package jwt
