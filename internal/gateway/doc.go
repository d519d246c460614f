// Package gateway exposes the validation engine and the authentication
// services over HTTP.
//
// Routes:
//
//	GET  /health/live            liveness probe
//	GET  /health/ready           readiness probe over the configured checks
//	GET  /metrics                Prometheus exposition, when metrics are enabled
//	POST /auth/register          validate with the "register" schema, create user, issue token
//	POST /auth/login             validate with the "login" schema, verify password, issue token
//	GET  /auth/google/login      redirect to the Google consent screen
//	GET  /auth/google/callback   finish the Google flow and issue a token
//	GET  /me                     claims of the bearer token
//	GET  /validate               names of the loaded schemas
//	POST /validate/{schema}      validate an arbitrary JSON payload
//
// Invalid payloads get 422 with {"valid":false,"errors":[...]}, malformed
// JSON gets 400 and an async rule fault gets 500 without details. Every
// validation runs under the configured timeout; rules that ignore their
// context are not interrupted.
package gateway
