// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a client supplied X-Request-ID when it is short and made
// of [a-zA-Z0-9_-], and otherwise generates a UUIDv7. The id is stored in the
// request context, echoed in the response header and, through LogExtractor,
// added to every log record written with that context:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LogExtractor))
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
package requestid
