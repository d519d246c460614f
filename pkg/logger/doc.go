// Package logger builds *slog.Logger instances for the gateway.
//
// New applies functional options (format, level, output, static attributes,
// context extractors) and wraps the chosen slog handler in a
// LogHandlerDecorator, which copies request-scoped values such as the request
// id from the context into every record logged with a *Context method.
//
// WithEnvironment picks JSON/info for production and staging and text/debug
// otherwise. Attribute helpers (Error, RequestID, Rule, Field, Schema, ...)
// keep key names consistent across packages.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "apigate"),
//	    logger.WithContextExtractors(requestid.LogExtractor),
//	)
//	log.WarnContext(ctx, "validation failed", logger.Schema("register"), logger.Field("email"))
//
// The validation engine only needs Warn(msg, args...), which *slog.Logger
// provides, so the logger is passed to it directly.
package logger
