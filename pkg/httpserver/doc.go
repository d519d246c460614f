// Package httpserver runs an http.Handler with graceful shutdown and serves
// liveness and readiness probes.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Run returns when ctx is cancelled or the process receives SIGINT/SIGTERM,
// after in-flight requests finished or the shutdown timeout elapsed.
package httpserver
