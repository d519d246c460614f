// Package async runs independent computations concurrently and joins them
// back in a deterministic order.
//
// Async starts a function in its own goroutine and returns a *Future. Await
// blocks until it finishes.
// Panics inside the function are recovered and surface as an error wrapping
// ErrPanic, so one misbehaving task cannot take the process down.
//
// For fan-out/fan-in, start one future per task and join with AllSettled,
// which waits for every future and returns outcomes indexed by the position
// the futures were passed in, not by completion order.
//
// # Usage
//
//	futures := make([]*async.Future[bool], len(checks))
//	for i, check := range checks {
//	    futures[i] = async.Async(ctx, value, check)
//	}
//	for i, out := range async.AllSettled(futures...) {
//	    // out.Value / out.Err belong to checks[i]
//	}
//
// A future whose context is already canceled completes immediately with the
// context error. The package never cancels running work on its own; pass a
// context with a deadline if tasks must be bounded.
package async
