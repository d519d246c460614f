package requestid

import (
	"context"
	"log/slog"
)

// LogExtractor adds a request_id attribute to log records whose context
// carries one. It matches logger.ContextExtractor.
func LogExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := FromContext(ctx); id != "" {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}
