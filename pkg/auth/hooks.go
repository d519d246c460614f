package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/apigate/pkg/logger"
)

// Hook runs after a successful auth event. Hooks run in the background and
// their errors are only logged.
type Hook func(ctx context.Context, user *User) error

const hookTimeout = 10 * time.Second

func runHook(log *slog.Logger, component, name string, hook Hook, user *User) {
	if hook == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error(name+" hook panicked",
					logger.UserID(user.ID.String()),
					slog.Any("panic", r),
					logger.Component(component),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
		defer cancel()

		if err := hook(ctx, user); err != nil {
			log.Error(name+" hook failed",
				logger.UserID(user.ID.String()),
				logger.Error(err),
				logger.Component(component),
			)
		}
	}()
}
