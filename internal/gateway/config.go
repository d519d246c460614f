package gateway

import (
	"time"

	"github.com/dmitrymomot/apigate/pkg/ratelimiter"
)

type Config struct {
	SchemaDir         string             `env:"SCHEMA_DIR"`
	ValidationTimeout time.Duration      `env:"VALIDATION_TIMEOUT" envDefault:"5s" validate:"gt=0"`
	MaxBodyBytes      int64              `env:"MAX_BODY_BYTES" envDefault:"1048576" validate:"gt=0"`
	AuthRateLimit     ratelimiter.Config `envPrefix:"AUTH_RATE_LIMIT_"`
}
