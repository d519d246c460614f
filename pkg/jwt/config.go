package jwt

import "time"

// Config holds token signing settings.
type Config struct {
	Secret string        `env:"JWT_SECRET,required" validate:"min=32"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"24h" validate:"gt=0"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"apigate"`
}
