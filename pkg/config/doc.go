// Package config loads typed application configuration from the environment.
//
// It combines github.com/joho/godotenv (optional .env files),
// github.com/caarlos0/env/v11 (struct tags to values) and
// github.com/go-playground/validator/v10 (`validate` tags checked after
// parsing). Every configuration type is parsed at most once per process and
// cached by its type name.
//
// # Usage
//
//	type GatewayConfig struct {
//	    SchemaDir         string        `env:"SCHEMA_DIR"`
//	    ValidationTimeout time.Duration `env:"VALIDATION_TIMEOUT" envDefault:"5s" validate:"gt=0"`
//	}
//
//	var cfg GatewayConfig
//	config.MustLoad(&cfg)
//
// LoadEnv reads extra .env files before parsing. ResetCache and
// ForceReloadConfig are meant for tests that change the environment.
//
// # Error Handling
//
// Errors can be matched with errors.Is against ErrParsingConfig,
// ErrInvalidConfig, ErrInvalidConfigType, ErrConfigNotLoaded and ErrNilPointer.
// A failed load is not cached, so a later call can succeed.
package config
