// Package config carries the process-wide suite configuration. It is loaded
// once before any scenario runs and is read-only afterwards; no locking is
// needed because no concurrent writer exists.
package config

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
)

// Config is processed from environment variables. A `.env` file in the
// working directory is loaded first when present, so local runs can keep
// their settings out of the shell.
type Config struct {
	// BaseURL is the root of the petstore API under test, e.g.
	// `https://petstore.swagger.io/v2`. When empty, the test helpers start
	// an embedded in-memory petstore and point the suite at it.
	BaseURL string `env:"PETSTORE_BASE_URL"`
	// TimeoutSecs bounds each HTTP round trip. A call runs to completion or
	// to this timeout; there is no retry.
	TimeoutSecs int `env:"PETSTORE_TIMEOUT_SECS,default=30"`
	// Debug enables request/response logging.
	Debug bool `env:"PETSTORE_DEBUG"`
}

// Timeout returns TimeoutSecs as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// NewFromEnv loads a `.env` file when one exists and processes the
// environment into a Config.
func NewFromEnv() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return cfg, errors.Wrap(err, "process env config")
	}
	return cfg, nil
}
