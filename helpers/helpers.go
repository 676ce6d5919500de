// Package helpers bootstraps test suites: it loads the process-wide
// configuration exactly once, points the suite at the configured base URL or
// an embedded petstore, and hands out executors bound to that configuration.
package helpers

import (
	"fmt"
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/restprobe/restprobe/client"
	"github.com/restprobe/restprobe/config"
	"github.com/restprobe/restprobe/internal/petstore"
)

var (
	cfg      config.Config
	baseURL  string
	embedded *petstore.Server
)

// TestMain is the main entry point for suite packages:
//
//	func TestMain(m *testing.M) { helpers.TestMain(m) }
//
// It loads configuration from the environment, starts an embedded petstore
// when no live base URL is configured, runs the tests and cleans up. The
// base URL is set once here and read-only for the rest of the run.
func TestMain(m *testing.M) {
	c, err := config.NewFromEnv()
	if err != nil {
		fmt.Printf("Error: %s", err)
		os.Exit(1)
	}
	cfg = c
	// keep library logs out of test output unless debugging was asked for
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.ErrorLevel)
	}
	baseURL = cfg.BaseURL
	if baseURL == "" {
		embedded = petstore.NewServer()
		baseURL = embedded.URL()
	}
	exitCode := m.Run()
	if embedded != nil {
		embedded.Close()
	}
	os.Exit(exitCode)
}

// BaseURL returns the suite-wide base URL every request builder is
// constructed with.
func BaseURL() string {
	return baseURL
}

// NewExecutor returns an executor honouring the configured timeout and
// debug settings.
func NewExecutor() *client.Executor {
	return client.NewExecutor(cfg.Timeout(), cfg.Debug)
}
