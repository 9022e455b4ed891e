package testutil

import (
	"io"
	"log"
	"time"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/services/logger"
)

// NewConfig returns a test configuration pointing at the given API.
func NewConfig(apiBaseURL string) *core.Config {
	return &core.Config{
		TestMode:        true,
		Env:             "TEST",
		AppName:         "Garderie",
		DefaultLocale:   core.DefaultLocale,
		FrontendBaseURL: "http://garderie.test",
		WorkDir:         core.Getwd(),
		Server: core.ServerConfig{
			ShutdownTimeout: time.Second,
			DisableReqLogs:  true,
		},
		API: core.APIConfig{BaseURL: apiBaseURL},
		Cookie: core.CookieConfig{
			HashKey:  "test-hash-key-0123456789abcdefgh",
			BlockKey: "test-block-key-0",
			TokenTTL: time.Hour,
		},
	}
}

// NewLogger returns a logger writing nowhere.
func NewLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
}
