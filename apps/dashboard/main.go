package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	dig_container "github.com/trezcool/garderie/apps/dashboard/di/dig"
	"github.com/trezcool/garderie/apps/dashboard/web"
	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/core/ui"
	"github.com/trezcool/garderie/core/user"
)

func main() {
	c := dig_container.New(nil)

	must(c.Invoke(func(
		conf *core.Config,
		logger core.Logger,
		validate *validator.Validate,
		uni *ut.UniversalTranslator,
		server *web.Server,
	) {
		logger.Info(fmt.Sprintf("Dashboard initializing : version %q, api %s", conf.Build, conf.API.BaseURL))
		if err := initApp(conf, logger, validate, uni); err != nil {
			logger.Fatal(fmt.Sprintf("initializing: %v", err), err)
		}
		defer logger.Info("Dashboard stopped")

		serveDebug(conf, logger)

		// =========================================================================
		// Start Dashboard

		go server.Start()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			logger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

// initApp registers the validators and loads the UI messages and email templates.
func initApp(conf *core.Config, logger core.Logger, validate *validator.Validate, uni *ut.UniversalTranslator) error {
	core.InitValidators(validate, uni)
	user.InitValidators(validate, uni)
	daycare.InitValidators(validate, uni)
	if err := ui.LoadMessages(uni); err != nil {
		return errors.Wrap(err, "loading messages")
	}
	core.ParseEmailTemplates(conf, logger)
	return nil
}

// serveDebug exposes /debug/pprof and /debug/vars on the debug host, when one is configured.
func serveDebug(conf *core.Config, logger core.Logger) {
	if conf.Server.DebugHost == "" {
		return
	}
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("api").Set(conf.API.BaseURL)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
