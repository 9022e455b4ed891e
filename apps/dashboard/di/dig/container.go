package dig_container

import (
	"log"
	"net/http"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/garderie/apps/dashboard/web"
	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/services/apiclient"
	emailsvc "github.com/trezcool/garderie/services/email"
	logsvc "github.com/trezcool/garderie/services/logger"
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DASHBOARD : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator() *validator.Validate {
	return validator.New()
}

func newAPIClient(conf *core.Config) *apiclient.Client {
	return apiclient.New(conf.API.BaseURL, apiclient.WithHTTPClient(&http.Client{Timeout: conf.API.Timeout}))
}

type depsParam struct {
	dig.In

	Logger   core.Logger
	Validate *validator.Validate
	Uni      *ut.UniversalTranslator
	API      *apiclient.Client
	MailSvc  core.EmailService
}

func newDeps(p depsParam) *web.Deps {
	return &web.Deps{
		Logger:   p.Logger,
		Validate: p.Validate,
		Uni:      p.Uni,
		API:      p.API,
		MailSvc:  p.MailSvc,
	}
}

// New returns a new dependency injection dig.Container.
// newConfig is core.NewConfig unless overridden (eg. in tests).
func New(newConfig func() *core.Config) *dig.Container {
	if newConfig == nil {
		newConfig = core.NewConfig
	}
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newEmailService))
	must(c.Provide(newValidator))
	must(c.Provide(core.NewUniversalTranslator))
	must(c.Provide(newAPIClient))
	must(c.Provide(newDeps))
	must(c.Provide(web.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
