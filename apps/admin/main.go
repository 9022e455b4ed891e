package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/user"
	"github.com/trezcool/garderie/services/apiclient"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	validate := validator.New()
	uni := core.NewUniversalTranslator()
	core.InitValidators(validate, uni)
	user.InitValidators(validate, uni)

	// start CLI
	cli := commandLine{
		api:      apiclient.New(conf.API.BaseURL, apiclient.WithHTTPClient(&http.Client{Timeout: conf.API.Timeout})),
		validate: validate,
		trans:    core.Translator(uni, conf.DefaultLocale),
		out:      os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", describe(err))
		}
		os.Exit(1)
	}
}

// describe lists every rejected field of a validation error.
func describe(err error) string {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
		return vErr.Summary()
	}
	return err.Error()
}
