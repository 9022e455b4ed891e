package main

import (
	"context"
	"fmt"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/user"
	"github.com/trezcool/garderie/services/apiclient"
)

// addUser validates nu and creates the account through the API.
func (cli *commandLine) addUser(api *apiclient.Client, nu user.NewUser) error {
	if err := nu.Validate(cli.validate); err != nil {
		return core.TranslateErrors(err, cli.trans)
	}
	usr, err := api.CreateUser(context.Background(), nu)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "created %s %q (id %d)\n", usr.Role, usr.Email, usr.ID)
	return nil
}
