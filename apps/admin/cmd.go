package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/garderie/core/user"
	"github.com/trezcool/garderie/services/apiclient"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp     = errors.New("help provided")
	errNotAdmin = errors.New("an admin account is required")
)

type commandLine struct {
	api      *apiclient.Client
	validate *validator.Validate
	trans    ut.Translator
	out      io.Writer // prompts and default export output
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  exportpresences -admin EMAIL [-date YYYY-MM-DD] [-class ID] [-out FILE] - export the presences of a day as CSV")
	_, _ = fmt.Fprintln(cli.out, "  adduser -admin EMAIL -email EMAIL -name \"FIRST LAST\" -role admin|teacher|parent - create a user account")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("exportpresences", flag.ContinueOnError)
	exportCmd.SetOutput(cli.out)
	exportAdmin := exportCmd.String("admin", "", "The admin's email. The password will be prompted next.")
	exportDate := exportCmd.String("date", "", "The day to export (YYYY-MM-DD), today by default.")
	exportClass := exportCmd.Int("class", 0, "Restrict the export to the class with this ID.")
	exportOut := exportCmd.String("out", "", "The file to write, stdout by default.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserAdmin := addUserCmd.String("admin", "", "The admin's email. The password will be prompted next.")
	addUserEmail := addUserCmd.String("email", "", "The new user's email.")
	addUserName := addUserCmd.String("name", "", "The new user's first and last names.")
	addUserRole := addUserCmd.String("role", user.RoleParent, "The new user's role: admin, teacher or parent.")

	switch args[1] {
	case "exportpresences":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *exportAdmin == "" {
			exportCmd.Usage()
			return errHelp
		}
		api, err := cli.login(*exportAdmin)
		if err != nil {
			return err
		}
		return cli.exportPresences(api, *exportDate, *exportClass, *exportOut)

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserAdmin == "" || *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		api, err := cli.login(*addUserAdmin)
		if err != nil {
			return err
		}
		pwd, err := cli.prompt("Enter the new user's password:")
		if err != nil {
			return err
		}
		confirm, err := cli.prompt("Confirm password:")
		if err != nil {
			return err
		}
		first, last := splitName(*addUserName)
		return cli.addUser(api, user.NewUser{
			FirstName:       first,
			LastName:        last,
			Email:           *addUserEmail,
			Role:            *addUserRole,
			Password:        pwd,
			PasswordConfirm: confirm,
		})

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) prompt(msg string) (string, error) {
	_, _ = fmt.Fprint(cli.out, msg)
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	if len(pwd) == 0 {
		return "", errHelp
	}
	return string(pwd), nil
}

// login prompts for the admin's password and returns a client sending the admin's token.
func (cli *commandLine) login(email string) (*apiclient.Client, error) {
	pwd, err := cli.prompt("Enter password:")
	if err != nil {
		return nil, err
	}
	resp, err := cli.api.Login(context.Background(), user.LoginRequest{Email: strings.ToLower(strings.TrimSpace(email)), Password: pwd})
	if err != nil {
		return nil, err
	}
	if !resp.User.IsAdmin() {
		return nil, errNotAdmin
	}
	token := resp.Token
	return cli.api.Bind(apiclient.TokenFunc(func() string { return token }), nil), nil
}

// splitName splits "First Last Names" on its first space.
func splitName(name string) (first, last string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	first = parts[0]
	if len(parts) == 2 {
		last = strings.TrimSpace(parts[1])
	}
	return first, last
}
