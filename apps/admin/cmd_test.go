package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/core/user"
	"github.com/trezcool/garderie/services/apiclient"
	"github.com/trezcool/garderie/tests"
)

const adminPassword = "Adm1n!pass"

func setup(t *testing.T) (*commandLine, *testutil.FakeAPI, *bytes.Buffer) {
	api := testutil.NewFakeAPI(t)
	api.AddUser(t, user.User{Email: "amina@test.ma", Role: user.RoleAdmin, FirstName: "Amina", LastName: "Idrissi"}, adminPassword)
	api.AddUser(t, user.User{Email: "karim@test.ma", Role: user.RoleTeacher, FirstName: "Karim", LastName: "Fassi"}, adminPassword)

	validate := validator.New()
	uni := core.NewUniversalTranslator()
	core.InitValidators(validate, uni)
	user.InitValidators(validate, uni)

	out := new(bytes.Buffer)
	return &commandLine{
		api:      apiclient.New(api.BaseURL()),
		validate: validate,
		trans:    core.Translator(uni, core.DefaultLocale),
		out:      out,
	}, api, out
}

type cliTest struct {
	name      string
	args      []string // without program name
	passwords []string // answers to the password prompts, in order
	wantErr   error
	wantOut   []string
}

// mockPasswords answers the password prompts with pwds, then with empty input.
func mockPasswords(pwds []string) {
	answers := append([]string(nil), pwds...)
	readPasswordFunc = func(fd int) ([]byte, error) {
		if len(answers) == 0 {
			return nil, nil
		}
		pwd := answers[0]
		answers = answers[1:]
		return []byte(pwd), nil
	}
}

func runCLI(t *testing.T, cli *commandLine, out *bytes.Buffer, tt cliTest) {
	t.Helper()
	out.Reset()
	mockPasswords(tt.passwords)

	err := cli.run(append([]string{"admin"}, tt.args...))
	if tt.wantErr != nil {
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	} else if err != nil {
		t.Errorf("cli.run() unexpected error = %v", err)
	}
	for _, want := range tt.wantOut {
		if !strings.Contains(out.String(), want) {
			t.Errorf("cli.run() output does not contain %q:\n%s", want, out.String())
		}
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, _, out := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: []string{"Usage:"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp, wantOut: []string{"exportpresences", "adduser"}},
		{name: "unknown flag", args: []string{"exportpresences", "-lol"}, wantErr: errHelp},
		{name: "export: no admin", args: []string{"exportpresences"}, wantErr: errHelp},
		{name: "export: no password", args: []string{"exportpresences", "-admin", "amina@test.ma"}, wantErr: errHelp},
		{name: "adduser: no name", args: []string{"adduser", "-admin", "amina@test.ma", "-email", "new@test.ma"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runCLI(t, cli, out, tt)
		})
	}
}

func Test_commandLine_login(t *testing.T) {
	cli, _, out := setup(t)

	tests := []cliTest{
		{
			name:      "bad credentials",
			args:      []string{"exportpresences", "-admin", "amina@test.ma"},
			passwords: []string{"wrong"},
			wantErr:   apiclient.ErrUnauthorized,
		},
		{
			name:      "not an admin",
			args:      []string{"exportpresences", "-admin", "karim@test.ma"},
			passwords: []string{adminPassword},
			wantErr:   errNotAdmin,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runCLI(t, cli, out, tt)
		})
	}
}

func Test_commandLine_exportPresences(t *testing.T) {
	cli, api, out := setup(t)
	karim := api.Users()[1]

	petits := api.AddClass(daycare.Class{Name: "Petits", Capacity: 10, Active: true})
	grands := api.AddClass(daycare.Class{Name: "Grands", Capacity: 10, Active: true})
	lina := api.AddChild(daycare.Child{FirstName: "Lina", LastName: "Tazi", ClassID: null.IntFrom(petits.ID)})
	adam := api.AddChild(daycare.Child{FirstName: "Adam", LastName: "Alaoui", ClassID: null.IntFrom(grands.ID)})
	api.AddPresence(daycare.Presence{ChildID: lina.ID, Date: "2024-03-04", Status: daycare.PresencePresent, RecordedBy: null.IntFrom(karim.ID)})
	api.AddPresence(daycare.Presence{ChildID: adam.ID, Date: "2024-03-04", Status: daycare.PresenceAbsent, Note: null.StringFrom(`dit "malade"`)})
	api.AddPresence(daycare.Presence{ChildID: adam.ID, Date: "2024-03-05", Status: daycare.PresencePresent})

	header := `"date","child","class","status","recorded_by","note"`
	linaRow := `"2024-03-04","Lina Tazi","Petits","present","Karim Fassi",""`
	adamRow := `"2024-03-04","Adam Alaoui","Grands","absent","","dit ""malade"""`

	t.Run("invalid date", func(t *testing.T) {
		mockPasswords([]string{adminPassword})
		err := cli.run([]string{"admin", "exportpresences", "-admin", "amina@test.ma", "-date", "04/03/2024"})
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "invalid date")
		}
	})

	tests := []cliTest{
		{
			name:      "day",
			args:      []string{"exportpresences", "-admin", "Amina@Test.ma", "-date", "2024-03-04"},
			passwords: []string{adminPassword},
			wantOut:   []string{header, linaRow, adamRow},
		},
		{
			name:      "class",
			args:      []string{"exportpresences", "-admin", "amina@test.ma", "-date", "2024-03-04", "-class", strconv.Itoa(grands.ID)},
			passwords: []string{adminPassword},
			wantOut:   []string{header, adamRow},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runCLI(t, cli, out, tt)
		})
	}
	assert.NotContains(t, out.String(), "Lina Tazi")

	t.Run("to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "presences.csv")
		runCLI(t, cli, out, cliTest{
			args:      []string{"exportpresences", "-admin", "amina@test.ma", "-date", "2024-03-04", "-out", path},
			passwords: []string{adminPassword},
		})

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() failed: %v", err)
		}
		assert.Equal(t, header+"\r\n"+linaRow+"\r\n"+adamRow+"\r\n", string(content))
		assert.NotContains(t, out.String(), header)
	})
}

func Test_commandLine_addUser(t *testing.T) {
	cli, api, out := setup(t)
	args := func(email, name, role string) []string {
		return []string{"adduser", "-admin", "amina@test.ma", "-email", email, "-name", name, "-role", role}
	}
	const pwd = "N0uveau!mdp"

	t.Run("invalid", func(t *testing.T) {
		out.Reset()
		mockPasswords([]string{adminPassword, "short", "short"})
		err := cli.run(append([]string{"admin"}, args("new@test.ma", "Salma Berrada", "teacher")...))
		var vErr *core.ValidationError
		if assert.True(t, errors.As(err, &vErr), "error = %v", err) {
			assert.Contains(t, vErr.FieldMap(), "password")
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		out.Reset()
		mockPasswords([]string{adminPassword, pwd, pwd})
		err := cli.run(append([]string{"admin"}, args("new@test.ma", "Salma Berrada", "director")...))
		var vErr *core.ValidationError
		if assert.True(t, errors.As(err, &vErr), "error = %v", err) {
			assert.Contains(t, vErr.FieldMap(), "role")
		}
	})
	assert.Len(t, api.Users(), 2)

	runCLI(t, cli, out, cliTest{
		args:      args(" New@Test.ma ", "Salma El Berrada", user.RoleTeacher),
		passwords: []string{adminPassword, pwd, pwd},
		wantOut:   []string{`created teacher "new@test.ma"`},
	})

	users := api.Users()
	if assert.Len(t, users, 3) {
		usr := users[2]
		assert.Equal(t, "new@test.ma", usr.Email)
		assert.Equal(t, "Salma", usr.FirstName)
		assert.Equal(t, "El Berrada", usr.LastName)
		assert.Equal(t, user.RoleTeacher, usr.Role)
	}

	// the new account can log in
	runCLI(t, cli, out, cliTest{
		args:      []string{"exportpresences", "-admin", "new@test.ma"},
		passwords: []string{pwd},
		wantErr:   errNotAdmin,
	})
}

func Test_describe(t *testing.T) {
	vErr := core.NewValidationError(nil,
		core.FieldError{Field: "email", Error: "email invalide"},
		core.FieldError{Field: "password", Error: "trop court"},
	)
	assert.Equal(t, "email: email invalide; password: trop court", describe(errors.Wrap(vErr, "adduser")))
	assert.Equal(t, "boom", describe(errors.New("boom")))
}
