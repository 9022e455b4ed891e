package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/core/ui"
	"github.com/trezcool/garderie/core/user"
	"github.com/trezcool/garderie/services/apiclient"
	"github.com/trezcool/garderie/services/email"
	"github.com/trezcool/garderie/tests"
)

type testEnv struct {
	api  *testutil.FakeAPI
	srv  *Server
	mail *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T) *testEnv {
	api := testutil.NewFakeAPI(t)
	conf := testutil.NewConfig(api.BaseURL())
	logger := testutil.NewLogger(conf)
	core.ParseEmailTemplates(conf, logger)

	validate := validator.New()
	uni := core.NewUniversalTranslator()
	core.InitValidators(validate, uni)
	user.InitValidators(validate, uni)
	daycare.InitValidators(validate, uni)
	if err := ui.LoadMessages(uni); err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	mail := emailsvc.NewConsoleServiceMock(conf, logger)
	srv := NewServer(conf, &Deps{
		Logger:   logger,
		Validate: validate,
		Uni:      uni,
		API:      apiclient.New(api.BaseURL()),
		MailSvc:  mail,
	})
	return &testEnv{api: api, srv: srv, mail: mail}
}

const testPassword = "Pa$$w0rd!"

// addUser seeds a user of the given role and returns it with a valid token.
func (env *testEnv) addUser(t *testing.T, role, firstName string) (user.User, string) {
	usr := env.api.AddUser(t, user.User{
		Email:     strings.ToLower(firstName) + "@test.ma",
		Role:      role,
		FirstName: firstName,
		LastName:  "Test",
	}, testPassword)
	return usr, env.api.Token(t, usr)
}

type httpTest struct {
	name     string
	method   string
	path     string
	form     url.Values
	token    string
	wantCode int
	wantLoc  string
	wantBody []string
	skipBody []string
}

// do serves a request; form values are sent url-encoded and token in its cookie.
func (env *testEnv) do(t *testing.T, method, path, token string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	if token != "" {
		req.AddCookie(env.tokenCookie(t, token))
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) run(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	rec := env.do(t, tt.method, tt.path, tt.token, tt.form)
	checkResponse(t, tt, rec)
	return rec
}

func (env *testEnv) tokenCookie(t *testing.T, token string) *http.Cookie {
	value, err := env.srv.cookies.Encode(tokenCookie, token)
	if err != nil {
		t.Fatalf("tokenCookie() failed: %v", err)
	}
	return &http.Cookie{Name: tokenCookie, Value: value}
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func checkResponse(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != tt.wantLoc {
		t.Errorf("failed! location = %q; wantLoc %q", loc, tt.wantLoc)
	}
	body := rec.Body.String()
	for _, want := range tt.wantBody {
		if !strings.Contains(body, want) {
			t.Errorf("failed! body does not contain %q", want)
		}
	}
	for _, skip := range tt.skipBody {
		if strings.Contains(body, skip) {
			t.Errorf("failed! body contains %q", skip)
		}
	}
}
