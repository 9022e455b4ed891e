package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/core/ui"
	"github.com/trezcool/garderie/core/user"
	"github.com/trezcool/garderie/services/apiclient"
)

type publicPages struct {
	*Server
}

func registerPublicPages(g *echo.Group, s *Server) {
	pp := publicPages{s}

	g.GET("", pp.home)
	g.GET("/login", pp.loginForm)
	g.POST("/login", pp.login)
	g.POST("/logout", pp.logout)
	g.POST("/theme", pp.toggleTheme)
	g.GET("/inscription", pp.inscriptionForm)
	g.POST("/inscription", pp.createInscription)
}

// home sends users to their dashboard section, anonymous ones to the login page.
func (pp publicPages) home(ctx echo.Context) error {
	st := getState(ctx)
	if usr := st.auth.User(); usr != nil {
		return ctx.Redirect(http.StatusSeeOther, st.ui.Path(user.HomePath(usr.Role)))
	}
	return ctx.Redirect(http.StatusSeeOther, st.ui.Path("/login"))
}

func (pp publicPages) loginForm(ctx echo.Context) error {
	st := getState(ctx)
	if usr := st.auth.User(); usr != nil && user.IsValidRole(usr.Role) {
		return ctx.Redirect(http.StatusSeeOther, st.ui.Path(user.HomePath(usr.Role)))
	}
	return pp.render(ctx, http.StatusOK, "login", page{Title: "login.title", Data: user.LoginRequest{}})
}

func (pp publicPages) login(ctx echo.Context) error {
	st := getState(ctx)

	var req user.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}

	p := page{Title: "login.title", Data: user.LoginRequest{Email: req.Email}}
	if err := req.Validate(pp.deps.Validate); err != nil {
		return pp.renderForm(ctx, "login", p, err)
	}
	// bad credentials are reported inline: the store's client does not redirect on 401
	if err := st.auth.Login(ctx.Request().Context(), req.Email, req.Password); err != nil {
		var apiErr *apiclient.Error
		if !errors.As(err, &apiErr) {
			return pp.renderForm(ctx, "login", p, err)
		}
		p.Error = st.ui.T("error.api", apiErr.Message)
		return pp.render(ctx, loginStatus(apiErr), "login", p)
	}
	return ctx.Redirect(http.StatusSeeOther, st.ui.Path(user.HomePath(st.auth.User().Role)))
}

// loginStatus keeps the API's client error statuses; server failures become 502.
func loginStatus(apiErr *apiclient.Error) int {
	if apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}

func (pp publicPages) logout(ctx echo.Context) error {
	st := getState(ctx)
	st.auth.Logout()
	return ctx.Redirect(http.StatusSeeOther, st.ui.Path("/login"))
}

// toggleTheme flips the dark theme preference and goes back to the `next` page.
func (pp publicPages) toggleTheme(ctx echo.Context) error {
	st := getState(ctx)
	if err := pp.setDark(ctx, st.ui.ToggleTheme()); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, localNext(st.ui, ctx.FormValue("next")))
}

// localNext returns next when it is a path under the active locale, the locale home otherwise.
func localNext(c *ui.Context, next string) string {
	home := c.Path("")
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" || strings.ContainsRune(next, '\\') {
		return home
	}
	if next != home && !strings.HasPrefix(next, home+"/") && !strings.HasPrefix(next, home+"?") {
		return home
	}
	return next
}

func (pp publicPages) inscriptionForm(ctx echo.Context) error {
	return pp.render(ctx, http.StatusOK, "inscription", page{
		Title: "nav.inscription",
		Data:  daycare.InscriptionForm{},
	})
}

// createInscription submits an enrollment application and acknowledges it to the guardian.
func (pp publicPages) createInscription(ctx echo.Context) error {
	st := getState(ctx)

	var form daycare.InscriptionForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to InscriptionForm")
	}
	p := page{Title: "nav.inscription", Data: form}

	err := form.Validate(pp.deps.Validate)
	var created *daycare.Inscription
	if err == nil {
		created, err = st.api.CreateInscription(ctx.Request().Context(), form.Inscription(st.ui.Locale()))
	}
	if err != nil {
		return pp.renderForm(ctx, "inscription", p, err)
	}

	pp.deps.MailSvc.SendMessages(daycare.InscriptionReceivedMessage(*created, st.ui.Locale()))
	return pp.redirect(ctx, "/inscription", "flash.inscription")
}
