package web

import (
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/auth"
	"github.com/trezcool/garderie/core/ui"
	"github.com/trezcool/garderie/core/user"
	"github.com/trezcool/garderie/services/apiclient"
)

const stateKey = "state"

// state is what a request knows about its browser session.
type state struct {
	ui   *ui.Context
	auth *auth.Store
	api  *apiclient.Client // calls on behalf of the logged in user

	expireOnce sync.Once
}

func getState(ctx echo.Context) *state {
	st, _ := ctx.Get(stateKey).(*state)
	return st
}

// expire ends the session after the API rejected its token: the cookie is removed and
// the browser is sent to the login page. It may be called from concurrent page loads.
func (st *state) expire(ctx echo.Context) {
	st.expireOnce.Do(func() {
		st.auth.Logout()
		_ = ctx.Redirect(http.StatusSeeOther, st.ui.Path("/login"))
	})
}

// localeRewrite prefixes paths lacking a supported locale with the default one.
func localeRewrite(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		u := ctx.Request().URL
		if u.Path != "/healthz" && !core.IsSupportedLocale(firstSegment(u.Path)) {
			u.Path = "/" + core.DefaultLocale + u.Path
			u.RawPath = ""
		}
		return next(ctx)
	}
}

func firstSegment(p string) string {
	return strings.SplitN(strings.TrimPrefix(p, "/"), "/", 2)[0]
}

// loadState builds the request's UI context and auth store, reading the token from its cookie.
func (s *Server) loadState(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		st := &state{
			ui: ui.New(s.deps.Uni, firstSegment(ctx.Request().URL.Path), s.isDark(ctx)),
		}
		tokens := apiclient.TokenFunc(func() string { return st.auth.Token() })

		// the store's own calls (login, me) report 401s as errors, without redirecting
		st.auth = auth.NewStore(s.deps.API.Bind(tokens, nil), s.tokenJar(ctx), s.conf.Cookie.TokenTTL)
		st.api = s.deps.API.Bind(tokens, func() { st.expire(ctx) })
		st.auth.InitializeAuth()

		ctx.Set(stateKey, st)
		return next(ctx)
	}
}

// requireRole lets through users of the given role. Anonymous users are sent to the login page,
// others to their own home.
func (s *Server) requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			st := getState(ctx)
			if !st.auth.IsAuthenticated() {
				return ctx.Redirect(http.StatusSeeOther, st.ui.Path("/login"))
			}
			usr := st.auth.User()
			if usr == nil { // opaque token
				if err := st.auth.LoadUser(ctx.Request().Context()); err != nil {
					return err
				}
				usr = st.auth.User()
			}
			if usr.Role != role {
				return ctx.Redirect(http.StatusSeeOther, st.ui.Path(user.HomePath(usr.Role)))
			}
			return next(ctx)
		}
	}
}
