package web

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/garderie/core/ui"
	"github.com/trezcool/garderie/services/apiclient"
)

// httpErrorHandler renders the error page, or ends the session when the API rejected its token.
func (s *Server) httpErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}
	st := getState(ctx)
	if st == nil { // failed before loadState
		st = &state{ui: ui.New(s.deps.Uni, firstSegment(ctx.Request().URL.Path), false)}
	}

	var code int
	var message string
	var apiErr *apiclient.Error

	switch origErr := errors.Cause(err).(type) {
	case *echo.HTTPError:
		code = origErr.Code
		message = statusMessage(st.ui, code)
	default:
		if errors.Is(err, apiclient.ErrUnauthorized) && st.auth != nil {
			st.expire(ctx)
			return
		}
		if errors.As(err, &apiErr) {
			code = apiErr.StatusCode
			if code != http.StatusForbidden && code != http.StatusNotFound {
				code = http.StatusBadGateway
				message = st.ui.T("error.api", apiErr.Message)
				break
			}
			message = statusMessage(st.ui, code)
			break
		}

		// any other error is a server error
		code = http.StatusInternalServerError
		message = st.ui.T("error.generic")

		msg := http.StatusText(code)
		if st.auth != nil {
			s.deps.Logger.Error(msg, errors.Wrap(err, msg), st.auth.User())
		} else {
			s.deps.Logger.Error(msg, errors.Wrap(err, msg))
		}
	}

	if ctx.Echo().Debug && code == http.StatusInternalServerError {
		message = err.Error()
	}

	// Send response
	if ctx.Request().Method == http.MethodHead { // Issue #608
		err = ctx.NoContent(code)
	} else if st.auth == nil {
		err = ctx.String(code, message)
	} else {
		err = s.render(ctx, code, "error", page{Title: "error.title", Data: message})
	}
	if err != nil {
		ctx.Echo().Logger.Error(err)
	}
}

func statusMessage(c *ui.Context, code int) string {
	switch code {
	case http.StatusNotFound:
		return c.T("error.not_found")
	case http.StatusForbidden:
		return c.T("error.forbidden")
	case http.StatusInternalServerError:
		return c.T("error.generic")
	default:
		return http.StatusText(code)
	}
}
