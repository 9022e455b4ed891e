package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/core/ui"
	"github.com/trezcool/garderie/core/user"
	"github.com/trezcool/garderie/services/apiclient"
)

//go:embed all:templates
var templateFS embed.FS

// templates holds one template set per page, each made of the layout, the partials and the page.
type templates map[string]*template.Template

var funcs = template.FuncMap{
	"itoa":         strconv.Itoa,
	"join":         strings.Join,
	"statusKey":    func(s string) string { return "status." + s },
	"valueKey":     func(s string) string { return "value." + s },
	"roleKey":      func(s string) string { return "role." + s },
	"isoDate":      func(t time.Time) string { return t.Local().Format(core.DateLayout) },
	"local":        func(t time.Time) time.Time { return t.Local() },
	"nextStatuses": daycare.NextStatuses,
	"hasInt": func(ids []int, id int) bool {
		for _, i := range ids {
			if i == id {
				return true
			}
		}
		return false
	},
	"dict": func(kv ...interface{}) map[string]interface{} {
		m := make(map[string]interface{}, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			if k, ok := kv[i].(string); ok {
				m[k] = kv[i+1]
			}
		}
		return m
	},
	"pageQuery": func(q template.URL, n int) template.URL {
		if q == "" {
			return template.URL("?page=" + strconv.Itoa(n))
		}
		return q + template.URL("&page="+strconv.Itoa(n))
	},
	// query encodes key/value pairs, skipping empty values
	"query": func(kv ...interface{}) template.URL {
		q := make(url.Values)
		for i := 0; i+1 < len(kv); i += 2 {
			k, _ := kv[i].(string)
			var v string
			switch val := kv[i+1].(type) {
			case string:
				v = val
			case int:
				if val != 0 {
					v = strconv.Itoa(val)
				}
			}
			if k != "" && v != "" {
				q.Set(k, v)
			}
		}
		if len(q) == 0 {
			return ""
		}
		return template.URL("?" + q.Encode())
	},
}

func mustParseTemplates() templates {
	tmpl, err := parseTemplates()
	if err != nil {
		panic(err)
	}
	return tmpl
}

func parseTemplates() (templates, error) {
	base, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/_*.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "parsing layout")
	}

	pages, err := fs.Glob(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "listing pages")
	}
	tmpl := make(templates, len(pages))
	for _, p := range pages {
		name := strings.TrimSuffix(path.Base(p), ".gohtml")
		if strings.HasPrefix(name, "_") {
			continue
		}
		t, err := base.Clone()
		if err != nil {
			return nil, errors.Wrapf(err, "cloning layout for %s", name)
		}
		if tmpl[name], err = t.ParseFS(templateFS, p); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", name)
		}
	}
	return tmpl, nil
}

// page is the data of every rendered page.
type page struct {
	UI      *ui.Context
	User    *user.User
	Path    string
	Title   string // translation key
	Flashes []string
	Error   string
	Fields  map[string]string
	Data    interface{}
}

func (s *Server) render(ctx echo.Context, code int, name string, p page) error {
	if ctx.Response().Committed {
		return nil
	}
	t, ok := s.tmpl[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}

	st := getState(ctx)
	p.UI = st.ui
	p.User = st.auth.User()
	p.Path = ctx.Request().URL.Path
	p.Flashes = s.popFlashes(ctx)

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", p); err != nil {
		return errors.Wrapf(err, "rendering %s", name)
	}
	return ctx.HTMLBlob(code, buf.Bytes())
}

// renderForm re-renders a form page after err, a failed validation or mutation.
// An expired session is not a form error: it is returned as is.
func (s *Server) renderForm(ctx echo.Context, name string, p page, err error) error {
	if expired(err) {
		return err
	}
	st := getState(ctx)

	var apiErr *apiclient.Error
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		if vErr, ok := core.TranslateErrors(origErr, st.ui.Translator()).(*core.ValidationError); ok {
			p.Fields = vErr.FieldMap()
		}
	case *core.ValidationError:
		p.Error = origErr.Error()
		p.Fields = origErr.FieldMap()
	default:
		if errors.As(err, &apiErr) {
			p.Error = st.ui.T("error.api", apiErr.Message)
			p.Fields = apiErr.Fields
			break
		}
		if errors.Is(err, daycare.ErrInvalidTransition) {
			p.Error = st.ui.T("error.transition")
			break
		}
		s.deps.Logger.Error("form submission failed", err, st.auth.User())
		p.Error = st.ui.T("error.generic")
	}
	return s.render(ctx, http.StatusUnprocessableEntity, name, p)
}

// expired reports whether err ended the session; the error handler then redirects to the login page.
func expired(err error) bool {
	return errors.Is(err, apiclient.ErrUnauthorized)
}

// redirect sends the browser to the locale-prefixed path p after a successful mutation,
// with an optional flash message.
func (s *Server) redirect(ctx echo.Context, p string, flashKey ...string) error {
	if len(flashKey) > 0 {
		if err := s.flash(ctx, flashKey[0]); err != nil {
			return err
		}
	}
	return ctx.Redirect(http.StatusSeeOther, getState(ctx).ui.Path(p))
}
