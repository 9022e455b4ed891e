// Package web serves the dashboard: locale-prefixed, server-rendered pages backed by the daycare API.
package web

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/user"
	"github.com/trezcool/garderie/services/apiclient"
)

// Deps are the services the dashboard relies on.
type Deps struct {
	Logger   core.Logger
	Validate *validator.Validate
	Uni      *ut.UniversalTranslator
	API      *apiclient.Client
	MailSvc  core.EmailService
}

type Server struct {
	conf *core.Config
	deps *Deps
	app  *echo.Echo
	tmpl templates

	cookies  *securecookie.SecureCookie
	sessions *sessions.CookieStore

	errors   chan error
	shutdown chan os.Signal
}

var _ http.Handler = (*Server)(nil)

func NewServer(conf *core.Config, deps *Deps) *Server {
	s := &Server{
		conf:     conf,
		deps:     deps,
		app:      echo.New(),
		tmpl:     mustParseTemplates(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setupCookies()
	s.setup()
	return s
}

func (s *Server) setup() {
	debug := s.conf.Debug

	s.app.HideBanner = true
	s.app.Pre(localeRewrite)
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	if !s.conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(s.loadState)

	s.app.HTTPErrorHandler = s.httpErrorHandler
	s.app.Debug = debug

	s.app.GET("/healthz", healthz)

	lg := s.app.Group("/:locale")
	registerPublicPages(lg, s)
	registerAdminPages(lg.Group("/admin", s.requireRole(user.RoleAdmin)), s)
	registerTeacherPages(lg.Group("/teacher", s.requireRole(user.RoleTeacher)), s)
	registerParentPages(lg.Group("/parent", s.requireRole(user.RoleParent)), s)
}

// Start listens until the server is shut down; failures are sent to Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
